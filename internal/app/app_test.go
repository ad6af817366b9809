package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotdeck/plotdeck/internal/grid"
	"github.com/plotdeck/plotdeck/internal/model"
	"github.com/plotdeck/plotdeck/internal/sigkey"
	"github.com/plotdeck/plotdeck/internal/testutil"
)

type fakeDerived struct{ names map[string]bool }

func (f *fakeDerived) Has(name string) bool { return f.names[name] }
func (f *fakeDerived) FetchSamples(name string) (Samples, error) {
	return Samples{}, nil
}

func newTestApp(t *testing.T, opts ...Option) (*App, *testutil.RecordingRenderer) {
	t.Helper()
	r := testutil.NewRecordingRenderer()
	opts = append([]Option{WithRenderer(r)}, opts...)
	return New(opts...), r
}

func load(t *testing.T, a *App, name string, signals ...string) int {
	t.Helper()
	id, err := a.LoadDataset(name, signals)
	require.NoError(t, err)
	return id
}

func TestLoadDataset_AssignsDenseIDs(t *testing.T) {
	a, _ := newTestApp(t)

	assert.Equal(t, 0, load(t, a, "lap1.csv", "temp"))
	assert.Equal(t, 1, load(t, a, "lap2.csv", "temp"))
}

func TestAssign_RejectsUnknownKey(t *testing.T) {
	a, r := newTestApp(t)
	load(t, a, "lap1.csv", "temp")
	a.AddTab("main", 1, 1)

	// One unknown key rejects the whole batch: no partial mutation.
	added, _, err := a.Assign(0, 0, []sigkey.Key{
		sigkey.New(0, "temp"), sigkey.New(0, "rpm"),
	})
	require.Error(t, err)
	assert.True(t, model.IsCode(err, model.ErrCodeUnknownSignalKey))
	assert.Equal(t, 0, added)
	assert.Empty(t, a.Grid().Tab(0).Subplot(0).Signals())
	assert.Zero(t, r.SubplotChanges, "rejected op must not notify")
}

func TestAssign_DerivedKeyValidatedAgainstProvider(t *testing.T) {
	derived := &fakeDerived{names: map[string]bool{"fft(temp)": true}}
	a, _ := newTestApp(t, WithDerivedProvider(derived))
	a.AddTab("main", 1, 1)

	_, _, err := a.Assign(0, 0, []sigkey.Key{sigkey.Derived("fft(temp)")})
	require.NoError(t, err)

	_, _, err = a.Assign(0, 0, []sigkey.Key{sigkey.Derived("missing")})
	assert.True(t, model.IsCode(err, model.ErrCodeUnknownSignalKey))
}

func TestAssign_NotifiesSubplot(t *testing.T) {
	a, r := newTestApp(t)
	load(t, a, "lap1.csv", "temp")
	a.AddTab("main", 2, 2)

	_, _, err := a.Assign(0, 3, []sigkey.Key{sigkey.New(0, "temp")})
	require.NoError(t, err)

	require.Len(t, r.SubplotChanges, 1)
	assert.Equal(t, [2]int{0, 3}, r.SubplotChanges[0])
}

func TestAssign_LinkProposals(t *testing.T) {
	a, _ := newTestApp(t)
	load(t, a, "lap1.csv", "temp")
	load(t, a, "lap2.csv", "temp")
	require.NoError(t, a.CreateLink("laps", []int{0, 1}, ""))
	a.AddTab("main", 1, 1)

	_, proposals, err := a.Assign(0, 0, []sigkey.Key{sigkey.New(0, "temp")})
	require.NoError(t, err)
	assert.Equal(t, []sigkey.Key{sigkey.New(1, "temp")}, proposals,
		"linked source proposes its matching signal")
}

func TestRemoveDatasets_FullPipeline(t *testing.T) {
	a, r := newTestApp(t)
	load(t, a, "a.csv", "x")
	load(t, a, "b.csv", "y")
	load(t, a, "c.csv", "z")
	a.AddTab("main", 1, 1)
	_, _, err := a.Assign(0, 0, []sigkey.Key{
		sigkey.New(0, "x"), sigkey.New(1, "y"), sigkey.New(2, "z"),
	})
	require.NoError(t, err)
	_, err = a.SetScale(sigkey.New(2, "z"), 2.5)
	require.NoError(t, err)
	r.Reset()

	require.NoError(t, a.RemoveDatasets([]int{1}))

	assert.Equal(t, []sigkey.Key{sigkey.New(0, "x"), sigkey.New(1, "z")},
		a.Grid().Tab(0).Subplot(0).Signals())
	assert.Equal(t, 2.5, a.Attributes().Scale(sigkey.New(1, "z")))
	assert.Equal(t, 1, r.FullRebuilds, "one pass, one rebuild")
	assert.Equal(t, int64(1), a.Revision())
}

func TestRemoveDatasets_FencesStreams(t *testing.T) {
	streams := &testutil.FakeStreamController{}
	a, _ := newTestApp(t, WithStreams(streams))
	load(t, a, "a.csv", "x")
	load(t, a, "b.csv", "y")

	require.NoError(t, a.RemoveDatasets([]int{0}))

	assert.Equal(t, [][]int{{0}}, streams.Suspended)
	assert.Equal(t, 1, streams.Remaps, "survivor watchers retargeted after the pass")
	assert.Equal(t, 1, streams.Resumes)
}

func TestSetTupleMode_ErrorPathLeavesStateUntouched(t *testing.T) {
	a, _ := newTestApp(t)
	load(t, a, "a.csv", "x")
	a.AddTab("main", 1, 1)
	_, _, err := a.Assign(0, 0, []sigkey.Key{sigkey.New(0, "x")})
	require.NoError(t, err)

	err = a.SetTupleMode(0, 0, true)
	assert.True(t, model.IsCode(err, model.ErrCodeInvalidTupleArity))
	assert.Equal(t, []sigkey.Key{sigkey.New(0, "x")}, a.Grid().Tab(0).Subplot(0).Signals())
}

func TestRestoreTuple_ValidatesEveryPairSide(t *testing.T) {
	a, r := newTestApp(t)
	load(t, a, "a.csv", "x")
	a.AddTab("main", 1, 1)

	err := a.RestoreTuple(0, 0, []grid.Pair{
		{X: sigkey.New(0, "x"), Y: sigkey.New(0, "nope")},
	})
	require.Error(t, err)
	assert.True(t, model.IsCode(err, model.ErrCodeUnknownSignalKey))
	assert.Equal(t, grid.ModeRegular, a.Grid().Tab(0).Subplot(0).Mode())
	assert.Zero(t, r.SubplotChanges, "rejected op must not notify")
}

func TestRestoreTuple_KeepsPairMetadata(t *testing.T) {
	a, _ := newTestApp(t)
	load(t, a, "a.csv", "x", "y")
	a.AddTab("main", 1, 1)

	pairs := []grid.Pair{
		{X: sigkey.New(0, "x"), Y: sigkey.New(0, "y"), Label: "xy", Color: "#112233"},
		{X: sigkey.New(0, "x"), Y: sigkey.New(0, "x"), Label: "diag"},
	}
	require.NoError(t, a.RestoreTuple(0, 0, pairs))

	sp := a.Grid().Tab(0).Subplot(0)
	assert.Equal(t, grid.ModeTuple, sp.Mode())
	assert.Equal(t, pairs, sp.Pairs())
}

func TestSetScale_UnknownKeyIsNoOp(t *testing.T) {
	a, _ := newTestApp(t)
	load(t, a, "a.csv", "x")

	_, err := a.SetScale(sigkey.New(0, "nope"), 3)
	assert.True(t, model.IsCode(err, model.ErrCodeUnknownSignalKey))
	assert.Equal(t, 1.0, a.Attributes().Scale(sigkey.New(0, "nope")))
}

func TestSetHidden_Idempotence(t *testing.T) {
	a, _ := newTestApp(t)
	load(t, a, "a.csv", "x")
	k := sigkey.New(0, "x")

	changed, err := a.SetHidden(k, true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = a.SetHidden(k, true)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCreateLink_RejectsDeadSource(t *testing.T) {
	a, _ := newTestApp(t)
	load(t, a, "a.csv", "x")

	err := a.CreateLink("bad", []int{0, 7}, "")
	assert.True(t, model.IsCode(err, model.ErrCodeUnknownSignalKey))
	assert.Nil(t, a.Links().Group("bad"))
}

func TestStale_RecordAndResolve(t *testing.T) {
	a, _ := newTestApp(t)
	a.AddTab("main", 1, 1)

	serr := a.RecordStale(StaleRef{DisplayName: "missing.csv", Signal: "temp", Tab: 0, Subplot: 0})
	assert.Equal(t, model.ErrCodeStaleSessionReference, serr.Code)
	require.Len(t, a.Stale(), 1)

	// Relink: loading the source under the same display name resolves
	// the retained reference and re-applies the assignment.
	load(t, a, "missing.csv", "temp")
	resolved := a.ResolveStale("missing.csv")
	assert.Equal(t, 1, resolved)
	assert.Empty(t, a.Stale())
	assert.Equal(t, []sigkey.Key{sigkey.New(0, "temp")},
		a.Grid().Tab(0).Subplot(0).Signals())
}

func TestStale_UnresolvableStaysRetained(t *testing.T) {
	a, _ := newTestApp(t)
	a.RecordStale(StaleRef{DisplayName: "missing.csv", Signal: "temp", Tab: -1, Subplot: -1})

	// Source relinked but without the referenced signal: stays stale.
	load(t, a, "missing.csv", "other")
	assert.Equal(t, 0, a.ResolveStale("missing.csv"))
	assert.Len(t, a.Stale(), 1)
}

func TestStale_TuplePairSideStaysRetained(t *testing.T) {
	a, _ := newTestApp(t)
	load(t, a, "lap1.csv", "x", "y")
	a.AddTab("main", 1, 1)
	require.NoError(t, a.RestoreTuple(0, 0, []grid.Pair{
		{X: sigkey.New(0, "x"), Y: sigkey.New(0, "y")},
	}))

	// One side of a pair whose partner came from a missing source. The
	// pair cannot be rebuilt from this half alone, so relinking must not
	// count it resolved or sneak a regular assignment into the subplot.
	a.RecordStale(StaleRef{DisplayName: "lap2.csv", Signal: "y", Tab: 0, Subplot: 0})
	load(t, a, "lap2.csv", "y")

	assert.Equal(t, 0, a.ResolveStale("lap2.csv"))
	assert.Len(t, a.Stale(), 1)
	sp := a.Grid().Tab(0).Subplot(0)
	assert.Empty(t, sp.Signals())
	assert.Len(t, sp.Pairs(), 1)
}
