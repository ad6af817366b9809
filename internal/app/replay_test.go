package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotdeck/plotdeck/internal/attrs"
	"github.com/plotdeck/plotdeck/internal/journal"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

func openJournal(t *testing.T) *journal.Store {
	t.Helper()
	js, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { js.Close() })
	return js
}

// Drive a session against a journaled app, replay the journal into a
// fresh app, and expect identical model state.
func TestJournalReplay_RebuildsState(t *testing.T) {
	js := openJournal(t)
	a := New(WithJournal(js, journal.NewFixedGenerator("run-1")))

	load(t, a, "lap1.csv", "temp", "rpm")
	load(t, a, "lap2.csv", "temp")
	load(t, a, "lap3.csv", "temp", "rpm")
	_, err := a.AddTab("main", 1, 2)
	require.NoError(t, err)

	_, _, err = a.Assign(0, 0, []sigkey.Key{sigkey.New(0, "temp"), sigkey.New(1, "temp"), sigkey.New(2, "temp")})
	require.NoError(t, err)
	_, _, err = a.Assign(0, 1, []sigkey.Key{sigkey.New(0, "rpm"), sigkey.New(2, "rpm")})
	require.NoError(t, err)
	require.NoError(t, a.SetTupleMode(0, 1, true))
	_, err = a.SetScale(sigkey.New(2, "temp"), 2.5)
	require.NoError(t, err)
	_, err = a.SetHidden(sigkey.New(0, "temp"), true)
	require.NoError(t, err)
	require.NoError(t, a.CreateLink("laps", []int{0, 1, 2}, "#123456"))
	require.NoError(t, a.RemoveDatasets([]int{1}))

	// Replay into a fresh app.
	b := New()
	_, err = js.Replay(context.Background(), b.ApplyOp)
	require.NoError(t, err)

	require.Equal(t, 2, b.Registry().Len())
	assert.Equal(t, "lap1.csv", b.Registry().Source(0).DisplayName)
	assert.Equal(t, "lap3.csv", b.Registry().Source(1).DisplayName)

	assert.Equal(t, []sigkey.Key{sigkey.New(0, "temp"), sigkey.New(1, "temp")},
		b.Grid().Tab(0).Subplot(0).Signals())

	pairs := b.Grid().Tab(0).Subplot(1).Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, sigkey.New(0, "rpm"), pairs[0].X)
	assert.Equal(t, sigkey.New(1, "rpm"), pairs[0].Y)

	assert.Equal(t, 2.5, b.Attributes().Scale(sigkey.New(1, "temp")))
	assert.True(t, b.Attributes().Hidden(sigkey.New(0, "temp")))

	g := b.Links().Group("laps")
	require.NotNil(t, g)
	assert.Equal(t, []int{0, 1}, g.MemberIDs())

	assert.Equal(t, a.Revision(), b.Revision())
}

func TestApplyOp_DoesNotReRecord(t *testing.T) {
	js := openJournal(t)
	a := New(WithJournal(js, journal.NewFixedGenerator("run-1")))
	load(t, a, "lap1.csv", "temp")

	before, err := js.Count(context.Background())
	require.NoError(t, err)

	// Replaying the journal into the same journaled app must not append.
	b := New(WithJournal(js, journal.NewFixedGenerator("run-2")))
	_, err = js.Replay(context.Background(), b.ApplyOp)
	require.NoError(t, err)

	after, err := js.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApplyOp_UnknownKind(t *testing.T) {
	a := New()
	err := a.ApplyOp(journal.Op{Kind: "time_travel", Payload: []byte(`{}`)})
	assert.Error(t, err)
}

func TestApplyOp_RestoreTuple(t *testing.T) {
	a := New()
	load(t, a, "lap1.csv", "temp", "rpm")
	_, err := a.AddTab("main", 1, 1)
	require.NoError(t, err)

	require.NoError(t, a.ApplyOp(journal.Op{
		Kind: journal.KindRestoreTuple,
		Payload: []byte(`{"tab":0,"subplot":0,"pairs":[
			{"x":"SRC0_rpm","y":"SRC0_temp","label":"rt","color":"#0000ff"},
			{"x":"SRC0_temp","y":"SRC0_temp"}]}`),
	}))

	sp := a.Grid().Tab(0).Subplot(0)
	require.Len(t, sp.Pairs(), 2)
	assert.Equal(t, "rt", sp.Pairs()[0].Label)
	assert.Equal(t, "#0000ff", sp.Pairs()[0].Color)
	assert.Equal(t, sigkey.New(0, "temp"), sp.Pairs()[1].X)
}

func TestApplyOp_SetStyle(t *testing.T) {
	a := New()
	load(t, a, "lap1.csv", "temp")
	require.NoError(t, a.ApplyOp(journal.Op{
		Kind:    journal.KindSetStyle,
		Payload: []byte(`{"key":"SRC0_temp","color":"#ff0000","line_width":2}`),
	}))

	assert.Equal(t, attrs.Style{Color: "#ff0000", LineWidth: 2}, a.Attributes().Style(sigkey.New(0, "temp")))
}
