package attrs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotdeck/plotdeck/internal/sigkey"
)

func TestScale_Default(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 1.0, s.Scale(sigkey.New(0, "temp")))
}

func TestSetScale_StoresFiniteValues(t *testing.T) {
	s := NewStore()
	k := sigkey.New(0, "temp")

	got := s.SetScale(k, 2.5)
	assert.Equal(t, 2.5, got)
	assert.Equal(t, 2.5, s.Scale(k))

	got = s.SetScale(k, -0.5)
	assert.Equal(t, -0.5, got)
}

func TestSetScale_FailSoft(t *testing.T) {
	s := NewStore()
	k := sigkey.New(0, "temp")

	for _, bad := range []float64{0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		got := s.SetScale(k, bad)
		assert.Equal(t, 1.0, got)
		assert.Equal(t, 1.0, s.Scale(k), "invalid scale must never reach a plot")
	}
}

func TestHidden_Idempotent(t *testing.T) {
	s := NewStore()
	k := sigkey.New(1, "rpm")

	assert.False(t, s.Hidden(k))
	assert.True(t, s.SetHidden(k, true), "first hide changes state")
	assert.False(t, s.SetHidden(k, true), "hiding an already-hidden signal is a no-op")
	assert.True(t, s.SetHidden(k, false))
	assert.False(t, s.SetHidden(k, false), "showing an already-visible signal is a no-op")
}

func TestState_Idempotent(t *testing.T) {
	s := NewStore()
	k := sigkey.Derived("gear")

	assert.True(t, s.SetState(k, true))
	assert.False(t, s.SetState(k, true))
	assert.True(t, s.State(k))
}

func TestStyle_LazyDefaults(t *testing.T) {
	s := NewStore()
	k := sigkey.New(0, "temp")

	st := s.Style(k)
	assert.Equal(t, 1.0, st.LineWidth)

	s.SetStyle(k, Style{Color: "#00ff00"})
	st = s.Style(k)
	assert.Equal(t, "#00ff00", st.Color)
	assert.Equal(t, 1.0, st.LineWidth, "zero width falls back to default on read")
}

func TestRemove_DropsAllKinds(t *testing.T) {
	s := NewStore()
	k := sigkey.New(0, "temp")
	s.SetScale(k, 3)
	s.SetState(k, true)
	s.SetStyle(k, Style{Color: "#fff", LineWidth: 2})
	s.SetHidden(k, true)

	s.Remove(k)

	assert.False(t, s.HasAny(k))
	assert.Equal(t, 1.0, s.Scale(k))
	assert.False(t, s.State(k))
	assert.False(t, s.Hidden(k))
}

func TestRemap_RekeysAndDrops(t *testing.T) {
	s := NewStore()
	dropped := sigkey.New(0, "temp")
	moved := sigkey.New(2, "temp")
	derived := sigkey.Derived("gear")
	s.SetScale(dropped, 9)
	s.SetScale(moved, 2.5)
	s.SetHidden(moved, true)
	s.SetStyle(moved, Style{Color: "#abc", LineWidth: 3})
	s.SetState(derived, true)

	err := s.Remap(func(k sigkey.Key) (sigkey.Key, bool) {
		switch k {
		case moved:
			return sigkey.New(1, "temp"), true
		case derived:
			return k, true
		default:
			return sigkey.Key{}, false
		}
	})
	require.NoError(t, err)

	newKey := sigkey.New(1, "temp")
	assert.Equal(t, 2.5, s.Scale(newKey))
	assert.True(t, s.Hidden(newKey))
	assert.Equal(t, Style{Color: "#abc", LineWidth: 3}, s.Style(newKey))
	assert.True(t, s.State(derived))
	assert.False(t, s.HasAny(dropped), "dropped key has no entry")
	assert.False(t, s.HasAny(moved), "old key has no entry after the move")
}

func TestRemap_SwapKeepsBothEntries(t *testing.T) {
	s := NewStore()
	a := sigkey.New(0, "v")
	b := sigkey.New(1, "v")
	s.SetScale(a, 2)
	s.SetScale(b, 3)
	s.SetHidden(a, true)

	err := s.Remap(func(k sigkey.Key) (sigkey.Key, bool) {
		return sigkey.New(1-k.Source, k.Name), true
	})
	require.NoError(t, err)

	assert.Equal(t, 3.0, s.Scale(a), "entry from id 1 landed on id 0")
	assert.Equal(t, 2.0, s.Scale(b), "entry from id 0 landed on id 1")
	assert.False(t, s.Hidden(a))
	assert.True(t, s.Hidden(b))
}

func TestKeys_UnionAcrossMaps(t *testing.T) {
	s := NewStore()
	a := sigkey.New(0, "temp")
	b := sigkey.New(1, "rpm")
	c := sigkey.Derived("gear")
	s.SetScale(a, 2)
	s.SetHidden(b, true)
	s.SetState(c, true)
	s.SetStyle(a, Style{Color: "#fff"})

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []sigkey.Key{a, b, c}, keys)
}
