// Package attrs is the flat per-signal attribute store: scale factor,
// state/step rendering flag, line style and hidden flag, each in its own
// map keyed by the canonical signal-key string.
//
// The store is deliberately dumb. It never prunes itself when a signal
// disappears from its source; only the integrity engine removes or rekeys
// entries, and only during a source removal, so an attribute set on a
// temporarily absent signal survives until its source actually goes away.
// The store is an injected instance owned by the application root, never a
// package-level singleton, so tests construct isolated copies freely.
package attrs

import (
	"math"

	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// Defaults applied lazily on read.
const (
	DefaultScale     = 1.0
	DefaultLineWidth = 1.0
	DefaultColor     = ""
)

// Style is a signal's drawing style. The zero value means "renderer picks".
type Style struct {
	Color     string
	LineWidth float64
}

// Store holds the four attribute maps. All operations are O(1) amortized.
type Store struct {
	scale  map[string]float64
	state  map[string]bool
	style  map[string]Style
	hidden map[string]bool
}

// NewStore creates an empty attribute store.
func NewStore() *Store {
	return &Store{
		scale:  make(map[string]float64),
		state:  make(map[string]bool),
		style:  make(map[string]Style),
		hidden: make(map[string]bool),
	}
}

// Scale returns the scale factor for k, defaulting to 1.0.
func (s *Store) Scale(k sigkey.Key) float64 {
	if v, ok := s.scale[k.Canonical()]; ok {
		return v
	}
	return DefaultScale
}

// SetScale stores a scale factor. Zero, NaN and infinite values are
// replaced by 1.0 instead of being rejected: an invalid scale must never
// corrupt a plot, and wiping the user's zoom is the lesser evil. Returns
// the value actually stored.
func (s *Store) SetScale(k sigkey.Key, v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		v = DefaultScale
	}
	s.scale[k.Canonical()] = v
	return v
}

// State returns the state/step rendering flag for k, defaulting to false.
func (s *Store) State(k sigkey.Key) bool {
	return s.state[k.Canonical()]
}

// SetState stores the state flag and reports whether the effective value
// changed.
func (s *Store) SetState(k sigkey.Key, v bool) bool {
	ck := k.Canonical()
	if s.state[ck] == v {
		return false
	}
	if v {
		s.state[ck] = true
	} else {
		delete(s.state, ck)
	}
	return true
}

// Style returns the style for k with lazy defaults filled in.
func (s *Store) Style(k sigkey.Key) Style {
	st, ok := s.style[k.Canonical()]
	if !ok {
		return Style{Color: DefaultColor, LineWidth: DefaultLineWidth}
	}
	if st.LineWidth <= 0 {
		st.LineWidth = DefaultLineWidth
	}
	return st
}

// SetStyle stores the style for k.
func (s *Store) SetStyle(k sigkey.Key, st Style) {
	s.style[k.Canonical()] = st
}

// Hidden returns the hidden flag for k, defaulting to false.
func (s *Store) Hidden(k sigkey.Key) bool {
	return s.hidden[k.Canonical()]
}

// SetHidden stores the hidden flag and reports whether the effective value
// changed, so hiding an already-hidden signal is an observable no-op.
func (s *Store) SetHidden(k sigkey.Key, v bool) bool {
	ck := k.Canonical()
	if s.hidden[ck] == v {
		return false
	}
	if v {
		s.hidden[ck] = true
	} else {
		delete(s.hidden, ck)
	}
	return true
}

// Remove deletes every attribute entry for k.
func (s *Store) Remove(k sigkey.Key) {
	ck := k.Canonical()
	delete(s.scale, ck)
	delete(s.state, ck)
	delete(s.style, ck)
	delete(s.hidden, ck)
}

// Remap rewrites every entry's key through mapKey in one pass, rebuilding
// the four maps from scratch. Entries for which mapKey reports false are
// dropped. Used by the integrity engine when sources are removed or
// renumbered.
//
// The maps must be rebuilt, not edited in place: under an in-place move a
// reorder that swaps two source ids, or a survivor sliding onto a
// just-removed id, would overwrite an entry not yet visited, and which
// entry survived would depend on map iteration order.
func (s *Store) Remap(mapKey func(sigkey.Key) (sigkey.Key, bool)) error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	scale := make(map[string]float64, len(s.scale))
	state := make(map[string]bool, len(s.state))
	style := make(map[string]Style, len(s.style))
	hidden := make(map[string]bool, len(s.hidden))
	for _, k := range keys {
		nk, ok := mapKey(k)
		if !ok {
			continue
		}
		from, to := k.Canonical(), nk.Canonical()
		if v, ok := s.scale[from]; ok {
			scale[to] = v
		}
		if v, ok := s.state[from]; ok {
			state[to] = v
		}
		if v, ok := s.style[from]; ok {
			style[to] = v
		}
		if v, ok := s.hidden[from]; ok {
			hidden[to] = v
		}
	}
	s.scale, s.state, s.style, s.hidden = scale, state, style, hidden
	return nil
}

// Keys returns the union of keys present in any of the four maps.
// Used by the integrity engine to visit every entry exactly once.
func (s *Store) Keys() ([]sigkey.Key, error) {
	seen := make(map[string]bool)
	var out []sigkey.Key
	collect := func(ck string) error {
		if seen[ck] {
			return nil
		}
		seen[ck] = true
		k, err := sigkey.Parse(ck)
		if err != nil {
			return err
		}
		out = append(out, k)
		return nil
	}
	for ck := range s.scale {
		if err := collect(ck); err != nil {
			return nil, err
		}
	}
	for ck := range s.state {
		if err := collect(ck); err != nil {
			return nil, err
		}
	}
	for ck := range s.style {
		if err := collect(ck); err != nil {
			return nil, err
		}
	}
	for ck := range s.hidden {
		if err := collect(ck); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// HasAny reports whether k has at least one stored attribute.
func (s *Store) HasAny(k sigkey.Key) bool {
	ck := k.Canonical()
	if _, ok := s.scale[ck]; ok {
		return true
	}
	if _, ok := s.state[ck]; ok {
		return true
	}
	if _, ok := s.style[ck]; ok {
		return true
	}
	_, ok := s.hidden[ck]
	return ok
}
