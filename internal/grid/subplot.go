package grid

import (
	"github.com/plotdeck/plotdeck/internal/model"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// Mode tags a subplot's assignment variant.
type Mode string

const (
	// ModeRegular plots each assigned signal against time.
	ModeRegular Mode = "regular"

	// ModeTuple plots X-Y pairs.
	ModeTuple Mode = "tuple"
)

// Pair is one X-Y pairing in a tuple-mode subplot. A pair with X == Y is
// allowed; it degenerates to the diagonal and is dropped like any other
// pair when its source goes away.
type Pair struct {
	X     sigkey.Key
	Y     sigkey.Key
	Label string
	Color string
}

// Subplot is one cell of a tab's layout.
type Subplot struct {
	mode      Mode
	signals   []sigkey.Key
	pairs     []Pair
	xOverride *sigkey.Key
}

func newSubplot() *Subplot {
	return &Subplot{mode: ModeRegular}
}

// Mode returns the subplot's current mode tag.
func (sp *Subplot) Mode() Mode {
	return sp.mode
}

// Signals returns the regular-mode assignment list in draw order.
// The returned slice must not be mutated by the caller.
func (sp *Subplot) Signals() []sigkey.Key {
	return sp.signals
}

// Pairs returns the tuple-mode pair list in draw order.
// The returned slice must not be mutated by the caller.
func (sp *Subplot) Pairs() []Pair {
	return sp.pairs
}

// XOverride returns the X-axis override key, or nil. In tuple mode the
// value is retained but the renderer ignores it.
func (sp *Subplot) XOverride() *sigkey.Key {
	return sp.xOverride
}

func (sp *Subplot) contains(k sigkey.Key) bool {
	for _, have := range sp.signals {
		if have == k {
			return true
		}
	}
	return false
}

// remap rewrites the subplot against a frozen plan. Regular entries and
// overrides with a removed source are dropped; a tuple pair with either
// side removed is dropped in its entirety, never patched into a dangling
// half-pair. Derived keys pass through untouched.
func (sp *Subplot) remap(p model.Plan) {
	mapKey := func(k sigkey.Key) (sigkey.Key, bool) {
		if k.IsDerived() {
			return k, true
		}
		if p.Removed[k.Source] {
			return sigkey.Key{}, false
		}
		if newID, ok := p.OldToNew[k.Source]; ok {
			k.Source = newID
			return k, true
		}
		return sigkey.Key{}, false
	}

	kept := sp.signals[:0]
	for _, k := range sp.signals {
		if nk, ok := mapKey(k); ok {
			kept = append(kept, nk)
		}
	}
	sp.signals = kept

	keptPairs := sp.pairs[:0]
	for _, pr := range sp.pairs {
		nx, okX := mapKey(pr.X)
		ny, okY := mapKey(pr.Y)
		if !okX || !okY {
			continue
		}
		pr.X, pr.Y = nx, ny
		keptPairs = append(keptPairs, pr)
	}
	sp.pairs = keptPairs

	if sp.xOverride != nil {
		if nk, ok := mapKey(*sp.xOverride); ok {
			sp.xOverride = &nk
		} else {
			sp.xOverride = nil
		}
	}
}

func (sp *Subplot) referencedKeys(into map[sigkey.Key]bool) {
	for _, k := range sp.signals {
		into[k] = true
	}
	for _, pr := range sp.pairs {
		into[pr.X] = true
		into[pr.Y] = true
	}
	if sp.xOverride != nil {
		into[*sp.xOverride] = true
	}
}
