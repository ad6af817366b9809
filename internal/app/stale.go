package app

import (
	"github.com/plotdeck/plotdeck/internal/grid"
	"github.com/plotdeck/plotdeck/internal/model"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// StaleRef is a session reference whose source could not be located at
// load time. The reference is retained, not dropped, so the user can
// relink the source manually; the integrity invariant is relaxed for
// these until the source is resolved or confirmed missing.
type StaleRef struct {
	// DisplayName is the missing source's serialized identity.
	DisplayName string

	// Signal is the referenced signal name.
	Signal string

	// Tab and Subplot locate the assignment that referenced it, or -1
	// when the reference came from an attribute entry.
	Tab     int
	Subplot int
}

// Stale returns the currently unresolved session references.
func (a *App) Stale() []StaleRef {
	return a.stale
}

// RecordStale registers an unresolved reference. Called by the session
// loader; surfaced as a STALE_SESSION_REFERENCE condition, never fatal.
func (a *App) RecordStale(ref StaleRef) *model.Error {
	a.stale = append(a.stale, ref)
	err := model.NewStaleReferenceError(ref.DisplayName + "/" + ref.Signal)
	a.log.Warn("stale session reference retained",
		"source", ref.DisplayName, "signal", ref.Signal)
	return err
}

// ResolveStale re-binds every retained reference to a now-loaded source.
// Called after the user relinks a missing dataset: references whose
// display name matches and whose signal the source actually carries are
// re-validated and re-assigned; the rest stay stale.
//
// A reference into a tuple-mode subplot stays stale: it was one side of a
// dropped pair, and a pair cannot be rebuilt from one side, so the marker
// is kept for the user to re-add the pair instead of being miscounted as
// resolved.
func (a *App) ResolveStale(displayName string) (resolved int) {
	id, ok := a.registry.Resolve(displayName)
	if !ok {
		return 0
	}
	var remaining []StaleRef
	for _, ref := range a.stale {
		if ref.DisplayName != displayName || !a.registry.HasSignal(sigkey.New(id, ref.Signal)) {
			remaining = append(remaining, ref)
			continue
		}
		if ref.Tab >= 0 {
			var sp *grid.Subplot
			if t := a.grid.Tab(ref.Tab); t != nil {
				sp = t.Subplot(ref.Subplot)
			}
			if sp == nil || sp.Mode() == grid.ModeTuple {
				remaining = append(remaining, ref)
				continue
			}
			if _, _, err := a.Assign(ref.Tab, ref.Subplot, []sigkey.Key{sigkey.New(id, ref.Signal)}); err != nil {
				remaining = append(remaining, ref)
				continue
			}
		}
		resolved++
	}
	a.stale = remaining
	return resolved
}
