package model

import (
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// Source is one loaded dataset: a display name plus the ordered set of
// signal names it contributes. The id is assigned at load time and is stable
// until a removal triggers a reindex.
type Source struct {
	ID          int
	DisplayName string
	signals     []string
	signalSet   map[string]bool
}

// Signals returns the source's signal names in load order.
// The returned slice must not be mutated by the caller.
func (s *Source) Signals() []string {
	return s.signals
}

// HasSignal reports whether name is one of the source's signals.
func (s *Source) HasSignal(name string) bool {
	return s.signalSet[norm.NFC.String(name)]
}

// AppendSignals adds signal names that appeared after load (a growing
// source picked up new columns). Duplicates and invalid names are skipped;
// the count of newly added names is returned. Appending never changes
// identity of existing signals, so no integrity pass is needed.
func (s *Source) AppendSignals(names []string) int {
	added := 0
	for _, raw := range names {
		name := norm.NFC.String(raw)
		if sigkey.ValidName(name) != nil || s.signalSet[name] {
			continue
		}
		s.signals = append(s.signals, name)
		s.signalSet[name] = true
		added++
	}
	return added
}

// Registry is the ordered list of live sources. Ids are dense indexes into
// that order; the derived sentinel lives outside the registry entirely.
type Registry struct {
	sources []*Source
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Len returns the number of live sources.
func (r *Registry) Len() int {
	return len(r.sources)
}

// Source returns the live source with the given id, or nil when the id is
// out of range. The sentinel id always returns nil: derived signals are not
// registry entries.
func (r *Registry) Source(id int) *Source {
	if id < 0 || id >= len(r.sources) {
		return nil
	}
	return r.sources[id]
}

// Sources returns the live sources in id order.
// The returned slice must not be mutated by the caller.
func (r *Registry) Sources() []*Source {
	return r.sources
}

// Resolve returns the id of the source with the given display name, or
// (-1, false). Display names are how sessions refer to sources across
// restarts, since runtime ids are not stable between sessions.
func (r *Registry) Resolve(displayName string) (int, bool) {
	for _, s := range r.sources {
		if s.DisplayName == displayName {
			return s.ID, true
		}
	}
	return -1, false
}

// HasSignal reports whether the key refers to a signal currently present in
// a live source. Derived keys are not the registry's to answer; they always
// report false here and are checked against the derived provider instead.
func (r *Registry) HasSignal(k sigkey.Key) bool {
	s := r.Source(k.Source)
	return s != nil && s.HasSignal(k.Name)
}

// AddSource appends a new source at the next dense id and returns that id.
// Ids are never reused until a removal reindexes the registry.
//
// Display names are the identity sessions and link relinking resolve by,
// so a name already in use is rejected: two sources under the same name
// would silently alias on export.
//
// Signal names are NFC-normalized and deduplicated in order. A name that
// fails sigkey.ValidName poisons the whole load: the registry refuses the
// source rather than silently renaming a column the user will look for.
func (r *Registry) AddSource(displayName string, signalNames []string) (int, error) {
	if displayName == "" {
		return -1, fmt.Errorf("add source: display name must be non-empty")
	}
	if _, ok := r.Resolve(displayName); ok {
		return -1, fmt.Errorf("add source: display name %q is already loaded", displayName)
	}
	s := &Source{
		ID:          len(r.sources),
		DisplayName: displayName,
		signalSet:   make(map[string]bool, len(signalNames)),
	}
	for _, raw := range signalNames {
		name := norm.NFC.String(raw)
		if err := sigkey.ValidName(name); err != nil {
			return -1, fmt.Errorf("add source %q: %w", displayName, err)
		}
		if s.signalSet[name] {
			continue
		}
		s.signals = append(s.signals, name)
		s.signalSet[name] = true
	}
	r.sources = append(r.sources, s)
	return s.ID, nil
}

// RemoveSources computes the removal plan for the given ids without
// mutating the registry. Survivors keep their original relative order and
// are assigned consecutive new ids in one walk.
//
// Batch removal must be one plan: removing {1,3} as two sequential single
// removals would renumber id 3 to 2 after the first pass and then remove
// the wrong source. Out-of-range and sentinel ids are rejected up front so
// a typo cannot half-apply.
func (r *Registry) RemoveSources(ids []int) (Plan, error) {
	removed := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(r.sources) {
			return Plan{}, fmt.Errorf("remove sources: id %d is not a live source", id)
		}
		removed[id] = true
	}
	if len(removed) == 0 {
		return Plan{}, fmt.Errorf("remove sources: no ids given")
	}

	oldToNew := make(map[int]int, len(r.sources)-len(removed))
	next := 0
	for old := range r.sources {
		if removed[old] {
			continue
		}
		oldToNew[old] = next
		next++
	}
	return Plan{OldToNew: oldToNew, Removed: removed}, nil
}

// Reorder computes a degenerate plan (empty removed set) that permutes the
// live ordering. perm must contain every live id exactly once; perm[i] is
// the old id that should end up at new id i.
func (r *Registry) Reorder(perm []int) (Plan, error) {
	if len(perm) != len(r.sources) {
		return Plan{}, fmt.Errorf("reorder: permutation has %d entries, registry has %d sources", len(perm), len(r.sources))
	}
	seen := make(map[int]bool, len(perm))
	oldToNew := make(map[int]int, len(perm))
	for newID, oldID := range perm {
		if oldID < 0 || oldID >= len(r.sources) || seen[oldID] {
			return Plan{}, fmt.Errorf("reorder: invalid permutation entry %d", oldID)
		}
		seen[oldID] = true
		oldToNew[oldID] = newID
	}
	return Plan{OldToNew: oldToNew, Removed: map[int]bool{}}, nil
}

// Commit applies a plan to the registry itself: survivors are renumbered
// and re-ordered densely, removed sources are dropped.
//
// Only the integrity engine calls this, and only after every dependent
// structure has been rewritten against the same plan. Calling it earlier
// would leave assignments pointing through a remap that no longer matches
// the registry.
func (r *Registry) Commit(p Plan) {
	survivors := make([]*Source, 0, len(p.OldToNew))
	for old, s := range r.sources {
		if p.Removed[old] {
			continue
		}
		s.ID = p.OldToNew[old]
		survivors = append(survivors, s)
	}
	sort.Slice(survivors, func(i, j int) bool { return survivors[i].ID < survivors[j].ID })
	r.sources = survivors
}
