package model

// Plan is a frozen view of one registry change: which ids disappear and
// where every survivor moves. It is computed in a single walk and then fed,
// unchanged, to every structure that carries source ids.
//
// INVARIANT: OldToNew's values are dense over [0, len(OldToNew)) and no key
// of OldToNew appears in Removed. Every structure remapped against the same
// plan therefore agrees on every signal's fate; the class of bug where a
// signal survives in one map but vanishes from another cannot occur.
type Plan struct {
	// OldToNew maps each surviving old id to its new dense id.
	OldToNew map[int]int

	// Removed is the set of old ids being unloaded.
	Removed map[int]bool
}

// IsRemoval reports whether the plan unloads at least one source.
// A pure reorder plan has an empty removed set.
func (p Plan) IsRemoval() bool {
	return len(p.Removed) > 0
}

// RemovedIDs returns the removed set as a slice, in no particular order.
func (p Plan) RemovedIDs() []int {
	ids := make([]int, 0, len(p.Removed))
	for id := range p.Removed {
		ids = append(ids, id)
	}
	return ids
}
