package model

import (
	"fmt"
	"sort"

	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// LinkGroup is a named set of sources the user wants treated as one family:
// assigning a signal from one member proposes the same-named signal from the
// others. A group needs at least two members to mean anything.
type LinkGroup struct {
	Name    string
	Members map[int]bool
	Color   string
}

// MemberIDs returns the member source ids in ascending order.
func (g *LinkGroup) MemberIDs() []int {
	ids := make([]int, 0, len(g.Members))
	for id := range g.Members {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// LinkRegistry holds the link groups by name.
type LinkRegistry struct {
	groups map[string]*LinkGroup
}

// NewLinkRegistry creates an empty link registry.
func NewLinkRegistry() *LinkRegistry {
	return &LinkRegistry{groups: make(map[string]*LinkGroup)}
}

// Create adds a group. The member set is copied. Sentinel members are
// rejected (derived signals have no source to link) and a group with fewer
// than two members is rejected for the same reason it would later be
// garbage-collected.
func (lr *LinkRegistry) Create(name string, members []int, color string) error {
	if name == "" {
		return fmt.Errorf("create link group: name must be non-empty")
	}
	if _, ok := lr.groups[name]; ok {
		return fmt.Errorf("create link group: %q already exists", name)
	}
	set := make(map[int]bool, len(members))
	for _, id := range members {
		if id == sigkey.Sentinel {
			return fmt.Errorf("create link group %q: derived source cannot be linked", name)
		}
		set[id] = true
	}
	if len(set) < 2 {
		return fmt.Errorf("create link group %q: needs at least two distinct members", name)
	}
	lr.groups[name] = &LinkGroup{Name: name, Members: set, Color: color}
	return nil
}

// Delete removes a group by name. Unknown names are a no-op.
func (lr *LinkRegistry) Delete(name string) {
	delete(lr.groups, name)
}

// Group returns the group with the given name, or nil.
func (lr *LinkRegistry) Group(name string) *LinkGroup {
	return lr.groups[name]
}

// Groups returns all groups sorted by name.
func (lr *LinkRegistry) Groups() []*LinkGroup {
	names := make([]string, 0, len(lr.groups))
	for name := range lr.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*LinkGroup, len(names))
	for i, name := range names {
		out[i] = lr.groups[name]
	}
	return out
}

// Matches proposes the companion keys for k: for every group containing
// k's source, one key per other member that actually carries a signal with
// the same name. reg answers the "does that source have this signal"
// question. Derived keys never match.
func (lr *LinkRegistry) Matches(k sigkey.Key, reg *Registry) []sigkey.Key {
	if k.IsDerived() {
		return nil
	}
	var out []sigkey.Key
	seen := map[sigkey.Key]bool{k: true}
	for _, g := range lr.Groups() {
		if !g.Members[k.Source] {
			continue
		}
		for _, id := range g.MemberIDs() {
			candidate := sigkey.New(id, k.Name)
			if seen[candidate] || !reg.HasSignal(candidate) {
				continue
			}
			seen[candidate] = true
			out = append(out, candidate)
		}
	}
	return out
}

// Remap rewrites every group against a frozen plan: removed members are
// dropped, survivors renumbered, and groups left with fewer than two
// members are deleted outright. Called only by the integrity engine.
func (lr *LinkRegistry) Remap(p Plan) {
	for name, g := range lr.groups {
		next := make(map[int]bool, len(g.Members))
		for id := range g.Members {
			if p.Removed[id] {
				continue
			}
			if newID, ok := p.OldToNew[id]; ok {
				next[newID] = true
			}
		}
		if len(next) < 2 {
			delete(lr.groups, name)
			continue
		}
		g.Members = next
	}
}
