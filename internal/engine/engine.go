package engine

import (
	"io"
	"log/slog"

	"github.com/plotdeck/plotdeck/internal/attrs"
	"github.com/plotdeck/plotdeck/internal/grid"
	"github.com/plotdeck/plotdeck/internal/model"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// Engine rewrites every dependent structure against one frozen removal or
// reorder plan, then signals the renderer exactly once.
//
// INVARIANTS:
//   - Apply never runs with a plan computed against a different registry
//     state than the one it commits (callers obtain the plan and apply it
//     on the same control-thread turn, nothing mutates in between).
//   - Steps 1-3 all read the same Plan; no structure computes its own
//     remap.
//   - The rebuild notification fires exactly once per Apply, after the
//     commit, and only on success.
type Engine struct {
	registry *model.Registry
	attrs    *attrs.Store
	grid     *grid.Store
	links    *model.LinkRegistry
	notifier Notifier
	revision *Revision
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the rebuild notifier. Wrap the renderer's notifier in
// a CoalescingNotifier unless reentrancy is impossible by construction.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRevision sets a pre-seeded revision counter (journal replay).
func WithRevision(r *Revision) Option {
	return func(e *Engine) { e.revision = r }
}

// New creates an Engine over the four structures it keeps consistent.
func New(reg *model.Registry, at *attrs.Store, gr *grid.Store, links *model.LinkRegistry, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		attrs:    at,
		grid:     gr,
		links:    links,
		revision: NewRevision(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Revision returns the number of plans applied so far.
func (e *Engine) Revision() int64 {
	return e.revision.Current()
}

// Apply runs one integrity pass:
//
//  1. Rewrite the assignment tree: entries on removed sources drop out
//     (a tuple pair loses both halves), survivors are renumbered.
//  2. Rewrite the attribute maps: removed entries deleted, survivors
//     rekeyed to their remapped canonical strings.
//  3. Rewrite the link registry: removed members dropped, survivors
//     renumbered, groups below two members deleted.
//  4. Commit the registry's new dense ordering.
//  5. Fire the rebuild notification, exactly once.
//
// On a verification failure the notification is suppressed (rendering
// corrupted state is worse than rendering stale state) and the fatal
// DANGLING_REFERENCE error is returned.
func (e *Engine) Apply(p model.Plan) error {
	e.grid.Remap(p)

	if err := e.remapAttributes(p); err != nil {
		return err
	}

	e.links.Remap(p)
	e.registry.Commit(p)

	if err := e.verify(); err != nil {
		e.log.Error("integrity pass left a dangling reference, rebuild aborted",
			"error", err, "revision", e.revision.Current())
		return err
	}

	rev := e.revision.Next()
	e.log.Debug("integrity pass applied",
		"revision", rev, "removed", len(p.Removed), "survivors", len(p.OldToNew))
	if e.notifier != nil {
		e.notifier.OnFullRebuildRequired()
	}
	return nil
}

// remapAttributes deletes attribute entries on removed sources and rekeys
// the survivors. The store rebuilds its maps in one pass, so a swap
// reorder (or a survivor sliding onto a just-removed id) cannot overwrite
// an entry that has not been remapped yet.
func (e *Engine) remapAttributes(p model.Plan) error {
	return e.attrs.Remap(func(k sigkey.Key) (sigkey.Key, bool) {
		if k.IsDerived() {
			return k, true
		}
		if p.Removed[k.Source] {
			return sigkey.Key{}, false
		}
		newID, ok := p.OldToNew[k.Source]
		if !ok {
			// Not removed and not a survivor: the entry predates a prior
			// pruning and its source no longer exists. Drop it.
			return sigkey.Key{}, false
		}
		k.Source = newID
		return k, true
	})
}

// verify re-walks every reachable key after the commit. Every non-derived
// key must point into the registry's new dense range. Signal-level
// membership is not re-checked here: assignment keys were validated when
// they entered the tree, and attribute entries are allowed to outlive a
// signal's presence in a growing source (they are pruned on source removal
// only), so both get the range check alone.
func (e *Engine) verify() error {
	for k := range e.grid.AllReferencedKeys() {
		if k.IsDerived() {
			continue
		}
		if k.Source < 0 || k.Source >= e.registry.Len() {
			return model.NewDanglingReferenceError(k.Canonical())
		}
	}
	keys, err := e.attrs.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if k.IsDerived() {
			continue
		}
		if k.Source < 0 || k.Source >= e.registry.Len() {
			return model.NewDanglingReferenceError(k.Canonical())
		}
	}
	for _, g := range e.links.Groups() {
		for _, id := range g.MemberIDs() {
			if id < 0 || id >= e.registry.Len() {
				return model.NewDanglingReferenceError(g.Name)
			}
		}
	}
	return nil
}
