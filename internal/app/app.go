package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/plotdeck/plotdeck/internal/attrs"
	"github.com/plotdeck/plotdeck/internal/engine"
	"github.com/plotdeck/plotdeck/internal/grid"
	"github.com/plotdeck/plotdeck/internal/journal"
	"github.com/plotdeck/plotdeck/internal/model"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// App owns the whole signal-reference model.
type App struct {
	registry *model.Registry
	attrs    *attrs.Store
	grid     *grid.Store
	links    *model.LinkRegistry
	engine   *engine.Engine

	renderer Renderer
	derived  DerivedProvider
	streams  StreamController

	jstore    *journal.Store
	runToken  string
	recording bool

	stale []StaleRef
	log   *slog.Logger
}

// Option configures an App.
type Option func(*App)

// WithRenderer attaches the renderer collaborator. Its full-rebuild
// callback is automatically wrapped in a coalescing notifier.
func WithRenderer(r Renderer) Option {
	return func(a *App) { a.renderer = r }
}

// WithDerivedProvider attaches the computed-signal collaborator.
func WithDerivedProvider(d DerivedProvider) Option {
	return func(a *App) { a.derived = d }
}

// WithStreams attaches the background stream controller.
func WithStreams(s StreamController) Option {
	return func(a *App) { a.streams = s }
}

// WithJournal attaches a journal; every mutation is recorded under a
// token from gen.
func WithJournal(js *journal.Store, gen journal.TokenGenerator) Option {
	return func(a *App) {
		a.jstore = js
		a.runToken = gen.Generate()
		a.recording = true
	}
}

// WithLogger sets the App's logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.log = l }
}

// New creates an empty App.
func New(opts ...Option) *App {
	a := &App{
		registry: model.NewRegistry(),
		attrs:    attrs.NewStore(),
		grid:     grid.NewStore(),
		links:    model.NewLinkRegistry(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	var notifier engine.Notifier
	if a.renderer != nil {
		notifier = engine.NewCoalescingNotifier(engine.NotifierFunc(a.renderer.OnFullRebuildRequired))
	}
	a.engine = engine.New(a.registry, a.attrs, a.grid, a.links,
		engine.WithNotifier(notifier), engine.WithLogger(a.log))
	return a
}

// Read accessors. Collaborators pull state through these; mutations go
// through the operations below.

func (a *App) Registry() *model.Registry  { return a.registry }
func (a *App) Attributes() *attrs.Store   { return a.attrs }
func (a *App) Grid() *grid.Store          { return a.grid }
func (a *App) Links() *model.LinkRegistry { return a.links }
func (a *App) Revision() int64            { return a.engine.Revision() }

func (a *App) record(kind string, payload any) {
	if !a.recording || a.jstore == nil {
		return
	}
	if _, err := a.jstore.Append(context.Background(), a.runToken, kind, payload); err != nil {
		// The mutation already happened; a journal gap is logged, not
		// propagated, so a full disk cannot corrupt the live model.
		a.log.Warn("journal append failed", "kind", kind, "error", err)
	}
}

func (a *App) notifySubplot(tab, sub int) {
	if a.renderer != nil {
		a.renderer.OnAssignmentsChanged(tab, sub)
	}
}

// validKey checks a key against the live registry or, for derived keys,
// the derived provider.
func (a *App) validKey(k sigkey.Key) error {
	if k.IsDerived() {
		if a.derived != nil && a.derived.Has(k.Name) {
			return nil
		}
		return model.NewUnknownKeyError(k.Canonical())
	}
	if !a.registry.HasSignal(k) {
		return model.NewUnknownKeyError(k.Canonical())
	}
	return nil
}

// LoadDataset registers a new source and returns its id.
func (a *App) LoadDataset(displayName string, signals []string) (int, error) {
	id, err := a.registry.AddSource(displayName, signals)
	if err != nil {
		return -1, err
	}
	a.record(journal.KindAddSource, journal.AddSourcePayload{DisplayName: displayName, Signals: signals})
	a.log.Info("dataset loaded", "source", displayName, "id", id, "signals", len(signals))
	return id, nil
}

// RemoveDatasets unloads sources in one atomic pass: compute the plan,
// fence the stream ticks for the doomed sources, run the integrity
// engine, retarget the surviving watchers.
func (a *App) RemoveDatasets(ids []int) error {
	plan, err := a.registry.RemoveSources(ids)
	if err != nil {
		return err
	}
	if a.streams != nil {
		a.streams.Suspend(plan.RemovedIDs())
	}
	if err := a.engine.Apply(plan); err != nil {
		if a.streams != nil {
			a.streams.Resume()
		}
		return err
	}
	if a.streams != nil {
		a.streams.Remap(plan)
		a.streams.Resume()
	}
	a.record(journal.KindRemoveSources, journal.RemoveSourcesPayload{IDs: ids})
	a.log.Info("datasets removed", "count", len(plan.Removed), "revision", a.engine.Revision())
	return nil
}

// ReorderDatasets permutes the source ordering; perm[i] is the old id
// that ends up at new id i.
func (a *App) ReorderDatasets(perm []int) error {
	plan, err := a.registry.Reorder(perm)
	if err != nil {
		return err
	}
	if a.streams != nil {
		a.streams.Suspend(nil)
	}
	if err := a.engine.Apply(plan); err != nil {
		if a.streams != nil {
			a.streams.Resume()
		}
		return err
	}
	if a.streams != nil {
		a.streams.Remap(plan)
		a.streams.Resume()
	}
	a.record(journal.KindReorder, journal.ReorderPayload{Perm: perm})
	return nil
}

// AddTab appends a tab and returns its index.
func (a *App) AddTab(title string, rows, cols int) (int, error) {
	i, err := a.grid.AddTab(title, rows, cols)
	if err != nil {
		return -1, err
	}
	a.record(journal.KindAddTab, journal.AddTabPayload{Title: title, Rows: rows, Cols: cols})
	return i, nil
}

// RemoveTab deletes a tab. Every remaining plot may shift, so this asks
// for a full rebuild rather than a per-cell notification.
func (a *App) RemoveTab(i int) error {
	if err := a.grid.RemoveTab(i); err != nil {
		return err
	}
	a.record(journal.KindRemoveTab, journal.RemoveTabPayload{Tab: i})
	if a.renderer != nil {
		a.renderer.OnFullRebuildRequired()
	}
	return nil
}

// ResizeTab changes a tab's layout, preserving surviving cells.
func (a *App) ResizeTab(tab, rows, cols int) error {
	if err := a.grid.Resize(tab, rows, cols); err != nil {
		return err
	}
	a.record(journal.KindResizeTab, journal.ResizeTabPayload{Tab: tab, Rows: rows, Cols: cols})
	if a.renderer != nil {
		a.renderer.OnFullRebuildRequired()
	}
	return nil
}

// Assign adds signals to a regular-mode subplot. The whole batch is
// validated first: one unknown key rejects the operation with no effect.
// Returns the newly added count and, for each added key belonging to a
// link group, the matching signals from the group's other members as
// assignment proposals for the UI to offer.
func (a *App) Assign(tab, sub int, keys []sigkey.Key) (int, []sigkey.Key, error) {
	for _, k := range keys {
		if err := a.validKey(k); err != nil {
			return 0, nil, err
		}
	}
	added, err := a.grid.Assign(tab, sub, keys)
	if err != nil {
		return 0, nil, err
	}
	var proposals []sigkey.Key
	if added > 0 {
		for _, k := range keys {
			proposals = append(proposals, a.links.Matches(k, a.registry)...)
		}
		a.record(journal.KindAssign, journal.AssignPayload{Tab: tab, Subplot: sub, Keys: canonicalAll(keys)})
		a.notifySubplot(tab, sub)
	}
	return added, proposals, nil
}

// Unassign removes signals from a regular-mode subplot.
func (a *App) Unassign(tab, sub int, keys []sigkey.Key) (int, error) {
	removed, err := a.grid.Unassign(tab, sub, keys)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		a.record(journal.KindUnassign, journal.AssignPayload{Tab: tab, Subplot: sub, Keys: canonicalAll(keys)})
		a.notifySubplot(tab, sub)
	}
	return removed, nil
}

// SetTupleMode flips a subplot between regular and tuple mode.
func (a *App) SetTupleMode(tab, sub int, tuple bool) error {
	mode := grid.ModeRegular
	if tuple {
		mode = grid.ModeTuple
	}
	if err := a.grid.SetMode(tab, sub, mode); err != nil {
		return err
	}
	a.record(journal.KindSetMode, journal.SetModePayload{Tab: tab, Subplot: sub, Mode: string(mode)})
	a.notifySubplot(tab, sub)
	return nil
}

// AddPair appends an X-Y pair to a tuple-mode subplot.
func (a *App) AddPair(tab, sub int, x, y sigkey.Key, label, color string) error {
	if err := a.validKey(x); err != nil {
		return err
	}
	if err := a.validKey(y); err != nil {
		return err
	}
	if err := a.grid.AddPair(tab, sub, x, y, label, color); err != nil {
		return err
	}
	a.record(journal.KindAddPair, journal.AddPairPayload{
		Tab: tab, Subplot: sub, X: x.Canonical(), Y: y.Canonical(), Label: label, Color: color,
	})
	a.notifySubplot(tab, sub)
	return nil
}

// RemovePair deletes a pair from a tuple-mode subplot.
func (a *App) RemovePair(tab, sub, i int) error {
	if err := a.grid.RemovePair(tab, sub, i); err != nil {
		return err
	}
	a.record(journal.KindRemovePair, journal.RemovePairPayload{Tab: tab, Subplot: sub, Index: i})
	a.notifySubplot(tab, sub)
	return nil
}

// RestoreTuple rebuilds a tuple-mode subplot from a persisted pair list
// in one step. Session import uses this instead of SetTupleMode: the full
// pair list is known up front and may hold shapes (a lone self-pair, a
// labeled first pair) that the interactive mode switch cannot reach.
func (a *App) RestoreTuple(tab, sub int, pairs []grid.Pair) error {
	for _, pr := range pairs {
		if err := a.validKey(pr.X); err != nil {
			return err
		}
		if err := a.validKey(pr.Y); err != nil {
			return err
		}
	}
	if err := a.grid.RestoreTuple(tab, sub, pairs); err != nil {
		return err
	}
	specs := make([]journal.PairSpec, len(pairs))
	for i, pr := range pairs {
		specs[i] = journal.PairSpec{X: pr.X.Canonical(), Y: pr.Y.Canonical(), Label: pr.Label, Color: pr.Color}
	}
	a.record(journal.KindRestoreTuple, journal.RestoreTuplePayload{Tab: tab, Subplot: sub, Pairs: specs})
	a.notifySubplot(tab, sub)
	return nil
}

// SetXOverride sets or clears a subplot's X-axis override.
func (a *App) SetXOverride(tab, sub int, key *sigkey.Key) error {
	payload := journal.SetXOverridePayload{Tab: tab, Subplot: sub}
	if key != nil {
		if err := a.validKey(*key); err != nil {
			return err
		}
		payload.Key = key.Canonical()
	}
	if err := a.grid.SetXOverride(tab, sub, key); err != nil {
		return err
	}
	a.record(journal.KindSetXOverride, payload)
	a.notifySubplot(tab, sub)
	return nil
}

// SetScale stores a per-signal scale factor and returns the value
// actually stored (invalid inputs fall back to 1.0).
func (a *App) SetScale(k sigkey.Key, v float64) (float64, error) {
	if err := a.validKey(k); err != nil {
		return 0, err
	}
	stored := a.attrs.SetScale(k, v)
	a.record(journal.KindSetScale, journal.SetScalePayload{Key: k.Canonical(), Value: stored})
	return stored, nil
}

// SetHidden flips a signal's visibility; returns false when it already
// had the requested state.
func (a *App) SetHidden(k sigkey.Key, hidden bool) (bool, error) {
	if err := a.validKey(k); err != nil {
		return false, err
	}
	changed := a.attrs.SetHidden(k, hidden)
	if changed {
		a.record(journal.KindSetHidden, journal.SetBoolPayload{Key: k.Canonical(), Value: hidden})
	}
	return changed, nil
}

// SetState flips a signal's state/step rendering flag.
func (a *App) SetState(k sigkey.Key, state bool) (bool, error) {
	if err := a.validKey(k); err != nil {
		return false, err
	}
	changed := a.attrs.SetState(k, state)
	if changed {
		a.record(journal.KindSetState, journal.SetBoolPayload{Key: k.Canonical(), Value: state})
	}
	return changed, nil
}

// SetStyle stores a signal's drawing style.
func (a *App) SetStyle(k sigkey.Key, st attrs.Style) error {
	if err := a.validKey(k); err != nil {
		return err
	}
	a.attrs.SetStyle(k, st)
	a.record(journal.KindSetStyle, journal.SetStylePayload{Key: k.Canonical(), Color: st.Color, LineWidth: st.LineWidth})
	return nil
}

// CreateLink creates a named link group over live sources.
func (a *App) CreateLink(name string, members []int, color string) error {
	for _, id := range members {
		if a.registry.Source(id) == nil {
			return model.NewUnknownKeyError(sigkey.New(id, "?").Canonical())
		}
	}
	if err := a.links.Create(name, members, color); err != nil {
		return err
	}
	a.record(journal.KindCreateLink, journal.CreateLinkPayload{Name: name, Members: members, Color: color})
	return nil
}

// DeleteLink removes a link group by name.
func (a *App) DeleteLink(name string) {
	a.links.Delete(name)
	a.record(journal.KindDeleteLink, journal.DeleteLinkPayload{Name: name})
}

func canonicalAll(keys []sigkey.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Canonical()
	}
	return out
}
