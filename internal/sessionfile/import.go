package sessionfile

import (
	"github.com/plotdeck/plotdeck/internal/app"
	"github.com/plotdeck/plotdeck/internal/attrs"
	"github.com/plotdeck/plotdeck/internal/grid"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// SourceLocator finds a serialized source's backing data in the current
// environment. The returned signal list reflects what the source carries
// now, which may differ from what was serialized.
type SourceLocator interface {
	Locate(displayName string) (signals []string, ok bool)
}

// LocatorFunc adapts a function to the SourceLocator interface.
type LocatorFunc func(displayName string) ([]string, bool)

// Locate implements SourceLocator.
func (f LocatorFunc) Locate(displayName string) ([]string, bool) { return f(displayName) }

// Result summarizes an import. Missing sources and the references that
// pointed at them are not errors: the references are retained as stale
// markers on the app and listed in MissingSources here.
type Result struct {
	SourcesLoaded  int
	MissingSources []string
	SkippedLinks   []string
}

// Import rebuilds a session into an empty app. Sources are located through
// loc; every reference to a source that cannot be located (or to a signal
// the located source no longer carries) becomes a stale marker instead of
// being dropped.
func Import(doc *Document, a *app.App, loc SourceLocator) (*Result, error) {
	res := &Result{}

	missing := make(map[string]bool, len(doc.Sources))
	for _, sd := range doc.Sources {
		signals, ok := loc.Locate(sd.DisplayName)
		if !ok {
			missing[sd.DisplayName] = true
			res.MissingSources = append(res.MissingSources, sd.DisplayName)
			continue
		}
		if _, err := a.LoadDataset(sd.DisplayName, signals); err != nil {
			return nil, err
		}
		res.SourcesLoaded++
	}

	for _, td := range doc.Tabs {
		ti, err := a.AddTab(td.Title, td.Rows, td.Cols)
		if err != nil {
			return nil, err
		}
		for _, sd := range td.Subplots {
			if err := importSubplot(a, ti, sd); err != nil {
				return nil, err
			}
		}
	}

	for _, ad := range doc.Attributes {
		importAttribute(a, ad)
	}

	for _, ld := range doc.Links {
		var members []int
		for _, name := range ld.Members {
			if id, ok := a.Registry().Resolve(name); ok {
				members = append(members, id)
			}
		}
		if len(members) < 2 {
			res.SkippedLinks = append(res.SkippedLinks, ld.Name)
			continue
		}
		if err := a.CreateLink(ld.Name, members, ld.Color); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func importSubplot(a *app.App, tab int, sd SubplotDoc) error {
	for _, r := range sd.Signals {
		k, ok := resolveRef(a, r)
		if !ok {
			markStale(a, r, tab, sd.Cell)
			continue
		}
		if _, _, err := a.Assign(tab, sd.Cell, []sigkey.Key{k}); err != nil {
			markStale(a, r, tab, sd.Cell)
		}
	}

	if sd.Mode == string(grid.ModeTuple) {
		if err := importPairs(a, tab, sd); err != nil {
			return err
		}
	}

	if sd.XOverride != nil {
		if k, ok := resolveRef(a, *sd.XOverride); ok {
			if err := a.SetXOverride(tab, sd.Cell, &k); err != nil {
				markStale(a, *sd.XOverride, tab, sd.Cell)
			}
		} else {
			markStale(a, *sd.XOverride, tab, sd.Cell)
		}
	}
	return nil
}

// importPairs restores a tuple-mode subplot. The pair list is rebuilt in
// one step from every pair whose sides both resolve, so labels, colors and
// self-pairs survive the round trip; pairs with an unresolvable side
// become stale markers, and the subplot stays regular until at least one
// pair resolves.
func importPairs(a *app.App, tab int, sd SubplotDoc) error {
	var pairs []grid.Pair
	for _, pd := range sd.Pairs {
		x, okX := resolveRef(a, pd.X)
		y, okY := resolveRef(a, pd.Y)
		if !okX || !okY {
			if !okX {
				markStale(a, pd.X, tab, sd.Cell)
			}
			if !okY {
				markStale(a, pd.Y, tab, sd.Cell)
			}
			continue
		}
		pairs = append(pairs, grid.Pair{X: x, Y: y, Label: pd.Label, Color: pd.Color})
	}
	if len(pairs) == 0 {
		return nil
	}
	return a.RestoreTuple(tab, sd.Cell, pairs)
}

func importAttribute(a *app.App, ad AttributeDoc) {
	k, ok := resolveRef(a, ad.Signal)
	if !ok {
		markStale(a, ad.Signal, -1, -1)
		return
	}
	if ad.Scale != 0 {
		if _, err := a.SetScale(k, ad.Scale); err != nil {
			markStale(a, ad.Signal, -1, -1)
			return
		}
	}
	if ad.Hidden {
		if _, err := a.SetHidden(k, true); err != nil {
			markStale(a, ad.Signal, -1, -1)
			return
		}
	}
	if ad.State {
		if _, err := a.SetState(k, true); err != nil {
			markStale(a, ad.Signal, -1, -1)
			return
		}
	}
	if ad.Color != "" || ad.LineWidth != 0 {
		if err := a.SetStyle(k, attrs.Style{Color: ad.Color, LineWidth: ad.LineWidth}); err != nil {
			markStale(a, ad.Signal, -1, -1)
		}
	}
}

// resolveRef maps a portable reference onto the live registry. Derived
// references resolve unconditionally here; the app's operations check them
// against the derived provider on use.
func resolveRef(a *app.App, r SignalRef) (sigkey.Key, bool) {
	if r.Source == "" {
		return sigkey.Derived(r.Name), true
	}
	id, ok := a.Registry().Resolve(r.Source)
	if !ok {
		return sigkey.Key{}, false
	}
	k := sigkey.New(id, r.Name)
	if !a.Registry().HasSignal(k) {
		return sigkey.Key{}, false
	}
	return k, true
}

func markStale(a *app.App, r SignalRef, tab, sub int) {
	a.RecordStale(app.StaleRef{DisplayName: r.Source, Signal: r.Name, Tab: tab, Subplot: sub})
}
