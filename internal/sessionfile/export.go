package sessionfile

import (
	"fmt"
	"sort"

	"github.com/plotdeck/plotdeck/internal/app"
	"github.com/plotdeck/plotdeck/internal/attrs"
	"github.com/plotdeck/plotdeck/internal/grid"
	"github.com/plotdeck/plotdeck/internal/model"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// Export captures the live model into a portable document. All runtime
// source ids are translated to display names; the output is deterministic
// so that exporting the same state twice yields byte-identical files.
func Export(a *app.App) (*Document, error) {
	doc := &Document{Version: Version}
	reg := a.Registry()

	for _, s := range reg.Sources() {
		doc.Sources = append(doc.Sources, SourceDoc{
			DisplayName: s.DisplayName,
			Signals:     append([]string(nil), s.Signals()...),
		})
	}

	for ti, t := range a.Grid().Tabs() {
		td := TabDoc{Title: t.Title, Rows: t.Rows, Cols: t.Cols}
		for ci := 0; ci < t.CellCount(); ci++ {
			sd, err := exportSubplot(reg, t.Subplot(ci), ci)
			if err != nil {
				return nil, fmt.Errorf("export tab %d: %w", ti, err)
			}
			if sd != nil {
				td.Subplots = append(td.Subplots, *sd)
			}
		}
		doc.Tabs = append(doc.Tabs, td)
	}

	attrDocs, err := exportAttributes(a)
	if err != nil {
		return nil, err
	}
	doc.Attributes = attrDocs

	for _, g := range a.Links().Groups() {
		ld := LinkDoc{Name: g.Name, Color: g.Color}
		for _, id := range g.MemberIDs() {
			s := reg.Source(id)
			if s == nil {
				return nil, fmt.Errorf("export link %q: member %d is not a live source", g.Name, id)
			}
			ld.Members = append(ld.Members, s.DisplayName)
		}
		doc.Links = append(doc.Links, ld)
	}

	return doc, nil
}

func exportSubplot(reg *model.Registry, sp *grid.Subplot, cell int) (*SubplotDoc, error) {
	if len(sp.Signals()) == 0 && len(sp.Pairs()) == 0 && sp.XOverride() == nil {
		return nil, nil
	}
	sd := &SubplotDoc{Cell: cell, Mode: string(sp.Mode())}
	for _, k := range sp.Signals() {
		r, err := refFor(reg, k)
		if err != nil {
			return nil, err
		}
		sd.Signals = append(sd.Signals, r)
	}
	for _, pr := range sp.Pairs() {
		x, err := refFor(reg, pr.X)
		if err != nil {
			return nil, err
		}
		y, err := refFor(reg, pr.Y)
		if err != nil {
			return nil, err
		}
		sd.Pairs = append(sd.Pairs, PairDoc{X: x, Y: y, Label: pr.Label, Color: pr.Color})
	}
	if k := sp.XOverride(); k != nil {
		r, err := refFor(reg, *k)
		if err != nil {
			return nil, err
		}
		sd.XOverride = &r
	}
	return sd, nil
}

func exportAttributes(a *app.App) ([]AttributeDoc, error) {
	keys, err := a.Attributes().Keys()
	if err != nil {
		return nil, fmt.Errorf("export attributes: %w", err)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Canonical() < keys[j].Canonical() })

	var out []AttributeDoc
	for _, k := range keys {
		r, err := refFor(a.Registry(), k)
		if err != nil {
			return nil, err
		}
		ad := AttributeDoc{Signal: r}
		if v := a.Attributes().Scale(k); v != attrs.DefaultScale {
			ad.Scale = v
		}
		ad.State = a.Attributes().State(k)
		ad.Hidden = a.Attributes().Hidden(k)
		st := a.Attributes().Style(k)
		if st.Color != attrs.DefaultColor {
			ad.Color = st.Color
		}
		if st.LineWidth != attrs.DefaultLineWidth {
			ad.LineWidth = st.LineWidth
		}
		if ad.Scale == 0 && !ad.State && !ad.Hidden && ad.Color == "" && ad.LineWidth == 0 {
			continue
		}
		out = append(out, ad)
	}
	return out, nil
}

// refFor translates a runtime key into its portable form.
func refFor(reg *model.Registry, k sigkey.Key) (SignalRef, error) {
	if k.IsDerived() {
		return SignalRef{Name: k.Name}, nil
	}
	s := reg.Source(k.Source)
	if s == nil {
		return SignalRef{}, fmt.Errorf("signal %s references a source that is not live", k.Canonical())
	}
	return SignalRef{Source: s.DisplayName, Name: k.Name}, nil
}
