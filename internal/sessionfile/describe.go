package sessionfile

import (
	"fmt"
	"strings"
)

// Describe renders the document as a stable human-readable summary. The
// output is deterministic line by line; the CLI show command prints it and
// the golden tests snapshot it.
func (d *Document) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "session v%d\n", d.Version)
	fmt.Fprintf(&b, "sources (%d):\n", len(d.Sources))
	for _, s := range d.Sources {
		fmt.Fprintf(&b, "  %s: %s\n", s.DisplayName, strings.Join(s.Signals, ", "))
	}
	fmt.Fprintf(&b, "tabs (%d):\n", len(d.Tabs))
	for i, t := range d.Tabs {
		title := t.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&b, "  [%d] %s %dx%d\n", i, title, t.Rows, t.Cols)
		for _, sp := range t.Subplots {
			b.WriteString("    " + describeSubplot(sp) + "\n")
		}
	}
	if len(d.Attributes) > 0 {
		fmt.Fprintf(&b, "attributes (%d):\n", len(d.Attributes))
		for _, ad := range d.Attributes {
			fmt.Fprintf(&b, "  %s: %s\n", describeRef(ad.Signal), describeAttrs(ad))
		}
	}
	if len(d.Links) > 0 {
		fmt.Fprintf(&b, "links (%d):\n", len(d.Links))
		for _, ld := range d.Links {
			fmt.Fprintf(&b, "  %s [%s]", ld.Name, strings.Join(ld.Members, ", "))
			if ld.Color != "" {
				b.WriteString(" color=" + ld.Color)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func describeSubplot(sp SubplotDoc) string {
	var parts []string
	if sp.Mode == "tuple" {
		for _, pd := range sp.Pairs {
			s := describeRef(pd.X) + " vs " + describeRef(pd.Y)
			if pd.Label != "" {
				s += " (" + pd.Label + ")"
			}
			parts = append(parts, s)
		}
	} else {
		for _, r := range sp.Signals {
			parts = append(parts, describeRef(r))
		}
	}
	out := fmt.Sprintf("cell %d %s: %s", sp.Cell, sp.Mode, strings.Join(parts, ", "))
	if sp.XOverride != nil {
		out += " [x: " + describeRef(*sp.XOverride) + "]"
	}
	return out
}

func describeRef(r SignalRef) string {
	if r.Source == "" {
		return r.Name + " (derived)"
	}
	return r.Source + "/" + r.Name
}

func describeAttrs(ad AttributeDoc) string {
	var parts []string
	if ad.Scale != 0 {
		parts = append(parts, fmt.Sprintf("scale=%g", ad.Scale))
	}
	if ad.State {
		parts = append(parts, "state")
	}
	if ad.Hidden {
		parts = append(parts, "hidden")
	}
	if ad.Color != "" {
		parts = append(parts, "color="+ad.Color)
	}
	if ad.LineWidth != 0 {
		parts = append(parts, fmt.Sprintf("width=%g", ad.LineWidth))
	}
	return strings.Join(parts, " ")
}
