// Package sessionfile reads and writes portable session documents.
//
// A session file captures everything needed to rebuild the model in a
// later run: sources (by display name, never by runtime id, since ids
// are not stable across sessions), the tab/subplot assignments, the
// per-signal attributes and the link groups. Documents are YAML and are
// validated against an embedded CUE schema before anything touches the
// model, so a hand-edited file fails loudly at the boundary instead of
// quietly corrupting assignments.
//
// On import, a source that cannot be located is not dropped: its
// references are retained as stale markers (STALE_SESSION_REFERENCE) so
// the user can relink the dataset and get their plots back.
package sessionfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current session document version.
const Version = 1

// SignalRef addresses a signal portably: by source display name, or with
// an empty source for derived signals.
type SignalRef struct {
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
	Name   string `yaml:"name" json:"name"`
}

// SourceDoc is one serialized source.
type SourceDoc struct {
	DisplayName string   `yaml:"display_name" json:"display_name"`
	Signals     []string `yaml:"signals" json:"signals"`
}

// PairDoc is one serialized X-Y pair.
type PairDoc struct {
	X     SignalRef `yaml:"x" json:"x"`
	Y     SignalRef `yaml:"y" json:"y"`
	Label string    `yaml:"label,omitempty" json:"label,omitempty"`
	Color string    `yaml:"color,omitempty" json:"color,omitempty"`
}

// SubplotDoc is one serialized cell. Cells with no assignments are
// omitted from the document entirely.
type SubplotDoc struct {
	Cell      int         `yaml:"cell" json:"cell"`
	Mode      string      `yaml:"mode" json:"mode"`
	Signals   []SignalRef `yaml:"signals,omitempty" json:"signals,omitempty"`
	Pairs     []PairDoc   `yaml:"pairs,omitempty" json:"pairs,omitempty"`
	XOverride *SignalRef  `yaml:"x_override,omitempty" json:"x_override,omitempty"`
}

// TabDoc is one serialized tab.
type TabDoc struct {
	Title    string       `yaml:"title,omitempty" json:"title,omitempty"`
	Rows     int          `yaml:"rows" json:"rows"`
	Cols     int          `yaml:"cols" json:"cols"`
	Subplots []SubplotDoc `yaml:"subplots,omitempty" json:"subplots,omitempty"`
}

// AttributeDoc carries the non-default attributes of one signal.
type AttributeDoc struct {
	Signal    SignalRef `yaml:"signal" json:"signal"`
	Scale     float64   `yaml:"scale,omitempty" json:"scale,omitempty"`
	State     bool      `yaml:"state,omitempty" json:"state,omitempty"`
	Hidden    bool      `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Color     string    `yaml:"color,omitempty" json:"color,omitempty"`
	LineWidth float64   `yaml:"line_width,omitempty" json:"line_width,omitempty"`
}

// LinkDoc is one serialized link group, members by display name.
type LinkDoc struct {
	Name    string   `yaml:"name" json:"name"`
	Members []string `yaml:"members" json:"members"`
	Color   string   `yaml:"color,omitempty" json:"color,omitempty"`
}

// Document is a complete session file.
type Document struct {
	Version    int            `yaml:"version" json:"version"`
	Sources    []SourceDoc    `yaml:"sources,omitempty" json:"sources,omitempty"`
	Tabs       []TabDoc       `yaml:"tabs,omitempty" json:"tabs,omitempty"`
	Attributes []AttributeDoc `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Links      []LinkDoc      `yaml:"links,omitempty" json:"links,omitempty"`
}

// Encode renders the document as YAML.
func (d *Document) Encode() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return out, nil
}

// Decode parses and validates a session document.
func Decode(data []byte) (*Document, error) {
	if errs := Validate(data); len(errs) > 0 {
		return nil, fmt.Errorf("session document is invalid: %s", errs[0].Error())
	}
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &d, nil
}

// Load reads and decodes a session file from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return Decode(data)
}

// Save encodes and writes a session file.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
