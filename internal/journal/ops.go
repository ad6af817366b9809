package journal

import "encoding/json"

// Operation kinds. Payload shapes are the *Payload structs below.
const (
	KindAddSource     = "add_source"
	KindRemoveSources = "remove_sources"
	KindReorder       = "reorder"
	KindAddTab        = "add_tab"
	KindRemoveTab     = "remove_tab"
	KindResizeTab     = "resize_tab"
	KindAssign        = "assign"
	KindUnassign      = "unassign"
	KindSetMode       = "set_mode"
	KindAddPair       = "add_pair"
	KindRemovePair    = "remove_pair"
	KindRestoreTuple  = "restore_tuple"
	KindSetXOverride  = "set_xoverride"
	KindSetScale      = "set_scale"
	KindSetState      = "set_state"
	KindSetStyle      = "set_style"
	KindSetHidden     = "set_hidden"
	KindCreateLink    = "create_link"
	KindDeleteLink    = "delete_link"
)

// Op is one journal record.
type Op struct {
	Seq      int64
	RunToken string
	Kind     string
	Payload  json.RawMessage
}

// Signal keys travel through payloads in canonical string form, so a
// journal is readable with plain sqlite tooling.

type AddSourcePayload struct {
	DisplayName string   `json:"display_name"`
	Signals     []string `json:"signals"`
}

type RemoveSourcesPayload struct {
	IDs []int `json:"ids"`
}

type ReorderPayload struct {
	Perm []int `json:"perm"`
}

type AddTabPayload struct {
	Title string `json:"title"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
}

type RemoveTabPayload struct {
	Tab int `json:"tab"`
}

type ResizeTabPayload struct {
	Tab  int `json:"tab"`
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

type AssignPayload struct {
	Tab     int      `json:"tab"`
	Subplot int      `json:"subplot"`
	Keys    []string `json:"keys"`
}

type SetModePayload struct {
	Tab     int    `json:"tab"`
	Subplot int    `json:"subplot"`
	Mode    string `json:"mode"`
}

type AddPairPayload struct {
	Tab     int    `json:"tab"`
	Subplot int    `json:"subplot"`
	X       string `json:"x"`
	Y       string `json:"y"`
	Label   string `json:"label,omitempty"`
	Color   string `json:"color,omitempty"`
}

type RemovePairPayload struct {
	Tab     int `json:"tab"`
	Subplot int `json:"subplot"`
	Index   int `json:"index"`
}

type PairSpec struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Label string `json:"label,omitempty"`
	Color string `json:"color,omitempty"`
}

type RestoreTuplePayload struct {
	Tab     int        `json:"tab"`
	Subplot int        `json:"subplot"`
	Pairs   []PairSpec `json:"pairs"`
}

type SetXOverridePayload struct {
	Tab     int    `json:"tab"`
	Subplot int    `json:"subplot"`
	Key     string `json:"key,omitempty"` // empty clears the override
}

type SetScalePayload struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

type SetBoolPayload struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

type SetStylePayload struct {
	Key       string  `json:"key"`
	Color     string  `json:"color,omitempty"`
	LineWidth float64 `json:"line_width,omitempty"`
}

type CreateLinkPayload struct {
	Name    string `json:"name"`
	Members []int  `json:"members"`
	Color   string `json:"color,omitempty"`
}

type DeleteLinkPayload struct {
	Name string `json:"name"`
}
