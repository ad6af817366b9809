package grid

import (
	"fmt"

	"github.com/plotdeck/plotdeck/internal/model"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// Tab is one page of subplots laid out in a rows x cols grid. Cells are
// stored row-major.
type Tab struct {
	Rows  int
	Cols  int
	Title string
	cells []*Subplot
}

// Subplot returns the cell at the given row-major index, or nil when out
// of range.
func (t *Tab) Subplot(i int) *Subplot {
	if i < 0 || i >= len(t.cells) {
		return nil
	}
	return t.cells[i]
}

// CellCount returns rows*cols.
func (t *Tab) CellCount() int {
	return len(t.cells)
}

// Store is the assignment tree: an ordered list of tabs.
type Store struct {
	tabs []*Tab
}

// NewStore creates an empty assignment store.
func NewStore() *Store {
	return &Store{}
}

// AddTab appends a tab with the given layout and returns its index.
func (s *Store) AddTab(title string, rows, cols int) (int, error) {
	if rows < 1 || cols < 1 {
		return -1, fmt.Errorf("add tab: layout %dx%d is not positive", rows, cols)
	}
	t := &Tab{Rows: rows, Cols: cols, Title: title, cells: make([]*Subplot, rows*cols)}
	for i := range t.cells {
		t.cells[i] = newSubplot()
	}
	s.tabs = append(s.tabs, t)
	return len(s.tabs) - 1, nil
}

// RemoveTab deletes the tab at index i.
func (s *Store) RemoveTab(i int) error {
	if i < 0 || i >= len(s.tabs) {
		return fmt.Errorf("remove tab: index %d out of range", i)
	}
	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
	return nil
}

// Tab returns the tab at index i, or nil.
func (s *Store) Tab(i int) *Tab {
	if i < 0 || i >= len(s.tabs) {
		return nil
	}
	return s.tabs[i]
}

// Tabs returns the tabs in order.
// The returned slice must not be mutated by the caller.
func (s *Store) Tabs() []*Tab {
	return s.tabs
}

// Resize changes a tab's layout. Cells that exist at the same (row, col)
// in both layouts keep their assignments; cells outside the new bounds are
// dropped, and new cells start empty.
func (s *Store) Resize(tab, rows, cols int) error {
	t := s.Tab(tab)
	if t == nil {
		return fmt.Errorf("resize: tab %d out of range", tab)
	}
	if rows < 1 || cols < 1 {
		return fmt.Errorf("resize: layout %dx%d is not positive", rows, cols)
	}
	cells := make([]*Subplot, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r < t.Rows && c < t.Cols {
				cells[r*cols+c] = t.cells[r*t.Cols+c]
			} else {
				cells[r*cols+c] = newSubplot()
			}
		}
	}
	t.Rows, t.Cols, t.cells = rows, cols, cells
	return nil
}

func (s *Store) subplot(tab, sub int) (*Subplot, error) {
	t := s.Tab(tab)
	if t == nil {
		return nil, fmt.Errorf("tab %d out of range", tab)
	}
	sp := t.Subplot(sub)
	if sp == nil {
		return nil, fmt.Errorf("subplot %d out of range on tab %d", sub, tab)
	}
	return sp, nil
}

// Assign adds keys to a regular-mode subplot with set semantics: keys
// already present are silently skipped and the count of newly added keys
// is returned, so callers can tell the user "3 added, 2 already there".
//
// In tuple mode Assign is a no-op returning zero: mode switches are
// explicit, never a side effect of assignment.
func (s *Store) Assign(tab, sub int, keys []sigkey.Key) (int, error) {
	sp, err := s.subplot(tab, sub)
	if err != nil {
		return 0, err
	}
	if sp.mode == ModeTuple {
		return 0, nil
	}
	added := 0
	for _, k := range keys {
		if sp.contains(k) {
			continue
		}
		sp.signals = append(sp.signals, k)
		added++
	}
	return added, nil
}

// Unassign removes keys from a regular-mode subplot and returns how many
// were actually removed.
func (s *Store) Unassign(tab, sub int, keys []sigkey.Key) (int, error) {
	sp, err := s.subplot(tab, sub)
	if err != nil {
		return 0, err
	}
	if sp.mode == ModeTuple {
		return 0, nil
	}
	drop := make(map[sigkey.Key]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	kept := sp.signals[:0]
	removed := 0
	for _, k := range sp.signals {
		if drop[k] {
			removed++
			continue
		}
		kept = append(kept, k)
	}
	sp.signals = kept
	return removed, nil
}

// SetMode switches a subplot's variant tag.
//
// Switching into tuple mode requires the subplot to hold exactly two
// regular signals; they become the first pair (first = X, second = Y).
// Any other count fails with INVALID_TUPLE_ARITY and the subplot is left
// untouched, with no partial mode flip. Switching back to regular clears the
// pair list. Switching to the current mode is a no-op.
func (s *Store) SetMode(tab, sub int, mode Mode) error {
	sp, err := s.subplot(tab, sub)
	if err != nil {
		return err
	}
	if sp.mode == mode {
		return nil
	}
	switch mode {
	case ModeTuple:
		if len(sp.signals) != 2 {
			return model.NewTupleArityError(tab, sub, len(sp.signals))
		}
		sp.pairs = []Pair{{X: sp.signals[0], Y: sp.signals[1]}}
		sp.signals = nil
		sp.mode = ModeTuple
	case ModeRegular:
		sp.pairs = nil
		sp.mode = ModeRegular
	default:
		return fmt.Errorf("set mode: unknown mode %q", mode)
	}
	return nil
}

// RestoreTuple puts an empty subplot directly into tuple mode with the
// given pairs. This is the session-restore path: a persisted tuple subplot
// may hold pair lists (a lone self-pair, a first pair carrying a label)
// that the SetMode arity rule cannot reproduce step by step. The subplot
// must be empty, so the rule is never bypassed mid-session.
func (s *Store) RestoreTuple(tab, sub int, pairs []Pair) error {
	sp, err := s.subplot(tab, sub)
	if err != nil {
		return err
	}
	if sp.mode != ModeRegular || len(sp.signals) != 0 {
		return fmt.Errorf("restore tuple: subplot %d on tab %d is not empty", sub, tab)
	}
	if len(pairs) == 0 {
		return fmt.Errorf("restore tuple: no pairs given")
	}
	sp.mode = ModeTuple
	sp.pairs = append([]Pair(nil), pairs...)
	return nil
}

// AddPair appends an X-Y pair to a tuple-mode subplot. Fails with
// NOT_IN_TUPLE_MODE on a regular subplot.
func (s *Store) AddPair(tab, sub int, x, y sigkey.Key, label, color string) error {
	sp, err := s.subplot(tab, sub)
	if err != nil {
		return err
	}
	if sp.mode != ModeTuple {
		return model.NewNotInTupleModeError(tab, sub)
	}
	sp.pairs = append(sp.pairs, Pair{X: x, Y: y, Label: label, Color: color})
	return nil
}

// RemovePair deletes the pair at index i from a tuple-mode subplot.
func (s *Store) RemovePair(tab, sub, i int) error {
	sp, err := s.subplot(tab, sub)
	if err != nil {
		return err
	}
	if sp.mode != ModeTuple {
		return model.NewNotInTupleModeError(tab, sub)
	}
	if i < 0 || i >= len(sp.pairs) {
		return fmt.Errorf("remove pair: index %d out of range", i)
	}
	sp.pairs = append(sp.pairs[:i], sp.pairs[i+1:]...)
	return nil
}

// SetXOverride sets or clears (key == nil) the subplot's X-axis override.
// The value is stored in either mode; in tuple mode the renderer ignores
// it until the subplot returns to regular mode.
func (s *Store) SetXOverride(tab, sub int, key *sigkey.Key) error {
	sp, err := s.subplot(tab, sub)
	if err != nil {
		return err
	}
	if key == nil {
		sp.xOverride = nil
		return nil
	}
	k := *key
	sp.xOverride = &k
	return nil
}

// AllReferencedKeys scans the whole tree: regular lists, both sides of
// every pair, and every override. The integrity engine and the hide/show
// bookkeeping are the consumers.
func (s *Store) AllReferencedKeys() map[sigkey.Key]bool {
	out := make(map[sigkey.Key]bool)
	for _, t := range s.tabs {
		for _, sp := range t.cells {
			sp.referencedKeys(out)
		}
	}
	return out
}

// Remap rewrites every subplot against a frozen plan. Called only by the
// integrity engine.
func (s *Store) Remap(p model.Plan) {
	for _, t := range s.tabs {
		for _, sp := range t.cells {
			sp.remap(p)
		}
	}
}
