package app

import (
	"encoding/json"
	"fmt"

	"github.com/plotdeck/plotdeck/internal/attrs"
	"github.com/plotdeck/plotdeck/internal/grid"
	"github.com/plotdeck/plotdeck/internal/journal"
	"github.com/plotdeck/plotdeck/internal/sigkey"
)

// ApplyOp replays one journal record through the App's public operations.
// Recording is suppressed for the duration so a replay does not re-append
// the operations it is reading.
func (a *App) ApplyOp(op journal.Op) error {
	wasRecording := a.recording
	a.recording = false
	defer func() { a.recording = wasRecording }()

	switch op.Kind {
	case journal.KindAddSource:
		var p journal.AddSourcePayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		_, err := a.LoadDataset(p.DisplayName, p.Signals)
		return err

	case journal.KindRemoveSources:
		var p journal.RemoveSourcesPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return a.RemoveDatasets(p.IDs)

	case journal.KindReorder:
		var p journal.ReorderPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return a.ReorderDatasets(p.Perm)

	case journal.KindAddTab:
		var p journal.AddTabPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		_, err := a.AddTab(p.Title, p.Rows, p.Cols)
		return err

	case journal.KindRemoveTab:
		var p journal.RemoveTabPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return a.RemoveTab(p.Tab)

	case journal.KindResizeTab:
		var p journal.ResizeTabPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return a.ResizeTab(p.Tab, p.Rows, p.Cols)

	case journal.KindAssign:
		var p journal.AssignPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		keys, err := parseAll(p.Keys)
		if err != nil {
			return err
		}
		_, _, err = a.Assign(p.Tab, p.Subplot, keys)
		return err

	case journal.KindUnassign:
		var p journal.AssignPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		keys, err := parseAll(p.Keys)
		if err != nil {
			return err
		}
		_, err = a.Unassign(p.Tab, p.Subplot, keys)
		return err

	case journal.KindSetMode:
		var p journal.SetModePayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return a.SetTupleMode(p.Tab, p.Subplot, p.Mode == "tuple")

	case journal.KindAddPair:
		var p journal.AddPairPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		x, err := sigkey.Parse(p.X)
		if err != nil {
			return err
		}
		y, err := sigkey.Parse(p.Y)
		if err != nil {
			return err
		}
		return a.AddPair(p.Tab, p.Subplot, x, y, p.Label, p.Color)

	case journal.KindRemovePair:
		var p journal.RemovePairPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return a.RemovePair(p.Tab, p.Subplot, p.Index)

	case journal.KindRestoreTuple:
		var p journal.RestoreTuplePayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		pairs := make([]grid.Pair, len(p.Pairs))
		for i, ps := range p.Pairs {
			x, err := sigkey.Parse(ps.X)
			if err != nil {
				return err
			}
			y, err := sigkey.Parse(ps.Y)
			if err != nil {
				return err
			}
			pairs[i] = grid.Pair{X: x, Y: y, Label: ps.Label, Color: ps.Color}
		}
		return a.RestoreTuple(p.Tab, p.Subplot, pairs)

	case journal.KindSetXOverride:
		var p journal.SetXOverridePayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		if p.Key == "" {
			return a.SetXOverride(p.Tab, p.Subplot, nil)
		}
		k, err := sigkey.Parse(p.Key)
		if err != nil {
			return err
		}
		return a.SetXOverride(p.Tab, p.Subplot, &k)

	case journal.KindSetScale:
		var p journal.SetScalePayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		k, err := sigkey.Parse(p.Key)
		if err != nil {
			return err
		}
		_, err = a.SetScale(k, p.Value)
		return err

	case journal.KindSetHidden:
		var p journal.SetBoolPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		k, err := sigkey.Parse(p.Key)
		if err != nil {
			return err
		}
		_, err = a.SetHidden(k, p.Value)
		return err

	case journal.KindSetState:
		var p journal.SetBoolPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		k, err := sigkey.Parse(p.Key)
		if err != nil {
			return err
		}
		_, err = a.SetState(k, p.Value)
		return err

	case journal.KindSetStyle:
		var p journal.SetStylePayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		k, err := sigkey.Parse(p.Key)
		if err != nil {
			return err
		}
		return a.SetStyle(k, attrs.Style{Color: p.Color, LineWidth: p.LineWidth})

	case journal.KindCreateLink:
		var p journal.CreateLinkPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return a.CreateLink(p.Name, p.Members, p.Color)

	case journal.KindDeleteLink:
		var p journal.DeleteLinkPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		a.DeleteLink(p.Name)
		return nil

	default:
		return fmt.Errorf("unknown journal op kind %q", op.Kind)
	}
}

func parseAll(canonical []string) ([]sigkey.Key, error) {
	keys := make([]sigkey.Key, len(canonical))
	for i, s := range canonical {
		k, err := sigkey.Parse(s)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}
