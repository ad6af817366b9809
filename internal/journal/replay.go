package journal

import (
	"context"
	"fmt"
)

// Replay feeds every record, in sequence order, to apply. The first
// failure stops the replay and the error names the offending sequence
// number: a journal that no longer applies cleanly is evidence, not
// something to skip past.
func (s *Store) Replay(ctx context.Context, apply func(Op) error) (int64, error) {
	ops, err := s.Ops(ctx)
	if err != nil {
		return 0, err
	}
	var last int64
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		if err := apply(op); err != nil {
			return last, fmt.Errorf("replay op seq=%d kind=%s: %w", op.Seq, op.Kind, err)
		}
		last = op.Seq
	}
	return last, nil
}
