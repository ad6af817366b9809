package journal

import (
	"context"
	"encoding/json"
	"fmt"
)

// Append serializes payload and appends one record, returning its sequence
// number. Sequence numbers are assigned by the database and are strictly
// increasing within a journal file.
func (s *Store) Append(ctx context.Context, runToken, kind string, payload any) (int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("append %s: %w", kind, err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ops (run_token, kind, payload) VALUES (?, ?, ?)
	`, runToken, kind, string(body))
	if err != nil {
		return 0, fmt.Errorf("append %s: %w", kind, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append %s: %w", kind, err)
	}
	return seq, nil
}
