package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Ops returns every record in sequence order.
func (s *Store) Ops(ctx context.Context) ([]Op, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, run_token, kind, payload FROM ops ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("read ops: %w", err)
	}
	defer rows.Close()

	var out []Op
	for rows.Next() {
		var op Op
		var payload string
		if err := rows.Scan(&op.Seq, &op.RunToken, &op.Kind, &payload); err != nil {
			return nil, fmt.Errorf("read ops: %w", err)
		}
		op.Payload = json.RawMessage(payload)
		out = append(out, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ops: %w", err)
	}
	return out, nil
}

// LastSeq returns the highest sequence number, or 0 for an empty journal.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM ops`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ops`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ops: %w", err)
	}
	return n, nil
}
