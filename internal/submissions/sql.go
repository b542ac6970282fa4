package submissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	seq        BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_kind_seq ON submissions (kind, seq);
`

type row struct {
	ID        string `db:"id"`
	Kind      string `db:"kind"`
	Payload   string `db:"payload"`
	CreatedAt string `db:"created_at"`
}

// sqlLog is shared by the SQLite and Postgres backends; only the driver and
// pool settings differ. Timestamps are stored as RFC 3339 text so both
// databases hold the same representation.
type sqlLog struct {
	db *sqlx.DB
}

func (s *sqlLog) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *sqlLog) Append(ctx context.Context, kind Kind, payload any) (Entry, error) {
	e, err := newEntry(kind, payload)
	if err != nil {
		return Entry{}, err
	}
	q := s.db.Rebind(`INSERT INTO submissions (id, kind, payload, created_at, seq)
		SELECT ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1 FROM submissions`)
	if _, err := s.db.ExecContext(ctx, q,
		e.ID.String(), string(e.Kind), string(e.Payload), e.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return Entry{}, fmt.Errorf("insert %s: %w", kind, err)
	}
	return e, nil
}

func (s *sqlLog) List(ctx context.Context, kind Kind) ([]Entry, error) {
	var rows []row
	q := s.db.Rebind(`SELECT id, kind, payload, created_at FROM submissions WHERE kind = ? ORDER BY seq`)
	if err := s.db.SelectContext(ctx, &rows, q, string(kind)); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", r.ID, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("row %q: %w", r.ID, err)
		}
		out = append(out, Entry{ID: id, Kind: Kind(r.Kind), Payload: []byte(r.Payload), CreatedAt: ts})
	}
	return out, nil
}

func (s *sqlLog) Close() error {
	return s.db.Close()
}
