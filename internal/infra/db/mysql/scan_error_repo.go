package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/phishguard/internal/domain/scanerrors"
)

type ScanErrorRepository struct {
	db *sql.DB
}

func NewScanErrorRepository(db *sql.DB) *ScanErrorRepository { return &ScanErrorRepository{db: db} }

func (r *ScanErrorRepository) Save(ctx context.Context, e *domain.ScanError) error {
	const q = `
INSERT INTO phish_scan_errors
  (session_id, url, mode, kind, message, details_json, created_at)
VALUES (?,?,?,?,?,?,?)
`
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		stringOrDash(e.SessionID), stringOrDash(e.URL), stringOrDash(e.Mode),
		stringOrDash(e.Kind), stringOrDash(e.Message), jsonOrEmpty(e.DetailsJSON), created,
	)
	return err
}

func (r *ScanErrorRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.ScanError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, session_id, url, mode, kind, message, details_json, created_at
FROM phish_scan_errors
WHERE session_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.ScanError
	for rows.Next() {
		var e domain.ScanError
		if err := rows.Scan(&e.ID, &e.SessionID, &e.URL, &e.Mode, &e.Kind, &e.Message, &e.DetailsJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
