package sqlite

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/phishguard/internal/domain/scans"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Save(ctx context.Context, e *domain.HistoryEntry) error {
	const q = `
INSERT INTO phish_scan_history
  (id, session_id, url, mode, is_phishing, confidence, risk_level, message, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  is_phishing=excluded.is_phishing,
  confidence=excluded.confidence,
  risk_level=excluded.risk_level,
  message=excluded.message;
`
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		e.ID, stringOrDash(e.SessionID), e.URL, stringOrDash(string(e.Mode)),
		e.IsPhishing, e.Confidence, stringOrDash(string(e.RiskLevel)), e.Message, created.UTC(),
	)
	return err
}

func (r *HistoryRepository) Latest(ctx context.Context, limit int) ([]*domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, session_id, url, mode, is_phishing, confidence, risk_level, message, created_at
FROM phish_scan_history
ORDER BY created_at DESC, id DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.URL, &e.Mode, &e.IsPhishing,
			&e.Confidence, &e.RiskLevel, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
