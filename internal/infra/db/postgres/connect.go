package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{`
CREATE TABLE IF NOT EXISTS phish_scan_history (
  id          TEXT PRIMARY KEY,
  session_id  TEXT NOT NULL,
  url         TEXT NOT NULL,
  mode        TEXT NOT NULL,
  is_phishing BOOLEAN NOT NULL DEFAULT FALSE,
  confidence  DOUBLE PRECISION NOT NULL DEFAULT 0,
  risk_level  TEXT NOT NULL,
  message     TEXT NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_history_created ON phish_scan_history (created_at);`, `
CREATE TABLE IF NOT EXISTS phish_scan_errors (
  id           BIGSERIAL PRIMARY KEY,
  session_id   TEXT NOT NULL,
  url          TEXT NOT NULL,
  mode         TEXT NOT NULL,
  kind         TEXT NOT NULL,
  message      TEXT NOT NULL,
  details_json JSONB NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_errors_session ON phish_scan_errors (session_id, created_at);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
