package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the audit tables when missing
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{`
CREATE TABLE IF NOT EXISTS phish_scan_history (
  id          VARCHAR(64)  NOT NULL PRIMARY KEY,
  session_id  VARCHAR(64)  NOT NULL,
  url         TEXT         NOT NULL,
  mode        VARCHAR(16)  NOT NULL,
  is_phishing TINYINT(1)   NOT NULL DEFAULT 0,
  confidence  DOUBLE       NOT NULL DEFAULT 0,
  risk_level  VARCHAR(16)  NOT NULL,
  message     TEXT         NOT NULL,
  created_at  DATETIME(6)  NOT NULL,
  INDEX idx_history_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`, `
CREATE TABLE IF NOT EXISTS phish_scan_errors (
  id           BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
  session_id   VARCHAR(64)  NOT NULL,
  url          TEXT         NOT NULL,
  mode         VARCHAR(16)  NOT NULL,
  kind         VARCHAR(16)  NOT NULL,
  message      TEXT         NOT NULL,
  details_json JSON         NOT NULL,
  created_at   DATETIME(6)  NOT NULL,
  INDEX idx_errors_session (session_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
