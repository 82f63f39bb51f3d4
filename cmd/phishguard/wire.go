package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/bryanwahyu/phishguard/internal/application"
	appai "github.com/bryanwahyu/phishguard/internal/application/ai"
	appscans "github.com/bryanwahyu/phishguard/internal/application/scans"
	"github.com/bryanwahyu/phishguard/internal/config"
	"github.com/bryanwahyu/phishguard/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/phishguard/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/phishguard/internal/infra/db/postgres"
	sqlitep "github.com/bryanwahyu/phishguard/internal/infra/db/sqlite"
	"github.com/bryanwahyu/phishguard/internal/infra/scanner"
	minioStore "github.com/bryanwahyu/phishguard/internal/infra/storage"
	"github.com/bryanwahyu/phishguard/internal/middleware"
)

// app is the wired controller plus what must be closed on exit
type app struct {
	svc      *appscans.Service
	checkers map[string]middleware.HealthChecker
	db       *sql.DB
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	// init scanner client
	client := scanner.NewClient(cfg.Scanner.BaseURL,
		scanner.WithPaths(cfg.Scanner.ScanPath, cfg.Scanner.BatchPath),
		scanner.WithTimeout(cfg.Scanner.Timeout),
	)

	a := &app{
		svc: &appscans.Service{
			Scanner:       client,
			Clock:         application.SystemClock{},
			ToastDuration: cfg.UI.ToastDuration,
		},
		checkers: map[string]middleware.HealthChecker{
			"scanner": &middleware.ScannerHealthChecker{BaseURL: cfg.Scanner.BaseURL},
		},
	}

	// init history store
	if err := a.openDatabase(ctx, cfg); err != nil {
		return nil, err
	}

	// init minio
	if cfg.SharingEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
			cfg.Minio.ShareExpiry,
		)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("minio init error: %w", err)
		}
		a.svc.Shares = store
		a.checkers["storage"] = store
	}

	// init explainer
	if cfg.OpenAI.APIKey != "" {
		a.svc.Explainer = appai.NewService(openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL))
	}
	return a, nil
}

func (a *app) openDatabase(ctx context.Context, cfg *config.Config) error {
	var err error
	switch cfg.Database.Driver {
	case "none":
		return nil
	case "sqlite":
		if a.db, err = sqlitep.Open(ctx, cfg.Database.Path); err != nil {
			return fmt.Errorf("sqlite open error: %w", err)
		}
		a.svc.Histories = sqlitep.NewHistoryRepository(a.db)
		a.svc.Errors = sqlitep.NewScanErrorRepository(a.db)
	case "mysql":
		if a.db, err = mysqlp.Connect(ctx, cfg.MySQLDSN()); err != nil {
			return fmt.Errorf("mysql connect error: %w", err)
		}
		if err := mysqlp.EnsureSchema(ctx, a.db); err != nil {
			a.Close()
			return fmt.Errorf("mysql schema error: %w", err)
		}
		a.svc.Histories = mysqlp.NewHistoryRepository(a.db)
		a.svc.Errors = mysqlp.NewScanErrorRepository(a.db)
	case "postgres":
		if a.db, err = postgresp.Connect(ctx, cfg.PostgresDSN()); err != nil {
			return fmt.Errorf("postgres connect error: %w", err)
		}
		if err := postgresp.EnsureSchema(ctx, a.db); err != nil {
			a.Close()
			return fmt.Errorf("postgres schema error: %w", err)
		}
		a.svc.Histories = postgresp.NewHistoryRepository(a.db)
		a.svc.Errors = postgresp.NewScanErrorRepository(a.db)
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	a.checkers["database"] = &middleware.DatabaseHealthChecker{DB: a.db}
	return nil
}
