package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/phishguard/internal/config"
	"github.com/bryanwahyu/phishguard/internal/infra/httpserver"
	"github.com/bryanwahyu/phishguard/internal/infra/session"
	"github.com/bryanwahyu/phishguard/internal/infra/view"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scan page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetInt("port"); port > 0 {
				cfg.Server.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntP("port", "p", 0, "Override server.port")
	return cmd
}

func runServe(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	views, err := view.NewRenderer()
	if err != nil {
		return err
	}
	sessions := session.NewStore()

	// init router
	h, err := httpserver.NewRouter(a.svc, views, httpserver.Options{
		Sessions:       sessions,
		SessionTTL:     cfg.Session.TTL,
		SecureCookies:  cfg.Server.SecureCookies,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateCapacity:   cfg.RateLimit.Capacity,
		RateRefill:     cfg.RateLimit.RefillRate,
		StepInterval:   cfg.UI.StepInterval,
		Checkers:       a.checkers,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(cfg.Scanner.Timeout),
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// run server
	g.Go(func() error {
		log.Printf("server listening on %s scanner=%s db=%s", srv.Addr, cfg.Scanner.BaseURL, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sessions.RunJanitor(gctx, cfg.Session.CleanupInterval, cfg.Session.TTL)
	})

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx2)
	})

	return g.Wait()
}

// writeTimeout leaves room for the remote scan; no scanner timeout means
// the response has no deadline either
func writeTimeout(scan time.Duration) time.Duration {
	if scan <= 0 {
		return 0
	}
	return scan + 15*time.Second
}
