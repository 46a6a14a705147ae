// Package app assembles and runs the ledger service: SQLite store, engine,
// verification session store, JSON API, and a gRPC health endpoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	platformgrpc "github.com/sproutbank/sproutbank/internal/platform/grpc"
	"github.com/sproutbank/sproutbank/internal/platform/timeouts"
	"github.com/sproutbank/sproutbank/internal/services/interest/accrual"
	"github.com/sproutbank/sproutbank/internal/services/ledger/api/httpapi"
	"github.com/sproutbank/sproutbank/internal/services/ledger/engine"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage/sqlite"
	"github.com/sproutbank/sproutbank/internal/services/shared/authctx"
	"github.com/sproutbank/sproutbank/internal/services/verification/session"
)

// RuntimeConfig captures everything the ledger process needs to start.
type RuntimeConfig struct {
	HTTPAddr   string
	GRPCPort   int
	DBPath     string
	CronSecret string
	SessionTTL time.Duration
	Verifier   authctx.VerifierConfig
	Logf       func(format string, args ...any)
}

// Run starts the ledger service and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("http address is required")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("database path is required")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logf("close ledger store: %v", closeErr)
		}
	}()

	sessions := session.NewStore()
	if cfg.SessionTTL > 0 {
		sessions.WithTTL(cfg.SessionTTL)
	}

	eng := engine.New(store)
	job := accrual.New(store).WithLogf(logf)
	api := httpapi.NewServer(eng, sessions, nil, job, cfg.Verifier, cfg.CronSecret).WithLogf(logf)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	var grpcServer interface{ GracefulStop() }
	if cfg.GRPCPort > 0 {
		server, err := platformgrpc.ServeHealth(cfg.GRPCPort, logf, "sproutbank.ledger")
		if err != nil {
			return err
		}
		grpcServer = server
	}

	serveErr := make(chan error, 1)
	go func() {
		logf("ledger API listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logf("http shutdown: %v", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	return nil
}
