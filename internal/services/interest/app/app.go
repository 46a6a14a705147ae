// Package app runs the interest accrual batch, either as a one-shot sweep
// or on an interval, with a gRPC health endpoint while looping.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	platformgrpc "github.com/sproutbank/sproutbank/internal/platform/grpc"
	"github.com/sproutbank/sproutbank/internal/services/interest/accrual"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage/sqlite"
)

// RuntimeConfig captures everything the interest process needs to start.
type RuntimeConfig struct {
	DBPath   string
	GRPCPort int
	// Interval between sweeps. Zero means run once and exit.
	Interval time.Duration
	Logf     func(format string, args ...any)
}

// Run executes the accrual batch per the configuration. In interval mode
// it blocks until ctx is cancelled.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
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

	job := accrual.New(store).WithLogf(logf)

	if cfg.Interval <= 0 {
		_, err := job.Run(ctx)
		return err
	}

	if cfg.GRPCPort > 0 {
		grpcServer, err := platformgrpc.ServeHealth(cfg.GRPCPort, logf, "sproutbank.interest")
		if err != nil {
			return err
		}
		defer grpcServer.GracefulStop()
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	// One sweep at startup, then on every tick.
	if _, err := job.Run(ctx); err != nil {
		logf("interest sweep: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := job.Run(ctx); err != nil {
				logf("interest sweep: %v", err)
			}
		}
	}
}
