// Package ledger parses ledger service flags and launches the service.
package ledger

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/sproutbank/sproutbank/internal/platform/cmd"
	server "github.com/sproutbank/sproutbank/internal/services/ledger/app"
	"github.com/sproutbank/sproutbank/internal/services/shared/authctx"
)

// Config holds ledger command configuration.
type Config struct {
	HTTPAddr   string        `env:"SPROUTBANK_LEDGER_HTTP_ADDR" envDefault:":8080"`
	GRPCPort   int           `env:"SPROUTBANK_LEDGER_GRPC_PORT" envDefault:"9090"`
	DBPath     string        `env:"SPROUTBANK_LEDGER_DB_PATH" envDefault:"data/ledger.db"`
	CronSecret string        `env:"SPROUTBANK_CRON_SECRET"`
	SessionTTL time.Duration `env:"SPROUTBANK_VERIFY_SESSION_TTL" envDefault:"10m"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The ledger HTTP listen address")
	fs.IntVar(&cfg.GRPCPort, "grpc-port", cfg.GRPCPort, "The ledger gRPC health port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the ledger SQLite database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the ledger HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLedger, func(ctx context.Context) error {
		verifier, err := authctx.LoadVerifierConfigFromEnv(nil)
		if err != nil {
			return err
		}
		return server.Run(ctx, server.RuntimeConfig{
			HTTPAddr:   cfg.HTTPAddr,
			GRPCPort:   cfg.GRPCPort,
			DBPath:     cfg.DBPath,
			CronSecret: cfg.CronSecret,
			SessionTTL: cfg.SessionTTL,
			Verifier:   verifier,
		})
	})
}
