// Package interest parses interest batch flags and launches the job.
package interest

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/sproutbank/sproutbank/internal/platform/cmd"
	server "github.com/sproutbank/sproutbank/internal/services/interest/app"
)

// Config holds interest command configuration.
type Config struct {
	DBPath   string        `env:"SPROUTBANK_LEDGER_DB_PATH" envDefault:"data/ledger.db"`
	GRPCPort int           `env:"SPROUTBANK_INTEREST_GRPC_PORT" envDefault:"9091"`
	Interval time.Duration `env:"SPROUTBANK_INTEREST_INTERVAL" envDefault:"0"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the ledger SQLite database")
	fs.IntVar(&cfg.GRPCPort, "grpc-port", cfg.GRPCPort, "The interest gRPC health port")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Interval between sweeps; 0 runs once and exits")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the interest accrual batch.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceInterest, func(ctx context.Context) error {
		return server.Run(ctx, server.RuntimeConfig{
			DBPath:   cfg.DBPath,
			GRPCPort: cfg.GRPCPort,
			Interval: cfg.Interval,
		})
	})
}
