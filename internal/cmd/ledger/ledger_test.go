package ledger

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.GRPCPort != 9090 {
		t.Fatalf("GRPCPort = %d, want 9090", cfg.GRPCPort)
	}
	if cfg.DBPath != "data/ledger.db" {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, "data/ledger.db")
	}
	if cfg.SessionTTL != 10*time.Minute {
		t.Fatalf("SessionTTL = %v, want 10m", cfg.SessionTTL)
	}
}

func TestParseConfigEnvOverride(t *testing.T) {
	t.Setenv("SPROUTBANK_LEDGER_HTTP_ADDR", ":9999")
	t.Setenv("SPROUTBANK_CRON_SECRET", "hunter2")
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9999")
	}
	if cfg.CronSecret != "hunter2" {
		t.Fatalf("CronSecret = %q, want %q", cfg.CronSecret, "hunter2")
	}
}

func TestParseConfigFlagsBeatEnv(t *testing.T) {
	t.Setenv("SPROUTBANK_LEDGER_DB_PATH", "/env/ledger.db")
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db-path", "/flag/ledger.db"})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DBPath != "/flag/ledger.db" {
		t.Fatalf("DBPath = %q, want flag value", cfg.DBPath)
	}
}
