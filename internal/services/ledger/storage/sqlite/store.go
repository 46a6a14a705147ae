// Package sqlite provides the SQLite-backed ledger store.
package sqlite

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"database/sql"

	sqlitemigrate "github.com/sproutbank/sproutbank/internal/platform/storage/sqlitemigrate"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed ledger persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a ledger SQLite store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func encodeRoles(roles []string) string {
	return strings.Join(roles, ",")
}

func decodeRoles(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, ",")
}

var _ storage.Store = (*Store)(nil)
