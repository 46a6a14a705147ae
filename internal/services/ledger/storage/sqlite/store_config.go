package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sproutbank/sproutbank/internal/services/ledger/domain"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage"
)

// PutFamilyConfig inserts or replaces a family's interest configuration.
func (s *Store) PutFamilyConfig(ctx context.Context, cfg domain.FamilyConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	cfg.FamilyID = strings.TrimSpace(cfg.FamilyID)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO family_configs (family_id, interest_rate, interest_duration, starting_capital, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (family_id) DO UPDATE SET
    interest_rate = excluded.interest_rate,
    interest_duration = excluded.interest_duration,
    starting_capital = excluded.starting_capital,
    updated_at = excluded.updated_at
`,
		cfg.FamilyID,
		cfg.InterestRate,
		cfg.InterestDuration,
		cfg.StartingCapital,
		toMillis(cfg.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put family config: %w", err)
	}
	return nil
}

// GetFamilyConfig loads one family's interest configuration.
func (s *Store) GetFamilyConfig(ctx context.Context, familyID string) (domain.FamilyConfig, error) {
	if err := ctx.Err(); err != nil {
		return domain.FamilyConfig{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.FamilyConfig{}, fmt.Errorf("storage is not configured")
	}
	familyID = strings.TrimSpace(familyID)
	if familyID == "" {
		return domain.FamilyConfig{}, fmt.Errorf("family id is required")
	}

	var cfg domain.FamilyConfig
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT family_id, interest_rate, interest_duration, starting_capital, updated_at
FROM family_configs
WHERE family_id = ?
`, familyID).Scan(&cfg.FamilyID, &cfg.InterestRate, &cfg.InterestDuration, &cfg.StartingCapital, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.FamilyConfig{}, storage.ErrNotFound
		}
		return domain.FamilyConfig{}, fmt.Errorf("get family config: %w", err)
	}
	cfg.UpdatedAt = fromMillis(updatedAt)
	return cfg, nil
}

// ListFamilyIDsWithConfig lists every family that has interest configured.
func (s *Store) ListFamilyIDsWithConfig(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT family_id FROM family_configs ORDER BY family_id ASC")
	if err != nil {
		return nil, fmt.Errorf("list family configs: %w", err)
	}
	defer rows.Close()

	var familyIDs []string
	for rows.Next() {
		var familyID string
		if err := rows.Scan(&familyID); err != nil {
			return nil, fmt.Errorf("scan family id: %w", err)
		}
		familyIDs = append(familyIDs, familyID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate family configs: %w", err)
	}
	return familyIDs, nil
}
