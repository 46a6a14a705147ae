package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sproutbank/sproutbank/internal/platform/id"
	"github.com/sproutbank/sproutbank/internal/services/ledger/domain"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage"
)

// PostInterest applies one accrual event as a single atomic unit: the
// INTEREST ledger entry, the balance increment, the last_interest_date
// advance, and the SavingsBonus audit record. The date advance is guarded
// by the eligibility cutoff so overlapping batch runs post at most once
// per window.
func (s *Store) PostInterest(ctx context.Context, accountID string, amount int64, cutoff, now time.Time) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Transaction{}, fmt.Errorf("storage is not configured")
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domain.Transaction{}, fmt.Errorf("account id is required")
	}
	if amount <= 0 {
		return domain.Transaction{}, fmt.Errorf("interest amount must be positive")
	}

	now = now.UTC().Truncate(time.Millisecond)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var balanceBefore int64
	err = tx.QueryRowContext(ctx,
		"SELECT current_balance FROM accounts WHERE id = ?", accountID).Scan(&balanceBefore)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, storage.ErrNotFound
		}
		return domain.Transaction{}, fmt.Errorf("read balance: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
UPDATE accounts
SET current_balance = current_balance + ?, last_interest_date = ?
WHERE id = ? AND COALESCE(last_interest_date, created_at) <= ?
`, amount, toMillis(now), accountID, toMillis(cutoff))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("advance interest date: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("advance interest date rows: %w", err)
	}
	if affected == 0 {
		return domain.Transaction{}, storage.ErrAlreadyAccrued
	}

	entryID, err := id.NewID()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}
	entry := domain.Transaction{
		ID:        entryID,
		AccountID: accountID,
		Type:      domain.TypeInterest,
		Amount:    amount,
		Activity:  "Automatic Interest",
		Category:  domain.CategoryInterest,
		CreatedAt: now,
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO transactions (id, account_id, type, amount, activity, category, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, entry.ID, entry.AccountID, string(entry.Type), entry.Amount, entry.Activity, string(entry.Category), toMillis(entry.CreatedAt)); err != nil {
		return domain.Transaction{}, fmt.Errorf("insert interest transaction: %w", err)
	}

	bonusID, err := id.NewID()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("generate bonus id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO savings_bonuses (id, account_id, amount, balance_at_time, bonus_date)
VALUES (?, ?, ?, ?, ?)
`, bonusID, accountID, amount, balanceBefore, toMillis(now)); err != nil {
		return domain.Transaction{}, fmt.Errorf("insert savings bonus: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, fmt.Errorf("commit interest: %w", err)
	}
	return entry, nil
}

// ListSavingsBonuses lists an account's accrual audit records newest-first.
func (s *Store) ListSavingsBonuses(ctx context.Context, accountID string) ([]domain.SavingsBonus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, fmt.Errorf("account id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, account_id, amount, balance_at_time, bonus_date
FROM savings_bonuses
WHERE account_id = ?
ORDER BY bonus_date DESC, id DESC
`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list savings bonuses: %w", err)
	}
	defer rows.Close()

	var bonuses []domain.SavingsBonus
	for rows.Next() {
		var bonus domain.SavingsBonus
		var bonusDate int64
		if err := rows.Scan(&bonus.ID, &bonus.AccountID, &bonus.Amount, &bonus.BalanceAtTime, &bonusDate); err != nil {
			return nil, fmt.Errorf("scan savings bonus: %w", err)
		}
		bonus.BonusDate = fromMillis(bonusDate)
		bonuses = append(bonuses, bonus)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate savings bonuses: %w", err)
	}
	return bonuses, nil
}
