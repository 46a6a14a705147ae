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

// AppendTransaction atomically inserts a ledger entry and applies its
// signed amount to the owning account's balance. The balance increment is
// a SQL arithmetic update, so concurrent appends against one account
// serialize in the database instead of racing in application code.
func (s *Store) AppendTransaction(ctx context.Context, entry domain.Transaction) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Transaction{}, fmt.Errorf("storage is not configured")
	}

	entry.AccountID = strings.TrimSpace(entry.AccountID)
	entry.Activity = strings.TrimSpace(entry.Activity)
	if err := entry.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	entry, err = appendTransactionTx(ctx, tx, entry)
	if err != nil {
		return domain.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}
	return entry, nil
}

// appendTransactionTx performs the append inside an open database
// transaction. The balance update runs first so a missing account surfaces
// as ErrNotFound rather than a foreign key violation.
func appendTransactionTx(ctx context.Context, tx *sql.Tx, entry domain.Transaction) (domain.Transaction, error) {
	if entry.ID == "" {
		newID, err := id.NewID()
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("generate transaction id: %w", err)
		}
		entry.ID = newID
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.CreatedAt = entry.CreatedAt.UTC().Truncate(time.Millisecond)

	result, err := tx.ExecContext(ctx, `
UPDATE accounts SET current_balance = current_balance + ? WHERE id = ?
`, entry.SignedAmount(), entry.AccountID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update balance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update balance rows: %w", err)
	}
	if affected == 0 {
		return domain.Transaction{}, storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO transactions (id, account_id, type, amount, activity, category, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		entry.ID,
		entry.AccountID,
		string(entry.Type),
		entry.Amount,
		entry.Activity,
		string(entry.Category),
		toMillis(entry.CreatedAt),
	); err != nil {
		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return entry, nil
}

// ListTransactions lists an account's ledger entries newest-first.
func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
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
SELECT id, account_id, type, amount, activity, category, created_at
FROM transactions
WHERE account_id = ?
ORDER BY created_at DESC, id DESC
`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var entries []domain.Transaction
	for rows.Next() {
		var entry domain.Transaction
		var txType, category string
		var createdAt int64
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&txType,
			&entry.Amount,
			&entry.Activity,
			&category,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		entry.Type = domain.TransactionType(txType)
		entry.Category = domain.Category(category)
		entry.CreatedAt = fromMillis(createdAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return entries, nil
}

// GetBalance returns the denormalized running balance for an account.
func (s *Store) GetBalance(ctx context.Context, accountID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return 0, fmt.Errorf("account id is required")
	}

	var balance int64
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT current_balance FROM accounts WHERE id = ?", accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}
