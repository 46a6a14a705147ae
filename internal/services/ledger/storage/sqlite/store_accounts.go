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

// CreateAccount inserts an account and, when startingCapital is positive,
// posts the bootstrap CREDIT in the same transaction so the balance
// invariant holds from the first row.
func (s *Store) CreateAccount(ctx context.Context, account domain.Account, startingCapital int64) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Account{}, fmt.Errorf("storage is not configured")
	}

	account.Name = strings.TrimSpace(account.Name)
	account.FamilyID = strings.TrimSpace(account.FamilyID)
	if err := account.Validate(); err != nil {
		return domain.Account{}, err
	}
	if startingCapital < 0 {
		return domain.Account{}, fmt.Errorf("starting capital must not be negative")
	}
	if account.ID == "" {
		newID, err := id.NewID()
		if err != nil {
			return domain.Account{}, fmt.Errorf("generate account id: %w", err)
		}
		account.ID = newID
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.CreatedAt = account.CreatedAt.UTC().Truncate(time.Millisecond)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	roles := make([]string, 0, len(account.Roles))
	for _, role := range account.Roles {
		roles = append(roles, string(role))
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO accounts (id, family_id, name, roles, current_balance, created_at)
VALUES (?, ?, ?, ?, 0, ?)
`, account.ID, account.FamilyID, account.Name, encodeRoles(roles), toMillis(account.CreatedAt)); err != nil {
		return domain.Account{}, fmt.Errorf("insert account: %w", err)
	}

	account.CurrentBalance = 0
	if startingCapital > 0 {
		bootstrap := domain.Transaction{
			AccountID: account.ID,
			Type:      domain.TypeCredit,
			Amount:    startingCapital,
			Activity:  "Starting capital",
			Category:  domain.CategoryPrivilege,
			CreatedAt: account.CreatedAt,
		}
		if _, err := appendTransactionTx(ctx, tx, bootstrap); err != nil {
			return domain.Account{}, err
		}
		account.CurrentBalance = startingCapital
	}

	if err := tx.Commit(); err != nil {
		return domain.Account{}, fmt.Errorf("commit account: %w", err)
	}
	return account, nil
}

// GetAccount loads one account by id.
func (s *Store) GetAccount(ctx context.Context, accountID string) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Account{}, fmt.Errorf("storage is not configured")
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domain.Account{}, fmt.Errorf("account id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, family_id, name, roles, current_balance, last_interest_date, created_at
FROM accounts
WHERE id = ?
`, accountID)
	return scanAccount(row)
}

// ListChildAccounts lists the CHILD-role accounts of a family, oldest first.
func (s *Store) ListChildAccounts(ctx context.Context, familyID string) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	familyID = strings.TrimSpace(familyID)
	if familyID == "" {
		return nil, fmt.Errorf("family id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, family_id, name, roles, current_balance, last_interest_date, created_at
FROM accounts
WHERE family_id = ? AND (',' || roles || ',') LIKE '%,CHILD,%'
ORDER BY created_at ASC, id ASC
`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list child accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate child accounts: %w", err)
	}
	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	var roles string
	var lastInterest sql.NullInt64
	var createdAt int64
	if err := row.Scan(
		&account.ID,
		&account.FamilyID,
		&account.Name,
		&roles,
		&account.CurrentBalance,
		&lastInterest,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, storage.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("scan account: %w", err)
	}
	for _, role := range decodeRoles(roles) {
		account.Roles = append(account.Roles, domain.Role(role))
	}
	if lastInterest.Valid {
		t := fromMillis(lastInterest.Int64)
		account.LastInterestDate = &t
	}
	account.CreatedAt = fromMillis(createdAt)
	return account, nil
}
