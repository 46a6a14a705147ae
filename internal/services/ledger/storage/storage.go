// Package storage defines the persistence contracts for the ledger.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sproutbank/sproutbank/internal/services/ledger/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyAccrued indicates the account's interest date advanced past the
// eligibility cutoff between scan and post, typically because another batch
// run got there first.
var ErrAlreadyAccrued = errors.New("interest already accrued for this window")

// AccountStore persists accounts. Balance mutation happens only through
// TransactionStore appends; accounts are otherwise immutable aside from
// last_interest_date.
type AccountStore interface {
	CreateAccount(ctx context.Context, account domain.Account, startingCapital int64) (domain.Account, error)
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	ListChildAccounts(ctx context.Context, familyID string) ([]domain.Account, error)
}

// TransactionStore appends and reads immutable ledger entries. Append and
// the owning account's balance update form one atomic unit: no reader ever
// observes a transaction without its balance effect, or vice versa.
type TransactionStore interface {
	AppendTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
	GetBalance(ctx context.Context, accountID string) (int64, error)
}

// FamilyConfigStore reads and writes per-family interest configuration.
type FamilyConfigStore interface {
	PutFamilyConfig(ctx context.Context, cfg domain.FamilyConfig) error
	GetFamilyConfig(ctx context.Context, familyID string) (domain.FamilyConfig, error)
	ListFamilyIDsWithConfig(ctx context.Context) ([]string, error)
}

// InterestStore posts interest and reads the accrual audit trail.
type InterestStore interface {
	// PostInterest atomically appends an INTEREST transaction, increments
	// the balance, advances last_interest_date to now, and records a
	// SavingsBonus with the pre-increment balance. The date update is
	// guarded by cutoff: when another run has already advanced the date
	// past it, nothing is written and ErrAlreadyAccrued is returned.
	PostInterest(ctx context.Context, accountID string, amount int64, cutoff, now time.Time) (domain.Transaction, error)
	ListSavingsBonuses(ctx context.Context, accountID string) ([]domain.SavingsBonus, error)
}

// Store is the full ledger persistence surface.
type Store interface {
	AccountStore
	TransactionStore
	FamilyConfigStore
	InterestStore
}
