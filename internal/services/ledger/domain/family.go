package domain

import (
	"time"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
)

// FamilyConfig holds a family's currency model parameters. It is a
// read-only input to interest accrual and to new-account bootstrap.
type FamilyConfig struct {
	FamilyID string
	// InterestRate is an integer percentage applied per accrual period.
	InterestRate int64
	// InterestDuration is the number of days between accrual eligibility.
	InterestDuration int64
	// StartingCapital is credited to newly created accounts, in the
	// smallest currency unit.
	StartingCapital int64
	UpdatedAt       time.Time
}

// Validate checks the configuration bounds.
func (c FamilyConfig) Validate() error {
	if c.FamilyID == "" {
		return apperrors.New(apperrors.CodeAccountEmptyFamily, "family id is required")
	}
	if c.InterestRate < 0 {
		return apperrors.New(apperrors.CodeConfigInvalidRate, "interest rate must not be negative")
	}
	if c.InterestDuration < 1 {
		return apperrors.New(apperrors.CodeConfigInvalidDuration, "interest duration must be at least one day")
	}
	if c.StartingCapital < 0 {
		return apperrors.New(apperrors.CodeTransactionAmountInvalid, "starting capital must not be negative")
	}
	return nil
}

// SavingsBonus is the audit record written alongside each posted interest
// transaction. BalanceAtTime captures the balance before the increment.
type SavingsBonus struct {
	ID            string
	AccountID     string
	Amount        int64
	BalanceAtTime int64
	BonusDate     time.Time
}

// InterestAmount computes floor(balance * rate / 100) for the given
// balance. Negative balances produce a non-positive amount, which callers
// skip without advancing the accrual date.
func (c FamilyConfig) InterestAmount(balance int64) int64 {
	product := balance * c.InterestRate
	amount := product / 100
	// Go truncates toward zero; match floor semantics for negative products.
	if product%100 != 0 && product < 0 {
		amount--
	}
	return amount
}
