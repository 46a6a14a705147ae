package domain

import (
	"strings"
	"time"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
)

// TransactionType classifies a ledger entry. The sign of the balance effect
// is derived from the type, never stored.
type TransactionType string

const (
	TypeCredit   TransactionType = "CREDIT"
	TypeDebit    TransactionType = "DEBIT"
	TypeFine     TransactionType = "FINE"
	TypeSpend    TransactionType = "SPEND"
	TypeInterest TransactionType = "INTEREST"
)

// ParseTransactionType validates a transaction type string.
func ParseTransactionType(value string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(value))) {
	case TypeCredit:
		return TypeCredit, nil
	case TypeDebit:
		return TypeDebit, nil
	case TypeFine:
		return TypeFine, nil
	case TypeSpend:
		return TypeSpend, nil
	case TypeInterest:
		return TypeInterest, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeTransactionTypeInvalid,
			"unknown transaction type", map[string]string{"type": value})
	}
}

// Category groups activities for reporting.
type Category string

const (
	CategoryDailyDiscipline     Category = "DAILY_DISCIPLINE"
	CategoryCoreResponsibility  Category = "CORE_RESPONSIBILITY"
	CategoryExceptionalBehavior Category = "EXCEPTIONAL_BEHAVIOR"
	CategoryMinorInfraction     Category = "MINOR_INFRACTION"
	CategoryMajorInfraction     Category = "MAJOR_INFRACTION"
	CategoryPrivilege           Category = "PRIVILEGE"
	CategoryInterest            Category = "INTEREST"
)

// ParseCategory validates an activity category string.
func ParseCategory(value string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(value))) {
	case CategoryDailyDiscipline:
		return CategoryDailyDiscipline, nil
	case CategoryCoreResponsibility:
		return CategoryCoreResponsibility, nil
	case CategoryExceptionalBehavior:
		return CategoryExceptionalBehavior, nil
	case CategoryMinorInfraction:
		return CategoryMinorInfraction, nil
	case CategoryMajorInfraction:
		return CategoryMajorInfraction, nil
	case CategoryPrivilege:
		return CategoryPrivilege, nil
	case CategoryInterest:
		return CategoryInterest, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeTransactionCategoryInvalid,
			"unknown activity category", map[string]string{"category": value})
	}
}

// Transaction is one immutable ledger entry. Amount is a non-negative
// magnitude; the balance effect is SignedAmount.
type Transaction struct {
	ID        string
	AccountID string
	Type      TransactionType
	Amount    int64
	Activity  string
	Category  Category
	CreatedAt time.Time
}

// SignedAmount returns the balance delta this transaction applies:
// positive for CREDIT and INTEREST, negative for DEBIT, FINE, and SPEND.
func (t Transaction) SignedAmount() int64 {
	switch t.Type {
	case TypeCredit, TypeInterest:
		return t.Amount
	default:
		return -t.Amount
	}
}

// Validate checks the structural invariants of a transaction before append.
// Debits may drive an account balance negative; there is deliberately no
// overdraft check here.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.AccountID) == "" {
		return apperrors.New(apperrors.CodeTransactionEmptyAccountID, "transaction account id is required")
	}
	if t.Amount < 0 {
		return apperrors.New(apperrors.CodeTransactionAmountInvalid, "transaction amount must not be negative")
	}
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}
	return nil
}
