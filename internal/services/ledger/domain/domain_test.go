package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
)

func TestSignedAmount(t *testing.T) {
	cases := []struct {
		txType TransactionType
		amount int64
		want   int64
	}{
		{TypeCredit, 50, 50},
		{TypeInterest, 48, 48},
		{TypeDebit, 30, -30},
		{TypeFine, 20, -20},
		{TypeSpend, 500, -500},
	}
	for _, tc := range cases {
		tx := Transaction{Type: tc.txType, Amount: tc.amount}
		if got := tx.SignedAmount(); got != tc.want {
			t.Fatalf("%s signed amount = %d, want %d", tc.txType, got, tc.want)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		AccountID: "acc-1",
		Type:      TypeCredit,
		Amount:    10,
		Activity:  "Made the bed",
		Category:  CategoryDailyDiscipline,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	negative := valid
	negative.Amount = -1
	if err := negative.Validate(); !apperrors.IsCode(err, apperrors.CodeTransactionAmountInvalid) {
		t.Fatalf("negative amount error = %v, want amount invalid", err)
	}

	badType := valid
	badType.Type = "LOAN"
	if err := badType.Validate(); !apperrors.IsCode(err, apperrors.CodeTransactionTypeInvalid) {
		t.Fatalf("bad type error = %v, want type invalid", err)
	}

	badCategory := valid
	badCategory.Category = "CHORES"
	if err := badCategory.Validate(); !apperrors.IsCode(err, apperrors.CodeTransactionCategoryInvalid) {
		t.Fatalf("bad category error = %v, want category invalid", err)
	}

	noAccount := valid
	noAccount.AccountID = " "
	if err := noAccount.Validate(); !apperrors.IsCode(err, apperrors.CodeTransactionEmptyAccountID) {
		t.Fatalf("empty account error = %v, want empty account id", err)
	}
}

func TestZeroAmountIsValid(t *testing.T) {
	tx := Transaction{AccountID: "acc-1", Type: TypeDebit, Amount: 0, Category: CategoryMinorInfraction}
	if err := tx.Validate(); err != nil {
		t.Fatalf("zero amount rejected: %v", err)
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("parent")
	if err != nil {
		t.Fatalf("parse role: %v", err)
	}
	if role != RoleParent {
		t.Fatalf("role = %q, want PARENT", role)
	}
	if _, err := ParseRole("grandparent"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestAccountRoleHelpers(t *testing.T) {
	child := Account{Roles: []Role{RoleChild}}
	if !child.IsChildOnly() {
		t.Fatal("child-only account not detected")
	}
	both := Account{Roles: []Role{RoleChild, RoleParent}}
	if both.IsChildOnly() {
		t.Fatal("parent+child account must not be child-only")
	}
	if !both.HasRole(RoleParent) {
		t.Fatal("expected parent role")
	}
}

func TestAccountValidate(t *testing.T) {
	acct := Account{Name: "Maya", FamilyID: "fam-1", Roles: []Role{RoleChild}, CreatedAt: time.Now()}
	if err := acct.Validate(); err != nil {
		t.Fatalf("valid account rejected: %v", err)
	}

	noName := acct
	noName.Name = ""
	if err := noName.Validate(); !apperrors.IsCode(err, apperrors.CodeAccountEmptyName) {
		t.Fatalf("empty name error = %v", err)
	}

	noRoles := acct
	noRoles.Roles = nil
	if err := noRoles.Validate(); !errors.Is(err, apperrors.New(apperrors.CodeAccountInvalidRole, "")) {
		t.Fatalf("no roles error = %v", err)
	}
}

func TestFamilyConfigValidate(t *testing.T) {
	cfg := FamilyConfig{FamilyID: "fam-1", InterestRate: 10, InterestDuration: 7, StartingCapital: 100}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg.InterestDuration = 0
	if err := cfg.Validate(); !apperrors.IsCode(err, apperrors.CodeConfigInvalidDuration) {
		t.Fatalf("zero duration error = %v", err)
	}
}

func TestInterestAmountFloors(t *testing.T) {
	cfg := FamilyConfig{InterestRate: 10}
	if got := cfg.InterestAmount(480); got != 48 {
		t.Fatalf("interest on 480 at 10%% = %d, want 48", got)
	}
	if got := cfg.InterestAmount(489); got != 48 {
		t.Fatalf("interest on 489 at 10%% = %d, want 48", got)
	}
	if got := cfg.InterestAmount(0); got != 0 {
		t.Fatalf("interest on 0 = %d, want 0", got)
	}
	// Negative balances floor toward more negative, staying non-positive.
	if got := cfg.InterestAmount(-5); got != -1 {
		t.Fatalf("interest on -5 = %d, want -1", got)
	}
}
