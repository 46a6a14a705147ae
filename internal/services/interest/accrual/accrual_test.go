package accrual

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sproutbank/sproutbank/internal/services/ledger/domain"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func quietLogf(string, ...any) {}

func TestRunPostsInterestAfterWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.PutFamilyConfig(ctx, domain.FamilyConfig{
		FamilyID:         "fam",
		InterestRate:     10,
		InterestDuration: 7,
	}); err != nil {
		t.Fatalf("PutFamilyConfig: %v", err)
	}

	account, err := store.CreateAccount(ctx, domain.Account{
		FamilyID:  "fam",
		Name:      "Jo",
		Roles:     []domain.Role{domain.RoleChild},
		CreatedAt: now.Add(-8 * 24 * time.Hour),
	}, 480)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	job := New(store).WithClock(func() time.Time { return now }).WithLogf(quietLogf)
	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.AccountsPosted != 1 {
		t.Fatalf("AccountsPosted = %d, want 1", report.AccountsPosted)
	}
	if report.TotalInterestPosted != 48 {
		t.Fatalf("TotalInterestPosted = %d, want 48", report.TotalInterestPosted)
	}

	balance, err := store.GetBalance(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance != 528 {
		t.Fatalf("balance = %d, want 528", balance)
	}

	bonuses, err := store.ListSavingsBonuses(ctx, account.ID)
	if err != nil {
		t.Fatalf("ListSavingsBonuses: %v", err)
	}
	if len(bonuses) != 1 || bonuses[0].Amount != 48 || bonuses[0].BalanceAtTime != 480 {
		t.Fatalf("bonuses = %+v, want one of amount 48 at balance 480", bonuses)
	}
}

func TestRunSkipsAccountsInsideWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.PutFamilyConfig(ctx, domain.FamilyConfig{
		FamilyID:         "fam",
		InterestRate:     10,
		InterestDuration: 7,
	}); err != nil {
		t.Fatalf("PutFamilyConfig: %v", err)
	}
	if _, err := store.CreateAccount(ctx, domain.Account{
		FamilyID:  "fam",
		Name:      "Jo",
		Roles:     []domain.Role{domain.RoleChild},
		CreatedAt: now.Add(-3 * 24 * time.Hour),
	}, 480); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	job := New(store).WithClock(func() time.Time { return now }).WithLogf(quietLogf)
	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.AccountsScanned != 1 || report.AccountsPosted != 0 {
		t.Fatalf("report = %+v, want one scanned and none posted", report)
	}
}

func TestRunIsIdempotentWithinWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.PutFamilyConfig(ctx, domain.FamilyConfig{
		FamilyID:         "fam",
		InterestRate:     10,
		InterestDuration: 7,
	}); err != nil {
		t.Fatalf("PutFamilyConfig: %v", err)
	}
	account, err := store.CreateAccount(ctx, domain.Account{
		FamilyID:  "fam",
		Name:      "Jo",
		Roles:     []domain.Role{domain.RoleChild},
		CreatedAt: now.Add(-8 * 24 * time.Hour),
	}, 480)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	job := New(store).WithClock(func() time.Time { return now }).WithLogf(quietLogf)
	if _, err := job.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if report.AccountsPosted != 0 {
		t.Fatalf("second run AccountsPosted = %d, want 0", report.AccountsPosted)
	}

	balance, err := store.GetBalance(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance != 528 {
		t.Fatalf("balance = %d, want 528 after double run", balance)
	}
}

func TestRunSkipsNonPositiveInterestWithoutAdvancingDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.PutFamilyConfig(ctx, domain.FamilyConfig{
		FamilyID:         "fam",
		InterestRate:     10,
		InterestDuration: 7,
	}); err != nil {
		t.Fatalf("PutFamilyConfig: %v", err)
	}
	account, err := store.CreateAccount(ctx, domain.Account{
		FamilyID:  "fam",
		Name:      "Jo",
		Roles:     []domain.Role{domain.RoleChild},
		CreatedAt: now.Add(-8 * 24 * time.Hour),
	}, 0)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	job := New(store).WithClock(func() time.Time { return now }).WithLogf(quietLogf)
	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.AccountsPosted != 0 {
		t.Fatalf("AccountsPosted = %d, want 0 for zero balance", report.AccountsPosted)
	}

	got, err := store.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.LastInterestDate != nil {
		t.Fatalf("LastInterestDate = %v, want nil after skip", got.LastInterestDate)
	}

	// Fund the account; the very next run should post because the date
	// never advanced.
	if _, err := store.AppendTransaction(ctx, domain.Transaction{
		AccountID: account.ID,
		Type:      domain.TypeCredit,
		Amount:    100,
		Activity:  "Chores",
		Category:  domain.CategoryCoreResponsibility,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("AppendTransaction: %v", err)
	}
	report, err = job.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if report.AccountsPosted != 1 || report.TotalInterestPosted != 10 {
		t.Fatalf("report = %+v, want 10 posted once", report)
	}
}

func TestRunIgnoresFamiliesWithZeroRate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if err := store.PutFamilyConfig(ctx, domain.FamilyConfig{
		FamilyID:         "fam",
		InterestRate:     0,
		InterestDuration: 7,
	}); err != nil {
		t.Fatalf("PutFamilyConfig: %v", err)
	}
	if _, err := store.CreateAccount(ctx, domain.Account{
		FamilyID:  "fam",
		Name:      "Jo",
		Roles:     []domain.Role{domain.RoleChild},
		CreatedAt: now.Add(-30 * 24 * time.Hour),
	}, 480); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	job := New(store).WithClock(func() time.Time { return now }).WithLogf(quietLogf)
	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.FamiliesScanned != 1 || report.AccountsScanned != 0 {
		t.Fatalf("report = %+v, want family scanned but no accounts", report)
	}
}
