// Package accrual implements the periodic interest batch. It scans every
// family with a configuration, finds child accounts whose accrual window
// has elapsed, and posts interest through the ledger store's atomic
// PostInterest.
package accrual

import (
	"context"
	"errors"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sproutbank/sproutbank/internal/services/ledger/domain"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage"
)

// Job runs one interest accrual sweep.
type Job struct {
	store  storage.Store
	clock  func() time.Time
	logf   func(format string, args ...any)
	tracer trace.Tracer
}

// Report summarizes one accrual run.
type Report struct {
	FamiliesScanned     int
	AccountsScanned     int
	AccountsPosted      int
	TotalInterestPosted int64
	Failed              int
}

// New creates an accrual job over the ledger store.
func New(store storage.Store) *Job {
	return &Job{
		store:  store,
		clock:  time.Now,
		logf:   log.Printf,
		tracer: otel.Tracer("sproutbank/interest/accrual"),
	}
}

// WithClock overrides the job clock, for tests.
func (j *Job) WithClock(clock func() time.Time) *Job {
	j.clock = clock
	return j
}

// WithLogf overrides the job logger.
func (j *Job) WithLogf(logf func(format string, args ...any)) *Job {
	j.logf = logf
	return j
}

// Run executes one sweep. Per-account errors are logged and counted but do
// not stop the run; only context cancellation or a family scan failure
// aborts it.
func (j *Job) Run(ctx context.Context) (Report, error) {
	ctx, span := j.tracer.Start(ctx, "accrual.Run")
	defer span.End()

	var report Report
	now := j.clock().UTC()

	familyIDs, err := j.store.ListFamilyIDsWithConfig(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return report, err
	}

	for _, familyID := range familyIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.FamiliesScanned++

		cfg, err := j.store.GetFamilyConfig(ctx, familyID)
		if err != nil {
			j.logf("interest: family %s: load config: %v", familyID, err)
			report.Failed++
			continue
		}
		if cfg.InterestRate <= 0 {
			continue
		}

		accounts, err := j.store.ListChildAccounts(ctx, familyID)
		if err != nil {
			j.logf("interest: family %s: list accounts: %v", familyID, err)
			report.Failed++
			continue
		}

		for _, account := range accounts {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			report.AccountsScanned++

			amount, posted, err := j.accrueAccount(ctx, cfg, account, now)
			if err != nil {
				j.logf("interest: account %s: %v", account.ID, err)
				report.Failed++
				continue
			}
			if posted {
				report.AccountsPosted++
				report.TotalInterestPosted += amount
			}
		}
	}

	j.logf("interest: run complete: families=%d accounts=%d posted=%d total=%d failed=%d",
		report.FamiliesScanned, report.AccountsScanned, report.AccountsPosted,
		report.TotalInterestPosted, report.Failed)
	return report, nil
}

// accrueAccount posts interest for one account when its window has elapsed.
// It returns the posted amount and whether a transaction was written.
func (j *Job) accrueAccount(ctx context.Context, cfg domain.FamilyConfig, account domain.Account, now time.Time) (int64, bool, error) {
	base := account.CreatedAt
	if account.LastInterestDate != nil {
		base = *account.LastInterestDate
	}
	elapsedDays := int64(now.Sub(base).Hours() / 24)
	if elapsedDays < cfg.InterestDuration {
		return 0, false, nil
	}

	amount := cfg.InterestAmount(account.CurrentBalance)
	if amount <= 0 {
		// Nothing to credit. The accrual date stays put so the account
		// becomes eligible again as soon as its balance recovers.
		return 0, false, nil
	}

	cutoff := now.Add(-time.Duration(cfg.InterestDuration) * 24 * time.Hour)
	if _, err := j.store.PostInterest(ctx, account.ID, amount, cutoff, now); err != nil {
		if errors.Is(err, storage.ErrAlreadyAccrued) {
			// A concurrent run won the race; the interest is posted.
			return 0, false, nil
		}
		return 0, false, err
	}
	return amount, true, nil
}
