// Package engine is the authorization-gated entry point for ledger
// mutations and queries. Handlers and the interest batch both go through
// it; nothing else writes to the ledger.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
	"github.com/sproutbank/sproutbank/internal/services/ledger/domain"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage"
	"github.com/sproutbank/sproutbank/internal/services/shared/authctx"
)

// Engine wraps the ledger store with authorization and validation.
type Engine struct {
	store  storage.Store
	clock  func() time.Time
	tracer trace.Tracer
}

// New creates an engine backed by ledger storage.
func New(store storage.Store) *Engine {
	return &Engine{
		store:  store,
		clock:  time.Now,
		tracer: otel.Tracer("sproutbank/ledger/engine"),
	}
}

// WithClock overrides the engine clock, for tests.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// Store exposes the underlying store to sibling services (interest batch).
func (e *Engine) Store() storage.Store {
	return e.store
}

func (e *Engine) now() time.Time {
	if e.clock == nil {
		return time.Now().UTC()
	}
	return e.clock().UTC()
}

// authorize enforces the actor/target rule: a CHILD-only actor may act
// solely on its own account; PARENT or ADMIN may act on any account in the
// same family. Everything else is PermissionDenied, including cross-family
// targets.
func (e *Engine) authorize(ctx context.Context, actor authctx.Identity, targetAccountID string) error {
	if !actor.Valid() {
		return apperrors.New(apperrors.CodePermissionDenied, "caller identity is incomplete")
	}
	if targetAccountID == actor.AccountID {
		return nil
	}
	if !actor.HasRole(string(domain.RoleParent)) && !actor.HasRole(string(domain.RoleAdmin)) {
		return apperrors.New(apperrors.CodePermissionDenied, "child accounts may only act on themselves")
	}

	target, err := e.store.GetAccount(ctx, targetAccountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.Wrap(apperrors.CodeNotFound, "target account not found", err)
		}
		return err
	}
	if target.FamilyID != actor.FamilyID {
		return apperrors.New(apperrors.CodePermissionDenied, "target account belongs to another family")
	}
	return nil
}

// CreateTransaction validates, authorizes, and atomically appends a ledger
// entry, returning it with id and timestamp assigned.
func (e *Engine) CreateTransaction(ctx context.Context, actor authctx.Identity, accountID, txType string, amount int64, activity, category string) (domain.Transaction, error) {
	ctx, span := e.tracer.Start(ctx, "engine.CreateTransaction")
	defer span.End()

	accountID = strings.TrimSpace(accountID)
	parsedType, err := domain.ParseTransactionType(txType)
	if err != nil {
		return domain.Transaction{}, spanErr(span, err)
	}
	parsedCategory, err := domain.ParseCategory(category)
	if err != nil {
		return domain.Transaction{}, spanErr(span, err)
	}
	if amount < 0 {
		return domain.Transaction{}, spanErr(span,
			apperrors.New(apperrors.CodeTransactionAmountInvalid, "transaction amount must not be negative"))
	}

	if err := e.authorize(ctx, actor, accountID); err != nil {
		return domain.Transaction{}, spanErr(span, err)
	}

	entry, err := e.store.AppendTransaction(ctx, domain.Transaction{
		AccountID: accountID,
		Type:      parsedType,
		Amount:    amount,
		Activity:  strings.TrimSpace(activity),
		Category:  parsedCategory,
		CreatedAt: e.now(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = apperrors.Wrap(apperrors.CodeNotFound, "account not found", err)
		}
		return domain.Transaction{}, spanErr(span, err)
	}
	return entry, nil
}

// ListTransactions returns an account's ledger newest-first, applying the
// same authorization rule as CreateTransaction.
func (e *Engine) ListTransactions(ctx context.Context, actor authctx.Identity, accountID string) ([]domain.Transaction, error) {
	ctx, span := e.tracer.Start(ctx, "engine.ListTransactions")
	defer span.End()

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		accountID = actor.AccountID
	}
	if err := e.authorize(ctx, actor, accountID); err != nil {
		return nil, spanErr(span, err)
	}
	entries, err := e.store.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, spanErr(span, err)
	}
	return entries, nil
}

// Balance returns the denormalized running balance of an account.
func (e *Engine) Balance(ctx context.Context, actor authctx.Identity, accountID string) (int64, error) {
	ctx, span := e.tracer.Start(ctx, "engine.Balance")
	defer span.End()

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		accountID = actor.AccountID
	}
	if err := e.authorize(ctx, actor, accountID); err != nil {
		return 0, spanErr(span, err)
	}
	balance, err := e.store.GetBalance(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = apperrors.Wrap(apperrors.CodeNotFound, "account not found", err)
		}
		return 0, spanErr(span, err)
	}
	return balance, nil
}

// SavingsBonuses returns an account's interest audit trail.
func (e *Engine) SavingsBonuses(ctx context.Context, actor authctx.Identity, accountID string) ([]domain.SavingsBonus, error) {
	ctx, span := e.tracer.Start(ctx, "engine.SavingsBonuses")
	defer span.End()

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		accountID = actor.AccountID
	}
	if err := e.authorize(ctx, actor, accountID); err != nil {
		return nil, spanErr(span, err)
	}
	bonuses, err := e.store.ListSavingsBonuses(ctx, accountID)
	if err != nil {
		return nil, spanErr(span, err)
	}
	return bonuses, nil
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	return err
}
