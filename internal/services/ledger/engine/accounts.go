package engine

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
	"github.com/sproutbank/sproutbank/internal/services/ledger/domain"
	"github.com/sproutbank/sproutbank/internal/services/ledger/storage"
	"github.com/sproutbank/sproutbank/internal/services/shared/authctx"
)

// CreateAccount provisions an account in the actor's family. Only PARENT or
// ADMIN actors may create accounts. When the family config defines starting
// capital, the new account is seeded with a bootstrap credit so the balance
// invariant holds from the first row.
func (e *Engine) CreateAccount(ctx context.Context, actor authctx.Identity, name string, roles []string) (domain.Account, error) {
	ctx, span := e.tracer.Start(ctx, "engine.CreateAccount")
	defer span.End()

	if !actor.Valid() {
		return domain.Account{}, spanErr(span,
			apperrors.New(apperrors.CodePermissionDenied, "caller identity is incomplete"))
	}
	if !actor.HasRole(string(domain.RoleParent)) && !actor.HasRole(string(domain.RoleAdmin)) {
		return domain.Account{}, spanErr(span,
			apperrors.New(apperrors.CodePermissionDenied, "only parents may create accounts"))
	}

	parsed := make([]domain.Role, 0, len(roles))
	for _, raw := range roles {
		role, err := domain.ParseRole(raw)
		if err != nil {
			return domain.Account{}, spanErr(span, err)
		}
		parsed = append(parsed, role)
	}
	if len(parsed) == 0 {
		parsed = append(parsed, domain.RoleChild)
	}

	account := domain.Account{
		Name:      strings.TrimSpace(name),
		FamilyID:  actor.FamilyID,
		Roles:     parsed,
		CreatedAt: e.now(),
	}
	if err := account.Validate(); err != nil {
		return domain.Account{}, spanErr(span, err)
	}

	var startingCapital int64
	cfg, err := e.store.GetFamilyConfig(ctx, actor.FamilyID)
	switch {
	case err == nil:
		startingCapital = cfg.StartingCapital
	case errors.Is(err, storage.ErrNotFound):
		// no config yet, open with a zero balance
	default:
		return domain.Account{}, spanErr(span, err)
	}

	created, err := e.store.CreateAccount(ctx, account, startingCapital)
	if err != nil {
		return domain.Account{}, spanErr(span, err)
	}
	return created, nil
}

// GetAccount loads a single account, subject to the actor/target rule.
func (e *Engine) GetAccount(ctx context.Context, actor authctx.Identity, accountID string) (domain.Account, error) {
	ctx, span := e.tracer.Start(ctx, "engine.GetAccount")
	defer span.End()

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		accountID = actor.AccountID
	}
	if err := e.authorize(ctx, actor, accountID); err != nil {
		return domain.Account{}, spanErr(span, err)
	}
	account, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = apperrors.Wrap(apperrors.CodeNotFound, "account not found", err)
		}
		return domain.Account{}, spanErr(span, err)
	}
	return account, nil
}

// ListChildAccounts returns the CHILD accounts of the actor's family. Only
// PARENT or ADMIN actors may enumerate them.
func (e *Engine) ListChildAccounts(ctx context.Context, actor authctx.Identity) ([]domain.Account, error) {
	ctx, span := e.tracer.Start(ctx, "engine.ListChildAccounts")
	defer span.End()

	if !actor.Valid() {
		return nil, spanErr(span,
			apperrors.New(apperrors.CodePermissionDenied, "caller identity is incomplete"))
	}
	if !actor.HasRole(string(domain.RoleParent)) && !actor.HasRole(string(domain.RoleAdmin)) {
		return nil, spanErr(span,
			apperrors.New(apperrors.CodePermissionDenied, "only parents may list child accounts"))
	}
	accounts, err := e.store.ListChildAccounts(ctx, actor.FamilyID)
	if err != nil {
		return nil, spanErr(span, err)
	}
	return accounts, nil
}

// FamilyConfig returns the actor's family configuration. Any family member
// may read it.
func (e *Engine) FamilyConfig(ctx context.Context, actor authctx.Identity) (domain.FamilyConfig, error) {
	ctx, span := e.tracer.Start(ctx, "engine.FamilyConfig")
	defer span.End()

	if !actor.Valid() {
		return domain.FamilyConfig{}, spanErr(span,
			apperrors.New(apperrors.CodePermissionDenied, "caller identity is incomplete"))
	}
	cfg, err := e.store.GetFamilyConfig(ctx, actor.FamilyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = apperrors.Wrap(apperrors.CodeNotFound, "family config not found", err)
		}
		return domain.FamilyConfig{}, spanErr(span, err)
	}
	return cfg, nil
}

// PutFamilyConfig validates and upserts the actor's family configuration.
// Only PARENT or ADMIN actors may change it.
func (e *Engine) PutFamilyConfig(ctx context.Context, actor authctx.Identity, cfg domain.FamilyConfig) (domain.FamilyConfig, error) {
	ctx, span := e.tracer.Start(ctx, "engine.PutFamilyConfig")
	defer span.End()

	if !actor.Valid() {
		return domain.FamilyConfig{}, spanErr(span,
			apperrors.New(apperrors.CodePermissionDenied, "caller identity is incomplete"))
	}
	if !actor.HasRole(string(domain.RoleParent)) && !actor.HasRole(string(domain.RoleAdmin)) {
		return domain.FamilyConfig{}, spanErr(span,
			apperrors.New(apperrors.CodePermissionDenied, "only parents may change family config"))
	}

	cfg.FamilyID = actor.FamilyID
	if err := cfg.Validate(); err != nil {
		return domain.FamilyConfig{}, spanErr(span, err)
	}
	if err := e.store.PutFamilyConfig(ctx, cfg); err != nil {
		return domain.FamilyConfig{}, spanErr(span, err)
	}
	return cfg, nil
}
