// Package domain defines the ledger's core types: accounts, transactions,
// family interest configuration, and interest audit records.
package domain

import (
	"strings"
	"time"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
)

// Role describes what an account holder may do within a family.
type Role string

const (
	RoleParent Role = "PARENT"
	RoleChild  Role = "CHILD"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole validates a role string.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleParent:
		return RoleParent, nil
	case RoleChild:
		return RoleChild, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeAccountInvalidRole,
			"unknown account role", map[string]string{"role": value})
	}
}

// Account is one person (parent or child) with a maintained balance.
// CurrentBalance is denormalized: it always equals the sum of the signed
// amounts of the account's transactions, enforced by the store's atomic
// append.
type Account struct {
	ID               string
	FamilyID         string
	Name             string
	Roles            []Role
	CurrentBalance   int64
	LastInterestDate *time.Time
	CreatedAt        time.Time
}

// HasRole reports whether the account holds the given role.
func (a Account) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsChildOnly reports whether the account holds CHILD and no elevated role.
func (a Account) IsChildOnly() bool {
	return a.HasRole(RoleChild) && !a.HasRole(RoleParent) && !a.HasRole(RoleAdmin)
}

// Validate checks the structural invariants of an account record.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return apperrors.New(apperrors.CodeAccountEmptyName, "account name is required")
	}
	if strings.TrimSpace(a.FamilyID) == "" {
		return apperrors.New(apperrors.CodeAccountEmptyFamily, "account family id is required")
	}
	if len(a.Roles) == 0 {
		return apperrors.New(apperrors.CodeAccountInvalidRole, "account needs at least one role")
	}
	for _, role := range a.Roles {
		if _, err := ParseRole(string(role)); err != nil {
			return err
		}
	}
	return nil
}
