// Package authctx carries the verified caller identity through request
// contexts. The core trusts this identity verbatim; producing it (OAuth,
// PIN, WebAuthn) is the surrounding platform's job.
package authctx

import (
	"context"
	"strings"
)

// Identity is the verified caller: which account is acting, in which
// family, and with which roles.
type Identity struct {
	AccountID string
	FamilyID  string
	Roles     []string
}

// HasRole reports whether the identity holds the given role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Valid reports whether the identity names an account and family.
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.AccountID) != "" && strings.TrimSpace(i.FamilyID) != ""
}

type contextKey struct{}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// FromContext extracts the identity placed by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || !identity.Valid() {
		return Identity{}, false
	}
	return identity, true
}
