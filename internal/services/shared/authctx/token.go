package authctx

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
)

// identityTokenEnv holds raw env values before post-parse validation.
type identityTokenEnv struct {
	Issuer    string `env:"SPROUTBANK_IDENTITY_ISSUER"`
	Audience  string `env:"SPROUTBANK_IDENTITY_AUDIENCE"`
	PublicKey string `env:"SPROUTBANK_IDENTITY_PUBLIC_KEY"`
}

// VerifierConfig defines how identity tokens are verified.
type VerifierConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// identityClaims is the internal claims type used for JWT parsing.
type identityClaims struct {
	jwt.RegisteredClaims
	AccountID string   `json:"account_id"`
	FamilyID  string   `json:"family_id"`
	Roles     []string `json:"roles"`
}

// LoadVerifierConfigFromEnv reads identity token verification configuration.
func LoadVerifierConfigFromEnv(now func() time.Time) (VerifierConfig, error) {
	var raw identityTokenEnv
	if err := env.Parse(&raw); err != nil {
		return VerifierConfig{}, fmt.Errorf("parse identity env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return VerifierConfig{}, fmt.Errorf("SPROUTBANK_IDENTITY_ISSUER is required")
	}
	if audience == "" {
		return VerifierConfig{}, fmt.Errorf("SPROUTBANK_IDENTITY_AUDIENCE is required")
	}
	if publicKey == "" {
		return VerifierConfig{}, fmt.Errorf("SPROUTBANK_IDENTITY_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return VerifierConfig{}, fmt.Errorf("decode identity public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return VerifierConfig{}, fmt.Errorf("identity public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return VerifierConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// VerifyToken validates an EdDSA identity token and returns the identity
// it asserts. Expiry, issuer, and audience are all enforced.
func VerifyToken(cfg VerifierConfig, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, fmt.Errorf("identity token is required")
	}
	if len(cfg.Key) != ed25519.PublicKeySize {
		return Identity{}, fmt.Errorf("identity verifier is not configured")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)

	var claims identityClaims
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return cfg.Key, nil
	}); err != nil {
		return Identity{}, fmt.Errorf("parse identity token: %w", err)
	}

	identity := Identity{
		AccountID: strings.TrimSpace(claims.AccountID),
		FamilyID:  strings.TrimSpace(claims.FamilyID),
		Roles:     claims.Roles,
	}
	if !identity.Valid() {
		return Identity{}, fmt.Errorf("identity token missing account or family")
	}
	return identity, nil
}

func decodeBase64(value string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(value)
}
