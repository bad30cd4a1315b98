package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// TokenVerifier validates a raw bearer token and extracts its claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, rawToken string) (*Claims, error)
}

// OIDCVerifier validates JWT access tokens against the identity
// provider's published signing keys.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the provider's keys from the issuer URL and
// configures validation for the given audience.
func NewOIDCVerifier(ctx context.Context, issuerURL, audience string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover identity provider: %w", err)
	}
	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: audience}),
	}, nil
}

// VerifyToken validates signature, issuer, audience and expiry, then
// extracts the identity and permission claims.
func (v *OIDCVerifier) VerifyToken(ctx context.Context, rawToken string) (*Claims, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var payload struct {
		Email       string   `json:"email"`
		ID          string   `json:"id"`
		Permissions []string `json:"permissions"`
	}
	if err := token.Claims(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %w", err)
	}

	return &Claims{
		Subject:     token.Subject,
		Email:       payload.Email,
		ID:          payload.ID,
		Permissions: payload.Permissions,
		RawToken:    rawToken,
	}, nil
}
