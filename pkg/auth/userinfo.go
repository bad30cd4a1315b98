package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// EmailResolver resolves the caller's email address out-of-band when the
// bearer token carries no email claim.
type EmailResolver interface {
	// Email returns the email for the access token's identity, or ""
	// when it cannot be resolved. Resolution failures are not errors:
	// a user row may be created with an empty email.
	Email(ctx context.Context, accessToken string) string
}

// UserInfoClient resolves emails via the identity provider's userinfo
// endpoint, authenticating with the caller's own access token.
type UserInfoClient struct {
	provider *oidc.Provider
}

// NewUserInfoClient discovers the identity provider's endpoints from the
// issuer URL.
func NewUserInfoClient(ctx context.Context, issuerURL string) (*UserInfoClient, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover identity provider: %w", err)
	}
	return &UserInfoClient{provider: provider}, nil
}

// Email implements EmailResolver.
func (c *UserInfoClient) Email(ctx context.Context, accessToken string) string {
	if accessToken == "" {
		return ""
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	info, err := c.provider.UserInfo(ctx, source)
	if err != nil {
		return ""
	}
	return info.Email
}
