package auth

// Claims represents the authenticated caller's identity and grants, as
// extracted from a validated bearer token.
type Claims struct {
	// Subject is the stable external identifier for the identity
	// (the token's "sub" claim, e.g. "auth0|abc123").
	Subject string

	// Email is the caller's email claim, empty when the token has none.
	Email string

	// ID is the alternate identity claim ("id") that some tokens carry
	// in place of a subject.
	ID string

	// Permissions is the multi-valued "permissions" claim.
	Permissions []string

	// RawToken is the bearer token as presented, kept for out-of-band
	// calls to the identity provider (userinfo) on the caller's behalf.
	RawToken string
}

// Identity returns the caller's external identifier. The "sub" claim
// is checked first, then the "id" claim; the empty string means the
// token named no identity at all.
func (c *Claims) Identity() string {
	if c == nil {
		return ""
	}
	if c.Subject != "" {
		return c.Subject
	}
	return c.ID
}

// HasPermission reports whether the claim set contains the exact
// permission string. Presence of one matching value among many suffices.
func (c *Claims) HasPermission(permission string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
