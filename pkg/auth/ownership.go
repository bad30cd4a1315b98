package auth

// OwnerOrAdmin reports whether the caller may act on a resource owned by
// the user identified by ownerSubject. The caller qualifies either as the
// owner (matching subject) or by holding the administrative override
// permission.
func OwnerOrAdmin(ownerSubject string, claims *Claims) bool {
	if claims == nil {
		return false
	}
	if ownerSubject != "" && claims.Subject == ownerSubject {
		return true
	}
	return claims.HasPermission(AdminOverridePermission)
}
