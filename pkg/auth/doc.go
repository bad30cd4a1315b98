// Package auth provides the authorization decision layer for the Evento API.
//
// # Overview
//
// Identity arrives as a validated bearer token. This package models the
// caller's claim set, maps named policies to the permission strings the
// identity provider grants, and decides ownership questions for resources
// that belong to a user.
//
// # Key Components
//
// Claims: the authenticated caller
//
//	claims := &auth.Claims{
//		Subject:     "auth0|abc123",
//		Email:       "alice@example.com",
//		Permissions: []string{"read:events", "create:registration:own"},
//	}
//
// Policies: named authorization rules, one per resource x operation
//
//	if !auth.PolicyCreateEvent.Allows(claims) {
//		// 403
//	}
//
// Ownership: owner-or-admin checks for user-owned resources
//
//	if !auth.OwnerOrAdmin(registration.OwnerSubject, claims) {
//		// 403
//	}
//
// UserInfo: resolves the caller's email from the identity provider's
// userinfo endpoint when the token carries no email claim.
package auth
