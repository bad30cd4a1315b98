package auth

// Policy is a named authorization rule requiring a specific permission
// claim value. Each resource x operation pair has its own policy so that
// grants can be issued independently (e.g. read events without delete).
type Policy string

const (
	PolicyReadProfile        Policy = "CanReadOwnProfile"
	PolicyUpdateProfile      Policy = "CanUpdateOwnProfile"
	PolicyReadEvents         Policy = "CanReadEvents"
	PolicyCreateEvent        Policy = "CanCreateEvent"
	PolicyUpdateEvents       Policy = "CanUpdateEvents"
	PolicyDeleteEvents       Policy = "CanDeleteEvents"
	PolicyReadLocations      Policy = "CanReadLocations"
	PolicyCreateLocation     Policy = "CanCreateLocations"
	PolicyDeleteLocation     Policy = "CanDeleteLocations"
	PolicyCreateRegistration Policy = "CanCreateRegistration"
	PolicyDeleteRegistration Policy = "CanDeleteRegistration"
	PolicyReadGroups         Policy = "CanReadGroups"
	PolicyCreateGroups       Policy = "CanCreateGroups"
	PolicyUpdateGroups       Policy = "CanUpdateGroups"
	PolicyDeleteGroups       Policy = "CanDeleteGroups"
)

// AdminOverridePermission allows action on resources not owned by the
// caller (registration cancellation by administrators).
const AdminOverridePermission = "read:admin"

// policyPermissions maps each policy to the permission string it requires.
// Kept as a single table so the policy strings are never re-derived ad hoc.
var policyPermissions = map[Policy]string{
	PolicyReadProfile:        "read:profile:own",
	PolicyUpdateProfile:      "update:profile:own",
	PolicyReadEvents:         "read:events",
	PolicyCreateEvent:        "create:event",
	PolicyUpdateEvents:       "update:event:own",
	PolicyDeleteEvents:       "delete:event:own",
	PolicyReadLocations:      "read:locations",
	PolicyCreateLocation:     "create:locations",
	PolicyDeleteLocation:     "delete:locations",
	PolicyCreateRegistration: "create:registration:own",
	PolicyDeleteRegistration: "delete:registration:own",
	PolicyReadGroups:         "read:groups",
	PolicyCreateGroups:       "create:groups",
	PolicyUpdateGroups:       "update:groups",
	PolicyDeleteGroups:       "delete:groups",
}

// Permission returns the permission string the policy requires, or ""
// for an unknown policy.
func (p Policy) Permission() string {
	return policyPermissions[p]
}

// Allows reports whether the claim set satisfies the policy. Unknown
// policies never pass.
func (p Policy) Allows(claims *Claims) bool {
	required, ok := policyPermissions[p]
	if !ok {
		return false
	}
	return claims.HasPermission(required)
}
