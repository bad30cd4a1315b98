package api

import "context"

// Store is the persistence boundary for the API. Implementations signal
// expected outcomes with the sentinel errors in pkg/storage: ErrNotFound
// for absent rows, ErrDuplicate for uniqueness conflicts surfaced to the
// caller, ErrLocationInUse for guarded location deletion. Anything else
// is an internal failure.
type Store interface {
	// EnsureUser resolves the local user for an external subject,
	// creating the row on first sight. Concurrent first-contacts for
	// the same subject all succeed: the store's uniqueness constraint
	// on the external id is the final authority, and a duplicate-key
	// conflict means another request already created the row. The bool
	// reports whether this call created the row.
	EnsureUser(ctx context.Context, subject, email string) (*User, bool, error)
	GetUserBySubject(ctx context.Context, subject string) (*User, error)
	UpdateUserProfile(ctx context.Context, subject, firstName, lastName string) error
	CountUserRegistrations(ctx context.Context, userID int64) (int, error)

	ListEvents(ctx context.Context) ([]*Event, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id int64) error

	ListLocations(ctx context.Context) ([]*Location, error)
	CreateLocation(ctx context.Context, location *Location) error
	// DeleteLocation refuses to orphan events: deleting a location that
	// events still reference returns ErrLocationInUse.
	DeleteLocation(ctx context.Context, id int64) error

	ListRegistrationsBySubject(ctx context.Context, subject string) ([]*MyRegistration, error)
	ListRegistrationsByEvent(ctx context.Context, eventID int64) ([]*RegistrationDetail, error)
	IsRegistered(ctx context.Context, eventID, userID int64) (bool, error)
	// CreateRegistration inserts and returns ErrDuplicate when the
	// (event, user) pair is already registered, whether detected by the
	// advisory pre-check or by the store constraint under concurrency.
	CreateRegistration(ctx context.Context, reg *Registration) error
	// GetRegistration populates OwnerSubject for ownership checks.
	GetRegistration(ctx context.Context, id int64) (*Registration, error)
	DeleteRegistration(ctx context.Context, id int64) error
	DeleteRegistrationForUser(ctx context.Context, eventID, userID int64) error

	ListEventFeedback(ctx context.Context, eventID int64) ([]*FeedbackRow, error)
	CreateFeedback(ctx context.Context, fb *Feedback) error

	ListGroups(ctx context.Context) ([]*Group, error)
	GetGroup(ctx context.Context, id int64) (*Group, error)
	CreateGroup(ctx context.Context, group *Group) error
	UpdateGroup(ctx context.Context, group *Group) error
	DeleteGroup(ctx context.Context, id int64) error

	ListGroupMembers(ctx context.Context, groupID int64) ([]*User, error)
	ListUserGroups(ctx context.Context, userID int64) ([]*Group, error)
	AddGroupMember(ctx context.Context, groupID, userID int64) error
	RemoveGroupMember(ctx context.Context, groupID, userID int64) error
	// ToggleGroupAdmin flips the membership's admin flag and returns
	// the new value.
	ToggleGroupAdmin(ctx context.Context, groupID, userID int64) (bool, error)
}
