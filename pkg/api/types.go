package api

import "time"

// Location is a venue that hosts zero or more events. Coordinates are
// stored as given; no range validation is applied.
type Location struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Event belongs to exactly one location.
type Event struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	EventDate   time.Time `json:"event_date"`
	LocationID  int64     `json:"location_id"`
	Location    *Location `json:"location,omitempty"`
}

// User is the local record for an externally-managed identity. Created
// lazily on first authenticated contact.
type User struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
}

// Registration links one user to one event. The (EventID, UserID) pair is
// unique: at most one registration per user per event.
type Registration struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"event_id"`
	UserID       int64     `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`

	// OwnerSubject is the registrant's external identity, populated on
	// reads that feed ownership checks. Never serialized.
	OwnerSubject string `json:"-"`
}

// Feedback is a free-text comment on an event. No uniqueness constraint:
// a user may post any number of entries per event.
type Feedback struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Group is a named collection of users.
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Membership is one user's membership in one group. Keyed by the
// (GroupID, UserID) pair; the admin flag is scoped to the membership and
// independent of the permission system.
type Membership struct {
	UserID   int64     `json:"user_id"`
	GroupID  int64     `json:"group_id"`
	JoinedAt time.Time `json:"joined_at"`
	IsAdmin  bool      `json:"is_admin"`
}

// MyRegistration is the self-scoped registration projection.
type MyRegistration struct {
	ID           int64     `json:"id"`
	EventName    string    `json:"event_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegistrationDetail is the per-event registration projection.
type RegistrationDetail struct {
	ID           int64     `json:"id"`
	UserEmail    string    `json:"user_email"`
	EventName    string    `json:"event_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// FeedbackRow is a feedback entry joined with its author, as read from
// the store. The display name is derived at the API layer.
type FeedbackRow struct {
	Message         string
	CreatedAt       time.Time
	AuthorFirstName string
	AuthorLastName  string
	AuthorEmail     string
}

// FeedbackEntry is the feedback projection returned to clients.
type FeedbackEntry struct {
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// UserProfile is the caller's own profile projection.
type UserProfile struct {
	Email             string `json:"email"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	RegistrationCount int    `json:"registration_count"`
}

// UpdateProfileRequest is the PUT /users/profile body.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PostFeedbackRequest is the POST /events/{eventId}/feedback body.
type PostFeedbackRequest struct {
	Message string `json:"message"`
}
