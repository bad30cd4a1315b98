package storage

import "errors"

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a uniqueness conflict the caller must see
	// (duplicate registration, duplicate group membership). Idempotent
	// user creation swallows its conflict instead of returning this.
	ErrDuplicate = errors.New("already exists")

	// ErrLocationInUse indicates a location still referenced by events.
	ErrLocationInUse = errors.New("location is referenced by events")
)
