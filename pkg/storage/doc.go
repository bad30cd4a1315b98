// Package storage defines the store configuration and the sentinel
// errors shared by store implementations and their callers.
//
// The backing store is the only shared mutable resource in the system.
// Its declared uniqueness constraints, users.external_id and
// (event_id, user_id) on registrations, are the only durable
// guarantees; application-level existence checks are advisory.
//
// Implementations live in subpackages (see storage/postgres).
package storage
