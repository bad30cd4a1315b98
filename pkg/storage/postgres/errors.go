package postgres

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// isUniqueViolation reports whether err is a duplicate-key conflict. The
// store constraint is the final authority on uniqueness; callers decide
// whether the conflict is user-visible (registration, membership) or
// swallowed (idempotent user creation).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	// SQLite, used by the test harness, reports the violated constraint
	// in the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
