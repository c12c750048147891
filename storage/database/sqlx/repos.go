// Package sqlxrepos implements the domain repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// pq unique_violation
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
