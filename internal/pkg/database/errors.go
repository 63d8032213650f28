package database

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes the repositories care about.
const (
	SQLStateUniqueViolation      = "23505"
	SQLStateForeignKeyViolation  = "23503"
	SQLStateExclusionViolation   = "23P01"
	SQLStateSerializationFailure = "40001"
	SQLStateDeadlockDetected     = "40P01"
)

// PQError unwraps err into a *pq.Error, or nil.
func PQError(err error) *pq.Error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr
	}
	return nil
}

func hasCode(err error, code string) bool {
	pqErr := PQError(err)
	return pqErr != nil && string(pqErr.Code) == code
}

// IsUniqueViolation reports a unique violation. When constraints are given,
// the violated constraint must be one of them.
func IsUniqueViolation(err error, constraints ...string) bool {
	if !hasCode(err, SQLStateUniqueViolation) {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	name := PQError(err).Constraint
	for _, c := range constraints {
		if c == name {
			return true
		}
	}
	return false
}

// IsExclusionViolation reports an EXCLUDE constraint violation.
func IsExclusionViolation(err error) bool {
	return hasCode(err, SQLStateExclusionViolation)
}

// IsForeignKeyViolation reports a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, SQLStateForeignKeyViolation)
}

// IsSerializationFailure reports errors after which a serializable
// transaction should be retried.
func IsSerializationFailure(err error) bool {
	return hasCode(err, SQLStateSerializationFailure) || hasCode(err, SQLStateDeadlockDetected)
}
