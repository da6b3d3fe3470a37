package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateKey is returned when an insert hits a unique constraint.
// Services translate it into a domain validation error so callers never
// see a raw integrity-constraint failure.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrDuplicateEmail is the users-table special case: the email unique
// index fired rather than the username one, so the service can report
// the right field.
var ErrDuplicateEmail = errors.New("duplicate email")

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// violatedConstraint returns the name of the unique constraint that a
// 23505 error reports, or "" when the error is not a unique violation.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName
	}
	return ""
}
