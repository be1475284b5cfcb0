package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrStatusConflict is returned when a guarded write finds the paper in a
	// different status than the caller loaded.
	ErrStatusConflict = errors.New("paper status changed concurrently")

	ErrDuplicateEmail      = errors.New("account with this email already exists")
	ErrDuplicateCourse     = errors.New("course with this code already exists in the regulation")
	ErrAssignmentHasPaper  = errors.New("a paper already exists for this assignment")
	ErrReferencedRowAbsent = errors.New("referenced record does not exist")
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == "23503"
}
