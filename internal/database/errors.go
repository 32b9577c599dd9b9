package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrTransient marks storage failures that happened before the server could
// have applied anything, so the operation may be repeated.
var ErrTransient = errors.New("transient storage failure")

const uniqueViolation = "23505"

// Classify wraps err with op and tags it with ErrTransient when the driver
// reports that the statement never reached the server or that pgconn itself
// timed out. Caller cancellation and deadlines are never transient.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// IsTransient reports whether err was classified as retryable.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	return false
}
