package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories care about.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgAdminShutdown        = "57P01"
)

// IsUniqueViolation reports whether err was raised by a unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsForeignKeyViolation reports whether err was raised by a foreign key.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// IsTransient reports whether err is an infrastructure failure that a caller
// may retry: timeouts, dropped connections, serialization conflicts.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgSerializationFailure, pgErr.Code == pgDeadlockDetected, pgErr.Code == pgAdminShutdown:
			return true
		case len(pgErr.Code) == 5 && pgErr.Code[:2] == "08":
			return true
		}
	}
	return false
}

// Classify converts a raw driver error into the repository error vocabulary.
// Unique violations become common.ErrorAlreadyExists, foreign key
// violations common.ErrorReferenced, and retryable failures
// become common.ErrorTransient; anything else is wrapped as a db error.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", common.ErrorAlreadyExists, err)
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", common.ErrorReferenced, err)
	case IsTransient(err):
		return fmt.Errorf("%w: %v", common.ErrorTransient, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
