package apperr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the taxonomy distinguishes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInsufficientPriv    = "42501"
	pgSerialization       = "40001"
	pgDeadlock            = "40P01"
	pgLockNotAvailable    = "55P03"
)

// FromStorage classifies a raw storage failure. Errors that already carry a
// kind pass through unchanged.
func FromStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Wrap(NotFound, op, "record not found", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, driver.ErrBadConn):
		return transient(op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped := fromPgError(op, pgErr, err); mapped != nil {
			return mapped
		}
	}

	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return transient(op, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "row-level security"):
		return permission(op, "", err.Error(), err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporar"):
		return transient(op, err)
	}

	return &Error{Kind: Internal, Op: op, Message: "internal storage error", Details: err.Error(), Err: err}
}

func fromPgError(op string, pgErr *pgconn.PgError, err error) error {
	code := strings.TrimSpace(pgErr.Code)
	switch code {
	case pgUniqueViolation:
		return &Error{
			Kind:    Conflict,
			Op:      op,
			Message: "conflicting update, please try again",
			Code:    code,
			Details: pgErr.Message,
			Err:     err,
		}
	case pgForeignKeyViolation:
		return &Error{
			Kind:    Constraint,
			Op:      op,
			Message: "database constraint violation",
			Code:    code,
			Details: pgErr.Message,
			Hint:    "please contact support",
			Err:     err,
		}
	case pgInsufficientPriv:
		return permission(op, code, pgErr.Message, err)
	case pgSerialization, pgDeadlock, pgLockNotAvailable:
		return &Error{Kind: Transient, Op: op, Message: "temporarily unavailable", Code: code, Details: pgErr.Message, Err: err}
	}

	// connection exceptions, insufficient resources, operator intervention
	if strings.HasPrefix(code, "08") || strings.HasPrefix(code, "53") || strings.HasPrefix(code, "57P") {
		return &Error{Kind: Transient, Op: op, Message: "temporarily unavailable", Code: code, Details: pgErr.Message, Err: err}
	}

	if strings.Contains(strings.ToLower(pgErr.Message), "row-level security") {
		return permission(op, code, pgErr.Message, err)
	}
	return nil
}

func transient(op string, err error) error {
	return &Error{Kind: Transient, Op: op, Message: "temporarily unavailable", Details: err.Error(), Err: err}
}

func permission(op, code, details string, err error) error {
	return &Error{
		Kind:    Permission,
		Op:      op,
		Message: "permission denied",
		Code:    code,
		Details: details,
		Hint:    "an access policy may be blocking this operation; please contact support",
		Err:     err,
	}
}
