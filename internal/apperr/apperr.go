// Package apperr defines the failure taxonomy shared by every component and
// the translation of raw storage errors into it.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure.
type Kind string

const (
	Validation Kind = "validation"
	NotFound   Kind = "not_found"
	Conflict   Kind = "conflict"
	Permission Kind = "permission_denied"
	Constraint Kind = "constraint_violation"
	Config     Kind = "configuration"
	Transient  Kind = "transient"
	Internal   Kind = "internal"
)

// Error is the canonical error carried across component boundaries.
// Message is safe to show to callers; Details and Code carry the raw
// diagnostic from the underlying failure when there is one.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Code    string
	Details string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind without an underlying cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap annotates err with a kind and caller-facing message.
func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// As extracts the *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or Internal when err carries none.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// Retryable reports whether the caller may retry the same operation.
func Retryable(err error) bool {
	switch KindOf(err) {
	case Conflict, Transient:
		return true
	default:
		return false
	}
}

// HTTPStatus maps a kind to the response status used by the HTTP layer.
func HTTPStatus(kind Kind) int {
	switch kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Permission:
		return http.StatusForbidden
	case Constraint:
		return http.StatusUnprocessableEntity
	case Transient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicCode returns the code reported to callers: the storage code when
// known, otherwise the kind.
func (e *Error) PublicCode() string {
	if strings.TrimSpace(e.Code) != "" {
		return e.Code
	}
	return string(e.Kind)
}
