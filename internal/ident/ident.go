// Package ident validates the opaque record identifiers used by persisted
// courses, profiles and enrollments.
package ident

import (
	"fmt"
	"regexp"
	"strings"

	"industrain/internal/apperr"

	"github.com/google/uuid"
)

// canonical is the 8-4-4-4-12 hex grouping. uuid.Parse alone also accepts
// braced, urn-prefixed and undashed forms, which are rejected here.
var canonical = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Valid reports whether s is a canonically formatted identifier.
// Surrounding whitespace makes s invalid.
func Valid(s string) bool {
	return canonical.MatchString(s)
}

// Parse trims surrounding whitespace and parses s as an identifier.
// The returned error is a validation error that names the received value.
func Parse(s string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(s)
	if !Valid(trimmed) {
		return uuid.Nil, invalid(s)
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, invalid(s)
	}
	return id, nil
}

func invalid(s string) error {
	return &apperr.Error{
		Kind:    apperr.Validation,
		Op:      "ident.Parse",
		Message: fmt.Sprintf("invalid identifier format: expected UUID, received %q", s),
		Code:    "invalid_id",
	}
}
