// Package auth provides request authentication helpers and the JSON error
// envelope shared by every endpoint.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"industrain/internal/apperr"
)

// Sentinel errors for token extraction failures.
// These can be used for debugging/logging but should NOT be exposed in responses.
var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthScheme = errors.New("invalid authorization scheme: expected Bearer")
	ErrEmptyToken        = errors.New("empty bearer token")
)

// ExtractBearerToken extracts the token from an "Authorization: Bearer <token>" header.
// Returns an error if the header is missing, uses wrong scheme, or token is empty.
// Does not log anything.
func ExtractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", ErrInvalidAuthScheme
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// APIError is the error body returned by every endpoint.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// WriteJSONError writes a JSON error response.
// Response format: {"error": "<message>", "code": "<code>"}
func WriteJSONError(w http.ResponseWriter, status int, message, code string) {
	writeAPIError(w, status, APIError{Error: message, Code: code})
}

// WriteUnauthorized writes a 401 Unauthorized JSON response.
// Use when the Authorization header is missing or malformed.
func WriteUnauthorized(w http.ResponseWriter) {
	WriteJSONError(w, http.StatusUnauthorized, "unauthorized", "unauthenticated")
}

// WriteForbidden writes a 403 Forbidden JSON response.
// Use when the session token fails verification.
func WriteForbidden(w http.ResponseWriter) {
	WriteJSONError(w, http.StatusForbidden, "forbidden", "invalid_token")
}

// WriteAppError writes err using its taxonomy status and public fields.
// Errors outside the taxonomy are reported as a generic internal error.
func WriteAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "internal error", string(apperr.Internal))
		return
	}

	message := appErr.Message
	if message == "" {
		message = http.StatusText(apperr.HTTPStatus(appErr.Kind))
	}
	writeAPIError(w, apperr.HTTPStatus(appErr.Kind), APIError{
		Error:   message,
		Code:    appErr.PublicCode(),
		Details: appErr.Details,
		Hint:    appErr.Hint,
	})
}

func writeAPIError(w http.ResponseWriter, status int, body APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent, nothing useful to do on failure
	_ = json.NewEncoder(w).Encode(body)
}
