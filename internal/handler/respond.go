package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"industrain/internal/apperr"
	"industrain/internal/auth"
	"industrain/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports err through the shared error envelope. Server-side
// failures are logged; client errors are not.
func writeError(w http.ResponseWriter, log *logger.Logger, op string, err error) {
	status := apperr.HTTPStatus(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		log.Error(op+" failed", "error", err)
	}
	auth.WriteAppError(w, err)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	auth.WriteJSONError(w, http.StatusBadRequest, message, string(apperr.Validation))
}

// queryInt parses an optional integer query parameter. Missing or
// malformed values yield def.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
