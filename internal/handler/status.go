package handler

import (
	"net/http"

	"industrain/internal/config"
)

// Version is the service version reported by the status endpoint.
var Version = "0.1.0"

// statusHandler returns an HTTP handler that reports service metadata.
func statusHandler(cfg *config.Config) http.HandlerFunc {
	env := ""
	if cfg != nil {
		env = cfg.Environment
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":     "industrain",
			"version":     Version,
			"environment": env,
			"status":      "operational",
		})
	}
}
