package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"industrain/internal/apperr"
	"industrain/internal/auth"
	"industrain/internal/logger"
	"industrain/internal/middleware"
	"industrain/internal/profile"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	profiles *profile.Manager
	log      *logger.Logger
}

func NewProfileHandler(profiles *profile.Manager, log *logger.Logger) *ProfileHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileHandler{profiles: profiles, log: log}
}

type profileResponse struct {
	Profile *profile.Profile `json:"profile"`
	Created bool             `json:"created,omitempty"`
	Changed bool             `json:"changed"`
	Fields  []string         `json:"fields,omitempty"`
	Message string           `json:"message,omitempty"`
}

func toProfileResponse(res *profile.SyncResult) profileResponse {
	resp := profileResponse{
		Profile: res.Profile,
		Created: res.Created,
		Changed: res.Changed,
		Fields:  res.Fields,
	}
	if !res.Changed {
		resp.Message = "No changes to update"
	}
	return resp
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		auth.WriteUnauthorized(w)
		return
	}

	p, err := h.profiles.Get(r.Context(), identity.ClerkID)
	if err != nil {
		writeError(w, h.log, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": p})
}

// Sync handles POST /api/v1/profile/sync
//
// Called after sign-in; creates the profile on first login and backfills
// blank fields from the session claims afterwards.
func (h *ProfileHandler) Sync(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		auth.WriteUnauthorized(w)
		return
	}

	res, err := h.profiles.Sync(r.Context(), identity, profile.UpdateFields{})
	if err != nil {
		writeError(w, h.log, "sync profile", err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toProfileResponse(res))
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		auth.WriteUnauthorized(w)
		return
	}

	var fields profile.UpdateFields
	if err := decodeBody(r, &fields); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if fields.IsEmpty() {
		p, err := h.profiles.Get(r.Context(), identity.ClerkID)
		if err == nil {
			writeJSON(w, http.StatusOK, toProfileResponse(&profile.SyncResult{Profile: p}))
			return
		}
		// a caller without a row gets one, same as the non-empty path
		if !apperr.IsKind(err, apperr.NotFound) {
			writeError(w, h.log, "get profile", err)
			return
		}
	}

	res, err := h.profiles.Sync(r.Context(), identity, fields)
	if err != nil {
		writeError(w, h.log, "update profile", err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toProfileResponse(res))
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
