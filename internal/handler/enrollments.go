package handler

import (
	"net/http"

	"industrain/internal/apperr"
	"industrain/internal/auth"
	"industrain/internal/enrollment"
	"industrain/internal/ident"
	"industrain/internal/logger"
	"industrain/internal/middleware"
	"industrain/internal/profile"
)

// EnrollmentsHandler records and lists the caller's enrollments.
type EnrollmentsHandler struct {
	enrollments *enrollment.Manager
	profiles    *profile.Manager
	log         *logger.Logger
}

func NewEnrollmentsHandler(enrollments *enrollment.Manager, profiles *profile.Manager, log *logger.Logger) *EnrollmentsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &EnrollmentsHandler{enrollments: enrollments, profiles: profiles, log: log}
}

type enrollRequest struct {
	CourseID string `json:"courseId"`
}

// Enroll handles POST /api/v1/enroll
func (h *EnrollmentsHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		auth.WriteUnauthorized(w)
		return
	}

	var req enrollRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.CourseID == "" {
		writeBadRequest(w, "courseId is required")
		return
	}
	if _, err := ident.Parse(req.CourseID); err != nil {
		writeError(w, h.log, "enroll", err)
		return
	}

	p, err := h.callerProfile(r, identity)
	if err != nil {
		writeError(w, h.log, "load profile", err)
		return
	}

	e, err := h.enrollments.Enroll(r.Context(), p.ID, req.CourseID)
	if err != nil {
		writeError(w, h.log, "enroll", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"enrollment": e,
		"message":    "Enrolled successfully",
	})
}

// List handles GET /api/v1/enrollments
func (h *EnrollmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		auth.WriteUnauthorized(w)
		return
	}

	p, err := h.profiles.Get(r.Context(), identity.ClerkID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"enrollments": []*enrollment.Enrollment{}, "count": 0})
			return
		}
		writeError(w, h.log, "load profile", err)
		return
	}

	list, err := h.enrollments.ListForProfile(r.Context(), p.ID)
	if err != nil {
		writeError(w, h.log, "list enrollments", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enrollments": list, "count": len(list)})
}

// callerProfile returns the caller's profile, creating it when the client
// enrolls before its first sync.
func (h *EnrollmentsHandler) callerProfile(r *http.Request, identity profile.Identity) (*profile.Profile, error) {
	p, err := h.profiles.Get(r.Context(), identity.ClerkID)
	if err == nil {
		return p, nil
	}
	if !apperr.IsKind(err, apperr.NotFound) {
		return nil, err
	}
	res, err := h.profiles.Sync(r.Context(), identity, profile.UpdateFields{})
	if err != nil {
		return nil, err
	}
	return res.Profile, nil
}
