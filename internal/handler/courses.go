package handler

import (
	"net/http"
	"strconv"
	"strings"

	"industrain/internal/catalog"
	"industrain/internal/course"
	"industrain/internal/logger"
)

// CoursesHandler serves persisted course lookups and static title
// resolution.
type CoursesHandler struct {
	courses  *course.Manager
	resolver *course.Resolver
	catalog  *catalog.Catalog
	log      *logger.Logger
}

func NewCoursesHandler(courses *course.Manager, resolver *course.Resolver, c *catalog.Catalog, log *logger.Logger) *CoursesHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CoursesHandler{courses: courses, resolver: resolver, catalog: c, log: log}
}

// Lookup handles GET /api/v1/courses
//
// ?id= returns one course, ?search= a title search, otherwise a listing.
func (h *CoursesHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := queryInt(r, "limit", course.DefaultListLimit)

	if q.Has("id") {
		c, err := h.courses.Get(r.Context(), q.Get("id"))
		if err != nil {
			writeError(w, h.log, "get course", err)
			return
		}
		writeJSON(w, http.StatusOK, c)
		return
	}

	var (
		courses []*course.Course
		err     error
	)
	if term := strings.TrimSpace(q.Get("search")); term != "" {
		courses, err = h.courses.Search(r.Context(), term, limit)
	} else {
		courses, err = h.courses.List(r.Context(), limit)
	}
	if err != nil {
		writeError(w, h.log, "list courses", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"courses": courses,
		"count":   len(courses),
	})
}

// resolveResponse is the resolution body. CourseID is set only for a
// single match.
type resolveResponse struct {
	*course.Resolution
	CourseID string `json:"courseId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Resolve handles GET /api/v1/courses/resolve
//
// Accepts ?title= or ?catalogId=. Responds 200 when exactly one persisted
// course matches, 404 when none does and 409 when several do.
func (h *CoursesHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	title, ok := h.resolveTitle(w, r)
	if !ok {
		return
	}

	res, err := h.resolver.Resolve(r.Context(), title)
	if err != nil {
		writeError(w, h.log, "resolve course", err)
		return
	}

	resp := resolveResponse{Resolution: res}
	status := http.StatusOK
	switch res.Outcome {
	case course.Found:
		resp.CourseID = res.Course.ID
	case course.Ambiguous:
		status = http.StatusConflict
		resp.Message = "several courses match this title"
	default:
		status = http.StatusNotFound
		resp.Message = "course not available for enrollment yet"
	}
	writeJSON(w, status, resp)
}

func (h *CoursesHandler) resolveTitle(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := r.URL.Query()
	if title := strings.TrimSpace(q.Get("title")); title != "" {
		return title, true
	}

	raw := strings.TrimSpace(q.Get("catalogId"))
	if raw == "" {
		writeBadRequest(w, "title or catalogId is required")
		return "", false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid catalog course ID")
		return "", false
	}
	if h.catalog == nil {
		writeBadRequest(w, "catalog lookups are not available")
		return "", false
	}
	c, found := h.catalog.Course(id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "catalog course not found", "code": "not_found"})
		return "", false
	}
	return c.Title, true
}
