package handler

import (
	"net/http"
	"strconv"

	"industrain/internal/catalog"
)

// CatalogHandler serves the bundled static catalog.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// Courses handles GET /api/v1/catalog/courses
func (h *CatalogHandler) Courses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courses := h.catalog.Courses(catalog.CourseFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Location: q.Get("location"),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"courses":    courses,
		"count":      len(courses),
		"categories": h.catalog.Categories(),
		"locations":  h.catalog.Locations(),
	})
}

// Course handles GET /api/v1/catalog/courses/{id}
func (h *CatalogHandler) Course(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid catalog course ID")
		return
	}
	course, ok := h.catalog.Course(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "course not found", "code": "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// Partners handles GET /api/v1/catalog/partners
func (h *CatalogHandler) Partners(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	partners := h.catalog.Partners(catalog.PartnerFilter{
		Search:   q.Get("search"),
		Industry: q.Get("industry"),
		Location: q.Get("location"),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"partners":   partners,
		"count":      len(partners),
		"industries": h.catalog.Industries(),
	})
}

// Stats handles GET /api/v1/catalog/stats
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Stats())
}
