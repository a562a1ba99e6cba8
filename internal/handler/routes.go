package handler

import (
	"net/http"

	"industrain/internal/catalog"
	"industrain/internal/config"
	"industrain/internal/course"
	"industrain/internal/enrollment"
	"industrain/internal/logger"
	"industrain/internal/middleware"
	"industrain/internal/profile"
)

// Deps holds the dependencies the HTTP handlers need.
type Deps struct {
	Config      *config.Config
	DB          Pinger
	Catalog     *catalog.Catalog
	Courses     *course.Manager
	Resolver    *course.Resolver
	Profiles    *profile.Manager
	Enrollments *enrollment.Manager
	Verifier    middleware.TokenVerifier
	Logger      *logger.Logger
}

// RegisterRoutes registers all HTTP routes with the provided mux.
func RegisterRoutes(mux *http.ServeMux, deps *Deps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	// Health and status endpoints (no auth required)
	health := NewHealthHandler(deps.DB, log)
	mux.HandleFunc("GET /health", health.Check)
	mux.HandleFunc("GET /api/v1/status", statusHandler(deps.Config))

	if deps.Catalog != nil {
		cat := NewCatalogHandler(deps.Catalog)
		mux.HandleFunc("GET /api/v1/catalog/courses", cat.Courses)
		mux.HandleFunc("GET /api/v1/catalog/courses/{id}", cat.Course)
		mux.HandleFunc("GET /api/v1/catalog/partners", cat.Partners)
		mux.HandleFunc("GET /api/v1/catalog/stats", cat.Stats)
	}

	if deps.Courses != nil {
		resolver := deps.Resolver
		if resolver == nil {
			resolver = course.NewResolver(deps.Courses, log)
		}
		courses := NewCoursesHandler(deps.Courses, resolver, deps.Catalog, log)
		mux.HandleFunc("GET /api/v1/courses", courses.Lookup)
		mux.HandleFunc("GET /api/v1/courses/resolve", courses.Resolve)
	}

	requireAuth := middleware.RequireAuth(deps.Verifier, log)

	if deps.Profiles != nil {
		profiles := NewProfileHandler(deps.Profiles, log)
		mux.Handle("GET /api/v1/profile", requireAuth(http.HandlerFunc(profiles.Get)))
		mux.Handle("PUT /api/v1/profile", requireAuth(http.HandlerFunc(profiles.Update)))
		mux.Handle("POST /api/v1/profile/sync", requireAuth(http.HandlerFunc(profiles.Sync)))
	}

	if deps.Enrollments != nil && deps.Profiles != nil {
		enrollments := NewEnrollmentsHandler(deps.Enrollments, deps.Profiles, log)
		mux.Handle("POST /api/v1/enroll", requireAuth(http.HandlerFunc(enrollments.Enroll)))
		mux.Handle("GET /api/v1/enrollments", requireAuth(http.HandlerFunc(enrollments.List)))
	}
}

// NewRouter builds the complete HTTP handler: routes wrapped in panic
// recovery and request logging.
func NewRouter(deps *Deps) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, deps)

	var h http.Handler = mux
	h = middleware.Recover(deps.Logger)(h)
	h = middleware.RequestLogger(deps.Logger)(h)
	return h
}
