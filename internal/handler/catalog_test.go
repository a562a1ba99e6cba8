package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCatalogHandler_Courses(t *testing.T) {
	env := setupHandlerTest(t)
	h := NewCatalogHandler(env.deps.Catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/courses?search=plc&location=All+Locations", nil)
	rec := httptest.NewRecorder()

	h.Courses(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["count"].(float64) < 1 {
		t.Errorf("expected PLC course in results, got %v", resp["courses"])
	}
	if len(resp["locations"].([]any)) == 0 {
		t.Error("expected locations for the filter UI")
	}
}

func TestCatalogHandler_Course(t *testing.T) {
	env := setupHandlerTest(t)
	h := NewCatalogHandler(env.deps.Catalog)

	tests := []struct {
		id         string
		wantStatus int
	}{
		{"1", http.StatusOK},
		{"999", http.StatusNotFound},
		{"abc", http.StatusBadRequest},
		{"0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/courses/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()

			h.Course(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestCatalogHandler_PartnersAndStats(t *testing.T) {
	env := setupHandlerTest(t)
	h := NewCatalogHandler(env.deps.Catalog)

	rec := httptest.NewRecorder()
	h.Partners(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/partners?industry=Robotics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp["count"].(float64) != 1 {
		t.Errorf("expected one robotics partner, got %v", resp["partners"])
	}

	rec = httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/stats", nil))
	if resp := decode(t, rec); resp["totalCourses"].(float64) == 0 {
		t.Errorf("expected non-zero totals, got %v", resp)
	}
}
