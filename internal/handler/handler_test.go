package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"industrain/internal/catalog"
	"industrain/internal/course"
	"industrain/internal/enrollment"
	"industrain/internal/middleware"
	"industrain/internal/profile"

	"github.com/DATA-DOG/go-sqlmock"
)

const testClerkID = "user_2abcDEF123"

var (
	courseColumns = []string{
		"id", "title", "company_name", "duration", "price", "rating", "student_count",
		"location", "description", "tags", "image_url", "instructor_id",
		"created_at", "updated_at",
	}
	profileColumns = []string{"id", "clerk_id", "email", "full_name", "avatar_url", "role", "created_at", "updated_at"}
)

// testEnv wires every manager to a single sqlmock connection.
type testEnv struct {
	deps *Deps
	mock sqlmock.Sqlmock
}

func setupHandlerTest(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	courses := course.NewManager(course.NewDatastore(db), nil, nil)
	return &testEnv{
		deps: &Deps{
			Catalog:     cat,
			Courses:     courses,
			Resolver:    course.NewResolver(courses, nil),
			Profiles:    profile.NewManager(profile.NewDatastore(db), nil),
			Enrollments: enrollment.NewManager(enrollment.NewDatastore(db), nil),
		},
		mock: mock,
	}
}

func (e *testEnv) verifyExpectations(t *testing.T) {
	t.Helper()
	if err := e.mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func testIdentity() profile.Identity {
	return profile.Identity{
		ClerkID:   testClerkID,
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		ImageURL:  "https://img.clerk.com/jane.png",
	}
}

// authedRequest builds a request carrying the identity RequireAuth would attach.
func authedRequest(method, target string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	return req.WithContext(middleware.WithIdentity(context.Background(), testIdentity()))
}

func courseRow(rows *sqlmock.Rows, id, title string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, title, "Siemens India", "8 weeks", "24999.00", "4.8", 1250,
		"Pune, Maharashtra", "Hands-on training", `["PLC"]`, "/img/plc.jpg", nil, now, now)
}

func profileRow(name, avatar string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(profileColumns).AddRow(
		profile.DeriveID(testClerkID).String(), testClerkID, "jane@example.com", name, avatar, "student", now, now)
}

func (e *testEnv) expectProfile(name, avatar string) {
	e.mock.ExpectQuery(`SELECT .+ FROM profiles WHERE id = \$1`).
		WithArgs(profile.DeriveID(testClerkID)).
		WillReturnRows(profileRow(name, avatar))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}
