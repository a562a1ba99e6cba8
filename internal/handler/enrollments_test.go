package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"industrain/internal/enrollment"
	"industrain/internal/profile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func newEnrollmentsHandler(env *testEnv) *EnrollmentsHandler {
	return NewEnrollmentsHandler(env.deps.Enrollments, env.deps.Profiles, nil)
}

func (e *testEnv) expectCourseExists(courseID uuid.UUID, exists bool) {
	e.mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM courses WHERE id = \$1\)`).
		WithArgs(courseID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestEnrollmentsHandler_Enroll(t *testing.T) {
	env := setupHandlerTest(t)
	h := newEnrollmentsHandler(env)

	courseID := uuid.New()
	env.expectProfile("Jane Doe", "")
	env.expectCourseExists(courseID, true)
	env.mock.ExpectQuery(`INSERT INTO enrollments`).
		WithArgs(sqlmock.AnyArg(), profile.DeriveID(testClerkID), courseID, enrollment.StatusActive, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"enrolled_at"}).AddRow(time.Now()))

	rec := httptest.NewRecorder()
	h.Enroll(rec, authedRequest(http.MethodPost, "/api/v1/enroll", map[string]string{"courseId": courseID.String()}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	e := decode(t, rec)["enrollment"].(map[string]any)
	if e["course_id"] != courseID.String() || e["status"] != "active" {
		t.Errorf("unexpected enrollment: %v", e)
	}
	env.verifyExpectations(t)
}

func TestEnrollmentsHandler_EnrollCreatesMissingProfile(t *testing.T) {
	env := setupHandlerTest(t)
	h := newEnrollmentsHandler(env)

	courseID := uuid.New()
	now := time.Now()
	env.mock.ExpectQuery(`SELECT .+ FROM profiles WHERE id = \$1`).WillReturnError(sql.ErrNoRows)
	env.mock.ExpectQuery(`SELECT .+ FROM profiles WHERE clerk_id = \$1`).WillReturnError(sql.ErrNoRows)
	env.mock.ExpectQuery(`SELECT .+ FROM profiles WHERE id = \$1`).WillReturnError(sql.ErrNoRows)
	env.mock.ExpectQuery(`SELECT .+ FROM profiles WHERE clerk_id = \$1`).WillReturnError(sql.ErrNoRows)
	env.mock.ExpectQuery(`INSERT INTO profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	env.expectCourseExists(courseID, true)
	env.mock.ExpectQuery(`INSERT INTO enrollments`).
		WillReturnRows(sqlmock.NewRows([]string{"enrolled_at"}).AddRow(now))

	rec := httptest.NewRecorder()
	h.Enroll(rec, authedRequest(http.MethodPost, "/api/v1/enroll", map[string]string{"courseId": courseID.String()}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	env.verifyExpectations(t)
}

func TestEnrollmentsHandler_EnrollErrors(t *testing.T) {
	tests := []struct {
		name       string
		courseID   string
		setup      func(env *testEnv, courseID uuid.UUID)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid course id",
			courseID:   "3",
			setup:      func(*testEnv, uuid.UUID) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_id",
		},
		{
			name:     "unknown course",
			courseID: uuid.NewString(),
			setup: func(env *testEnv, id uuid.UUID) {
				env.expectProfile("Jane Doe", "")
				env.expectCourseExists(id, false)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:     "already enrolled",
			courseID: uuid.NewString(),
			setup: func(env *testEnv, id uuid.UUID) {
				env.expectProfile("Jane Doe", "")
				env.expectCourseExists(id, true)
				env.mock.ExpectQuery(`INSERT INTO enrollments`).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "enrollments_profile_course_key"})
			},
			wantStatus: http.StatusConflict,
			wantCode:   "already_enrolled",
		},
		{
			name:       "missing course id",
			courseID:   "",
			setup:      func(*testEnv, uuid.UUID) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupHandlerTest(t)
			h := newEnrollmentsHandler(env)

			id, _ := uuid.Parse(tt.courseID)
			tt.setup(env, id)

			rec := httptest.NewRecorder()
			h.Enroll(rec, authedRequest(http.MethodPost, "/api/v1/enroll", map[string]string{"courseId": tt.courseID}))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if resp := decode(t, rec); resp["code"] != tt.wantCode {
				t.Errorf("expected code %q, got %v", tt.wantCode, resp["code"])
			}
			env.verifyExpectations(t)
		})
	}
}

func TestEnrollmentsHandler_List(t *testing.T) {
	env := setupHandlerTest(t)
	h := newEnrollmentsHandler(env)

	profileID := profile.DeriveID(testClerkID)
	env.expectProfile("Jane Doe", "")
	env.mock.ExpectQuery(`SELECT .+ FROM enrollments e JOIN courses c`).
		WithArgs(profileID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "course_id", "status", "enrolled_at", "title"}).
			AddRow(uuid.NewString(), profileID.String(), uuid.NewString(), "active", time.Now(), "Industrial Robotics"))

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/v1/enrollments", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp["count"].(float64) != 1 {
		t.Errorf("expected one enrollment, got %v", resp)
	}
}

func TestEnrollmentsHandler_ListWithoutProfile(t *testing.T) {
	env := setupHandlerTest(t)
	h := newEnrollmentsHandler(env)

	env.mock.ExpectQuery(`SELECT .+ FROM profiles WHERE id = \$1`).WillReturnError(sql.ErrNoRows)
	env.mock.ExpectQuery(`SELECT .+ FROM profiles WHERE clerk_id = \$1`).WillReturnError(sql.ErrNoRows)

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/v1/enrollments", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if resp := decode(t, rec); len(resp["enrollments"].([]any)) != 0 {
		t.Errorf("expected empty list, got %v", resp["enrollments"])
	}
}
