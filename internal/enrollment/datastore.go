package enrollment

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for enrollments.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new enrollment datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

// Insert records an enrollment. The (profile_id, course_id) unique
// constraint rejects duplicates, including concurrent ones.
func (ds *Datastore) Insert(ctx context.Context, e *Enrollment) error {
	e.ID = uuid.New()
	if e.Status == "" {
		e.Status = StatusActive
	}

	query := `
		INSERT INTO enrollments (id, profile_id, course_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING enrolled_at`

	return ds.db.QueryRowContext(ctx, query,
		e.ID, e.ProfileID, e.CourseID, e.Status, time.Now(),
	).Scan(&e.EnrolledAt)
}

// CourseExists checks whether a persisted course with the given ID exists.
func (ds *Datastore) CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`
	var exists bool
	err := ds.db.QueryRowContext(ctx, query, courseID).Scan(&exists)
	return exists, err
}

// ListByProfile retrieves a profile's enrollments, newest first.
func (ds *Datastore) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*Enrollment, error) {
	query := `
		SELECT e.id, e.profile_id, e.course_id, e.status, e.enrolled_at, c.title
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.profile_id = $1
		ORDER BY e.enrolled_at DESC`

	rows, err := ds.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*Enrollment
	for rows.Next() {
		e := &Enrollment{}
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.CourseID, &e.Status, &e.EnrolledAt, &e.CourseTitle); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
