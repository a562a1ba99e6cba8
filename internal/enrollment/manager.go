package enrollment

import (
	"context"
	"errors"
	"strings"

	"industrain/internal/apperr"
	"industrain/internal/ident"
	"industrain/internal/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain errors
var (
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrCourseNotFound  = errors.New("course not found")
)

// Manager handles business logic for enrollments.
type Manager struct {
	ds  *Datastore
	log *logger.Logger
}

// NewManager creates a new enrollment manager.
func NewManager(ds *Datastore, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{ds: ds, log: log.With("component", "enrollment")}
}

// Enroll records that profileID has enrolled in the course named by
// rawCourseID. A second enrollment for the same pair fails with
// ErrAlreadyEnrolled.
func (m *Manager) Enroll(ctx context.Context, profileID uuid.UUID, rawCourseID string) (*Enrollment, error) {
	courseID, err := ident.Parse(rawCourseID)
	if err != nil {
		return nil, err
	}

	exists, err := m.ds.CourseExists(ctx, courseID)
	if err != nil {
		return nil, apperr.FromStorage("enrollment.Enroll", err)
	}
	if !exists {
		return nil, courseNotFound()
	}

	e := &Enrollment{ProfileID: profileID, CourseID: courseID}
	if err := m.ds.Insert(ctx, e); err != nil {
		return nil, m.insertError(err)
	}

	m.log.Info("enrollment recorded", "profile_id", profileID, "course_id", courseID)
	return e, nil
}

// ListForProfile returns a profile's enrollments, newest first.
func (m *Manager) ListForProfile(ctx context.Context, profileID uuid.UUID) ([]*Enrollment, error) {
	enrollments, err := m.ds.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, apperr.FromStorage("enrollment.List", err)
	}
	if enrollments == nil {
		enrollments = []*Enrollment{}
	}
	return enrollments, nil
}

func (m *Manager) insertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &apperr.Error{
				Kind:    apperr.Conflict,
				Op:      "enrollment.Enroll",
				Message: "already enrolled in this course",
				Code:    "already_enrolled",
				Err:     errors.Join(ErrAlreadyEnrolled, err),
			}
		case "23503":
			// course removed after the existence check
			if strings.Contains(pgErr.ConstraintName, "course") {
				return courseNotFound()
			}
		}
	}
	return apperr.FromStorage("enrollment.Enroll", err)
}

func courseNotFound() error {
	return apperr.Wrap(apperr.NotFound, "enrollment.Enroll", "course not found", ErrCourseNotFound)
}
