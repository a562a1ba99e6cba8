package enrollment

import (
	"time"

	"github.com/google/uuid"
)

// StatusActive is the status of a newly recorded enrollment.
const StatusActive = "active"

// Enrollment records that a profile has enrolled in a persisted course.
type Enrollment struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	CourseID    uuid.UUID `json:"course_id"`
	Status      string    `json:"status"`
	EnrolledAt  time.Time `json:"enrolled_at"`
	CourseTitle string    `json:"course_title,omitempty"`
}
