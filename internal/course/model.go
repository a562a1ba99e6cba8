package course

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Course is a persisted course record. IDs are kept as strings because rows
// written by the administrative import are not guaranteed to be well formed.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CompanyName  string    `json:"company_name"`
	Duration     string    `json:"duration"`
	Price        float64   `json:"price"`
	Rating       float64   `json:"rating"`
	StudentCount int       `json:"student_count"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Tags         Tags      `json:"tags"`
	ImageURL     string    `json:"image_url"`
	InstructorID *string   `json:"instructor_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Tags scans a text[] column selected through to_json.
type Tags []string

func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tags source %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*t = out
	return nil
}

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Outcome is the tagged result of resolving a static title.
type Outcome string

const (
	Found     Outcome = "found"
	Ambiguous Outcome = "ambiguous"
	NotFound  Outcome = "not_found"
)

// Resolution is the result of mapping a static catalog title to persisted
// courses. Course is set only when Outcome is Found; Candidates lists every
// surviving match.
type Resolution struct {
	Outcome    Outcome   `json:"outcome"`
	Title      string    `json:"title"`
	Course     *Course   `json:"course,omitempty"`
	Candidates []*Course `json:"candidates,omitempty"`
	Stage      string    `json:"stage,omitempty"`
}

// Default and maximum sizes for course listings.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	BroadListLimit   = 100
)
