package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the platform role of a profile.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTrainer   Role = "trainer"
	RoleAdmin     Role = "admin"
	RoleCorporate Role = "corporate"
)

// ParseRole returns the role named by s, ignoring case and surrounding space.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleTrainer, RoleAdmin, RoleCorporate:
		return r, true
	default:
		return "", false
	}
}

// Profile mirrors an identity-provider user in the relational store.
// ClerkID is empty for legacy rows created before the column existed.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	ClerkID   string    `json:"clerk_id,omitempty"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// profileNamespace scopes derived profile IDs.
var profileNamespace = uuid.MustParse("6f1c0d3a-2b7e-5c94-9a8e-3d4b5c6e7f80")

// DeriveID returns the stable profile ID for an external identity ID.
func DeriveID(clerkID string) uuid.UUID {
	return uuid.NewSHA1(profileNamespace, []byte(clerkID))
}

// Identity is what the identity provider asserts about the session user.
type Identity struct {
	ClerkID   string
	Email     string
	FirstName string
	LastName  string
	FullName  string
	ImageURL  string
	Role      string
}

// Name returns the identity's display name: the full name when present,
// otherwise the first and last names joined by a single space.
func (i Identity) Name() string {
	if name := strings.TrimSpace(i.FullName); name != "" {
		return name
	}
	return joinName(i.FirstName, i.LastName)
}

// UpdateFields are caller-requested profile changes. Empty values mean
// "not supplied" and never blank a stored value.
type UpdateFields struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// IsEmpty reports whether no field carries a non-blank value.
func (f UpdateFields) IsEmpty() bool {
	return strings.TrimSpace(f.FirstName) == "" &&
		strings.TrimSpace(f.LastName) == "" &&
		strings.TrimSpace(f.FullName) == "" &&
		strings.TrimSpace(f.AvatarURL) == ""
}

// name applies the naming rule: a supplied full name wins, then the joined
// first/last parts, then current. ok is false when no name field was supplied.
func (f UpdateFields) name(current string) (string, bool) {
	if full := strings.TrimSpace(f.FullName); full != "" {
		return full, true
	}
	if f.FirstName == "" && f.LastName == "" {
		return "", false
	}
	if joined := joinName(f.FirstName, f.LastName); joined != "" {
		return joined, true
	}
	return current, true
}

func joinName(first, last string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{first, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Changes is a field-level diff against a stored profile. Nil fields are
// left untouched.
type Changes struct {
	ClerkID   *string
	Email     *string
	FullName  *string
	AvatarURL *string
}

// Fields lists the column names the diff touches.
func (c Changes) Fields() []string {
	var out []string
	if c.ClerkID != nil {
		out = append(out, "clerk_id")
	}
	if c.Email != nil {
		out = append(out, "email")
	}
	if c.FullName != nil {
		out = append(out, "full_name")
	}
	if c.AvatarURL != nil {
		out = append(out, "avatar_url")
	}
	return out
}

// IsEmpty reports whether the diff touches nothing.
func (c Changes) IsEmpty() bool {
	return len(c.Fields()) == 0
}

// SyncResult reports what a sync did.
type SyncResult struct {
	Profile *Profile
	Created bool
	Changed bool
	Fields  []string
}
