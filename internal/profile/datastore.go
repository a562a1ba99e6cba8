package profile

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

// Datastore handles database operations for profiles.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new profile datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

const profileColumns = `id, clerk_id, email, full_name, avatar_url, role, created_at, updated_at`

// GetByID retrieves a profile by ID.
func (ds *Datastore) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(ds.db.QueryRowContext(ctx, query, id))
}

// GetByClerkID retrieves a profile by its external identity ID.
func (ds *Datastore) GetByClerkID(ctx context.Context, clerkID string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE clerk_id = $1`
	return scanProfile(ds.db.QueryRowContext(ctx, query, clerkID))
}

// Insert creates a profile row. A concurrent insert for the same identity
// surfaces as a unique violation.
func (ds *Datastore) Insert(ctx context.Context, p *Profile) error {
	now := time.Now()

	query := `
		INSERT INTO profiles (id, clerk_id, email, full_name, avatar_url, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return ds.db.QueryRowContext(ctx, query,
		p.ID, nullString(p.ClerkID), p.Email, p.FullName, p.AvatarURL, string(p.Role), now, now,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Update applies a field-level diff and returns the stored row.
func (ds *Datastore) Update(ctx context.Context, id uuid.UUID, c Changes) (*Profile, error) {
	query := `
		UPDATE profiles
		SET clerk_id = COALESCE($2, clerk_id),
		    email = COALESCE($3, email),
		    full_name = COALESCE($4, full_name),
		    avatar_url = COALESCE($5, avatar_url),
		    updated_at = $6
		WHERE id = $1
		RETURNING ` + profileColumns

	return scanProfile(ds.db.QueryRowContext(ctx, query,
		id, optional(c.ClerkID), optional(c.Email), optional(c.FullName), optional(c.AvatarURL), time.Now(),
	))
}

func scanProfile(row *sql.Row) (*Profile, error) {
	p := &Profile{}
	var clerkID sql.NullString
	var role string
	err := row.Scan(&p.ID, &clerkID, &p.Email, &p.FullName, &p.AvatarURL, &role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ClerkID = clerkID.String
	p.Role = Role(role)
	return p, nil
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
