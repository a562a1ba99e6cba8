package profile

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"industrain/internal/apperr"
	"industrain/internal/logger"
)

// Domain errors
var (
	ErrNotFound        = errors.New("profile not found")
	ErrMissingIdentity = errors.New("identity has no external user ID")
	ErrNotConfigured   = errors.New("profile storage is not configured")
)

// maxSyncAttempts bounds retries after losing a create race.
const maxSyncAttempts = 3

// Manager handles business logic for profiles.
type Manager struct {
	ds  *Datastore
	log *logger.Logger
}

// NewManager creates a new profile manager.
func NewManager(ds *Datastore, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{ds: ds, log: log.With("component", "profile_sync")}
}

// Get returns the stored profile for an identity, looking it up by derived
// ID first and by external ID second.
func (m *Manager) Get(ctx context.Context, clerkID string) (*Profile, error) {
	if err := m.ready(); err != nil {
		return nil, err
	}
	clerkID = strings.TrimSpace(clerkID)
	if clerkID == "" {
		return nil, apperr.Wrap(apperr.Validation, "profile.Get", "missing user identity", ErrMissingIdentity)
	}
	return m.lookup(ctx, clerkID)
}

// Sync makes the stored profile reflect identity and the requested fields.
// A missing profile is created; an existing one receives only the fields
// that differ, plus backfill of values missing on the stored row. Calling
// Sync again with the same input changes nothing.
func (m *Manager) Sync(ctx context.Context, identity Identity, fields UpdateFields) (*SyncResult, error) {
	if err := m.ready(); err != nil {
		return nil, err
	}
	identity.ClerkID = strings.TrimSpace(identity.ClerkID)
	if identity.ClerkID == "" {
		return nil, apperr.Wrap(apperr.Validation, "profile.Sync", "missing user identity", ErrMissingIdentity)
	}

	var lastErr error
	for attempt := 1; attempt <= maxSyncAttempts; attempt++ {
		result, err := m.syncOnce(ctx, identity, fields)
		if err == nil {
			return result, nil
		}
		if !apperr.IsKind(err, apperr.Conflict) {
			return nil, err
		}
		lastErr = err
		m.log.Warn("profile sync conflict, retrying", "clerk_id", identity.ClerkID, "attempt", attempt)
	}

	appErr, _ := apperr.As(lastErr)
	appErr.Message = "profile update conflict, please try again"
	return nil, appErr
}

func (m *Manager) syncOnce(ctx context.Context, identity Identity, fields UpdateFields) (*SyncResult, error) {
	existing, err := m.lookup(ctx, identity.ClerkID)
	if err != nil {
		if !apperr.IsKind(err, apperr.NotFound) {
			return nil, err
		}
		return m.create(ctx, identity, fields)
	}

	changes := diff(existing, identity, fields)
	if changes.IsEmpty() {
		return &SyncResult{Profile: existing}, nil
	}

	updated, err := m.ds.Update(ctx, existing.ID, changes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// row vanished between read and write; treat as a race
			return nil, apperr.Wrap(apperr.Conflict, "profile.Sync", "profile changed during update", err)
		}
		return nil, storageError("profile.Sync", err)
	}

	m.log.Info("profile updated", "profile_id", updated.ID, "fields", changes.Fields())
	return &SyncResult{Profile: updated, Changed: true, Fields: changes.Fields()}, nil
}

func (m *Manager) create(ctx context.Context, identity Identity, fields UpdateFields) (*SyncResult, error) {
	role, ok := ParseRole(identity.Role)
	if !ok {
		role = RoleStudent
	}

	name, supplied := fields.name("")
	if !supplied || name == "" {
		name = identity.Name()
	}
	avatar := strings.TrimSpace(fields.AvatarURL)
	if avatar == "" {
		avatar = strings.TrimSpace(identity.ImageURL)
	}

	p := &Profile{
		ID:        DeriveID(identity.ClerkID),
		ClerkID:   identity.ClerkID,
		Email:     strings.TrimSpace(identity.Email),
		FullName:  name,
		AvatarURL: avatar,
		Role:      role,
	}

	if err := m.ds.Insert(ctx, p); err != nil {
		return nil, storageError("profile.Sync", err)
	}

	m.log.Info("profile created", "profile_id", p.ID, "role", p.Role)
	return &SyncResult{
		Profile: p,
		Created: true,
		Changed: true,
		Fields:  []string{"clerk_id", "email", "full_name", "avatar_url", "role"},
	}, nil
}

func (m *Manager) lookup(ctx context.Context, clerkID string) (*Profile, error) {
	p, err := m.ds.GetByID(ctx, DeriveID(clerkID))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storageError("profile.Get", err)
	}

	p, err = m.ds.GetByClerkID(ctx, clerkID)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Wrap(apperr.NotFound, "profile.Get", "profile not found", ErrNotFound)
	}
	return nil, storageError("profile.Get", err)
}

func (m *Manager) ready() error {
	if m == nil || m.ds == nil || m.ds.db == nil {
		return apperr.Wrap(apperr.Config, "profile", "server configuration error: profile storage not configured", ErrNotConfigured)
	}
	return nil
}

// diff computes the changes needed to bring existing in line with the
// request. Supplied fields win; identity values only fill blanks.
func diff(existing *Profile, identity Identity, fields UpdateFields) Changes {
	var c Changes

	if existing.ClerkID == "" && identity.ClerkID != "" {
		c.ClerkID = &identity.ClerkID
	}

	if email := strings.TrimSpace(identity.Email); existing.Email == "" && email != "" {
		c.Email = &email
	}

	if name, supplied := fields.name(existing.FullName); supplied {
		if name != "" && name != existing.FullName {
			c.FullName = &name
		}
	} else if name := identity.Name(); existing.FullName == "" && name != "" {
		c.FullName = &name
	}

	if avatar := strings.TrimSpace(fields.AvatarURL); avatar != "" {
		if avatar != existing.AvatarURL {
			c.AvatarURL = &avatar
		}
	} else if image := strings.TrimSpace(identity.ImageURL); existing.AvatarURL == "" && image != "" {
		c.AvatarURL = &image
	}

	return c
}

// storageError classifies a storage failure and attaches the caller-facing
// wording used for profile writes.
func storageError(op string, err error) error {
	mapped := apperr.FromStorage(op, err)
	appErr, ok := apperr.As(mapped)
	if !ok {
		return mapped
	}
	switch appErr.Kind {
	case apperr.Conflict:
		appErr.Message = "profile update conflict, please try again"
	case apperr.Constraint:
		appErr.Message = "database constraint violation, please contact support"
	case apperr.Permission:
		appErr.Message = "permission denied: an access policy may be blocking the update"
		appErr.Hint = "please contact support"
	case apperr.Transient:
		appErr.Message = "profile storage temporarily unavailable"
	}
	return appErr
}
