package course

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"industrain/internal/apperr"
	"industrain/internal/ident"
	"industrain/internal/logger"
)

// Domain errors
var (
	ErrNotFound = errors.New("course not found")
)

// Manager handles business logic for persisted courses.
type Manager struct {
	ds    *Datastore
	cache ListCache
	log   *logger.Logger
}

// NewManager creates a new course manager. cache may be nil.
func NewManager(ds *Datastore, cache ListCache, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{ds: ds, cache: cache, log: log}
}

// Get retrieves a course by its identifier. The identifier is validated
// before any lookup is issued.
func (m *Manager) Get(ctx context.Context, rawID string) (*Course, error) {
	id, err := ident.Parse(rawID)
	if err != nil {
		return nil, err
	}

	c, err := m.ds.GetByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(apperr.NotFound, "course.Get", "course not found", ErrNotFound)
		}
		return nil, apperr.FromStorage("course.Get", err)
	}
	return c, nil
}

// Search returns courses whose title contains term.
func (m *Manager) Search(ctx context.Context, term string, limit int) ([]*Course, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.New(apperr.Validation, "course.Search", "search term is required")
	}
	courses, err := m.ds.Search(ctx, term, clampLimit(limit))
	if err != nil {
		return nil, apperr.FromStorage("course.Search", err)
	}
	return nonNil(courses), nil
}

// List returns a listing of courses, served from the cache when possible.
func (m *Manager) List(ctx context.Context, limit int) ([]*Course, error) {
	limit = clampLimit(limit)

	if m.cache != nil {
		if courses, ok := m.cache.GetList(ctx, limit); ok {
			return courses, nil
		}
	}

	courses, err := m.ds.List(ctx, limit)
	if err != nil {
		return nil, apperr.FromStorage("course.List", err)
	}
	courses = nonNil(courses)

	if m.cache != nil {
		m.cache.SetList(ctx, limit, courses)
	}
	return courses, nil
}

// FindByTitle returns courses whose title equals title exactly.
func (m *Manager) FindByTitle(ctx context.Context, title string) ([]*Course, error) {
	courses, err := m.ds.FindByTitle(ctx, title)
	if err != nil {
		return nil, apperr.FromStorage("course.FindByTitle", err)
	}
	return courses, nil
}

// MatchTitle returns courses related to title by case-insensitive
// containment in either direction. See SpellAmpersand for the one rewrite
// applied on top of the literal comparison.
func (m *Manager) MatchTitle(ctx context.Context, title string) ([]*Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	courses, err := m.ds.MatchTitle(ctx, title, SpellAmpersand(title))
	if err != nil {
		return nil, apperr.FromStorage("course.MatchTitle", err)
	}
	return courses, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func nonNil(courses []*Course) []*Course {
	if courses == nil {
		return []*Course{}
	}
	return courses
}
