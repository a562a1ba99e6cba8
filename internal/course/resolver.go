package course

import (
	"context"
	"strings"

	"industrain/internal/apperr"
	"industrain/internal/ident"
	"industrain/internal/logger"
)

// Finder is the read access the resolver needs. *Manager satisfies it.
type Finder interface {
	FindByTitle(ctx context.Context, title string) ([]*Course, error)
	MatchTitle(ctx context.Context, title string) ([]*Course, error)
	List(ctx context.Context, limit int) ([]*Course, error)
}

// Resolver maps static catalog titles to persisted course records.
type Resolver struct {
	finder Finder
	log    *logger.Logger
}

// NewResolver creates a resolver over finder.
func NewResolver(finder Finder, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{finder: finder, log: log.With("component", "course_resolver")}
}

// Resolve finds the persisted course matching a static title. Stages run in
// order: exact title, case-insensitive containment in either direction, then
// the same containment check over a broad listing when the containment query
// returned no rows at all. The first stage that yields a valid candidate
// decides the outcome. NotFound is a result, not an error.
func (r *Resolver) Resolve(ctx context.Context, staticTitle string) (*Resolution, error) {
	title := strings.TrimSpace(staticTitle)
	if title == "" {
		return nil, apperr.New(apperr.Validation, "course.Resolve", "course title is required")
	}

	exact, err := r.finder.FindByTitle(ctx, title)
	if err != nil {
		return nil, r.lookupFailed(err)
	}
	if res := r.decide(title, "exact", exact); res != nil {
		return res, nil
	}

	related, err := r.finder.MatchTitle(ctx, title)
	if err != nil {
		return nil, r.lookupFailed(err)
	}
	if res := r.decide(title, "substring", filterRelated(title, related)); res != nil {
		return res, nil
	}

	if len(related) == 0 {
		listing, err := r.finder.List(ctx, BroadListLimit)
		if err != nil {
			return nil, r.lookupFailed(err)
		}
		if res := r.decide(title, "listing", filterRelated(title, listing)); res != nil {
			return res, nil
		}
	}

	r.log.Info("no persisted course for title", "title", title)
	return &Resolution{Outcome: NotFound, Title: title}, nil
}

// decide drops candidates with malformed identifiers and returns nil when
// none survive so the caller moves on to the next stage.
func (r *Resolver) decide(title, stage string, candidates []*Course) *Resolution {
	valid := make([]*Course, 0, len(candidates))
	for _, c := range candidates {
		if !ident.Valid(c.ID) {
			r.log.Warn("dropping course with malformed id", "course_id", c.ID, "course_title", c.Title, "stage", stage)
			continue
		}
		valid = append(valid, c)
	}

	switch len(valid) {
	case 0:
		return nil
	case 1:
		return &Resolution{Outcome: Found, Title: title, Course: valid[0], Candidates: valid, Stage: stage}
	default:
		r.log.Warn("ambiguous course title", "title", title, "stage", stage, "candidates", len(valid))
		return &Resolution{Outcome: Ambiguous, Title: title, Candidates: valid, Stage: stage}
	}
}

func (r *Resolver) lookupFailed(err error) error {
	if apperr.KindOf(err) == apperr.Transient {
		return &apperr.Error{
			Kind:    apperr.Transient,
			Op:      "course.Resolve",
			Message: "course lookup temporarily unavailable",
			Err:     err,
		}
	}
	return err
}

// SpellAmpersand lowercases s, writes "&" as "and" and collapses runs of
// whitespace to one space. Every other character is kept, so the rewrite can
// only make "R&D" and "r and d" compare equal, never merge "C#" with "C++".
func SpellAmpersand(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "&", " and ")
	return strings.Join(strings.Fields(s), " ")
}

// related reports whether a and b contain one another ignoring case, either
// literally or once ampersands are spelled out.
func related(a, b string) bool {
	if containsEither(strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))) {
		return true
	}
	return containsEither(SpellAmpersand(a), SpellAmpersand(b))
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func filterRelated(title string, courses []*Course) []*Course {
	var out []*Course
	for _, c := range courses {
		if related(title, c.Title) {
			out = append(out, c)
		}
	}
	return out
}
