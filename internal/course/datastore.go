package course

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is the interface for database operations.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Datastore handles database operations for persisted courses.
type Datastore struct {
	db DBTX
}

// NewDatastore creates a new course datastore.
func NewDatastore(db DBTX) *Datastore {
	return &Datastore{db: db}
}

const selectColumns = `
		SELECT id, title, company_name, duration, price, rating, student_count,
		       location, description, to_json(tags), image_url, instructor_id,
		       created_at, updated_at
		FROM courses`

// GetByID retrieves a course by ID.
func (ds *Datastore) GetByID(ctx context.Context, id string) (*Course, error) {
	query := selectColumns + ` WHERE id = $1`
	return scanCourse(ds.db.QueryRowContext(ctx, query, id))
}

// FindByTitle retrieves courses whose title equals title exactly.
func (ds *Datastore) FindByTitle(ctx context.Context, title string) ([]*Course, error) {
	query := selectColumns + ` WHERE title = $1 ORDER BY created_at, id`
	return ds.queryCourses(ctx, query, title)
}

// spelledTitle mirrors SpellAmpersand in SQL.
const spelledTitle = `btrim(regexp_replace(replace(lower(title), '&', ' and '), '\s+', ' ', 'g'))`

// MatchTitle retrieves courses whose title contains title, or is contained
// in it, ignoring case. spelled is title in SpellAmpersand form and gives a
// second chance to titles that differ only in "&" versus "and". Blank
// titles never match.
func (ds *Datastore) MatchTitle(ctx context.Context, title, spelled string) ([]*Course, error) {
	query := selectColumns + `
		WHERE btrim(title) <> ''
		  AND (strpos(lower(title), lower($1)) > 0
		    OR strpos(lower($1), lower(title)) > 0
		    OR strpos(` + spelledTitle + `, $2) > 0
		    OR strpos($2, ` + spelledTitle + `) > 0)
		ORDER BY created_at, id`
	return ds.queryCourses(ctx, query, title, spelled)
}

// Search retrieves courses whose title contains term, ignoring case.
func (ds *Datastore) Search(ctx context.Context, term string, limit int) ([]*Course, error) {
	query := selectColumns + `
		WHERE title ILIKE $1 ESCAPE '\'
		ORDER BY title, id
		LIMIT $2`
	return ds.queryCourses(ctx, query, containsPattern(term), limit)
}

// List retrieves courses ordered by title.
func (ds *Datastore) List(ctx context.Context, limit int) ([]*Course, error) {
	query := selectColumns + ` ORDER BY title, id LIMIT $1`
	return ds.queryCourses(ctx, query, limit)
}

func (ds *Datastore) queryCourses(ctx context.Context, query string, args ...any) ([]*Course, error) {
	rows, err := ds.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (*Course, error) {
	c := &Course{}
	var instructorID sql.NullString
	err := row.Scan(
		&c.ID, &c.Title, &c.CompanyName, &c.Duration, &c.Price, &c.Rating, &c.StudentCount,
		&c.Location, &c.Description, &c.Tags, &c.ImageURL, &instructorID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if instructorID.Valid {
		c.InstructorID = &instructorID.String
	}
	return c, nil
}

// containsPattern builds an ILIKE pattern matching s anywhere, with LIKE
// metacharacters in s escaped.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
