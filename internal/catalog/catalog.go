// Package catalog serves the static course and partner listings bundled
// with the build. Catalog IDs are small integers local to the bundle and
// unrelated to persisted course IDs.
package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var bundled []byte

// Course is a static catalog course.
type Course struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Company     string   `yaml:"company" json:"company"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags" json:"tags"`
	Price       string   `yaml:"price" json:"price"`
	Rating      float64  `yaml:"rating" json:"rating"`
	Image       string   `yaml:"image" json:"image"`
	Duration    string   `yaml:"duration" json:"duration"`
	Students    int      `yaml:"students" json:"students"`
	Location    string   `yaml:"location" json:"location"`
	Type        string   `yaml:"type" json:"type"`
}

// Partner is an industry partner offering training programs.
type Partner struct {
	ID               int      `yaml:"id" json:"id"`
	Name             string   `yaml:"name" json:"name"`
	Industry         string   `yaml:"industry" json:"industry"`
	Location         string   `yaml:"location" json:"location"`
	Description      string   `yaml:"description" json:"description"`
	EmployeeCount    string   `yaml:"employeeCount" json:"employeeCount"`
	Founded          int      `yaml:"founded" json:"founded"`
	TrainingPrograms []string `yaml:"trainingPrograms" json:"trainingPrograms"`
}

// Stats summarises the catalog.
type Stats struct {
	TotalCourses  int     `json:"totalCourses"`
	TotalPartners int     `json:"totalPartners"`
	TotalStudents int     `json:"totalStudents"`
	AverageRating float64 `json:"averageRating"`
}

// CourseFilter narrows a course listing. Empty fields and the "All ..."
// sentinels match everything.
type CourseFilter struct {
	Search   string
	Category string
	Location string
}

// PartnerFilter narrows a partner listing.
type PartnerFilter struct {
	Search   string
	Industry string
	Location string
}

// Catalog is the immutable, parsed bundle.
type Catalog struct {
	courses  []Course
	partners []Partner
	byID     map[int]Course
	stats    Stats
}

type document struct {
	Courses  []Course  `yaml:"courses"`
	Partners []Partner `yaml:"partners"`
}

// Load parses the catalog embedded in the binary.
func Load() (*Catalog, error) {
	return Parse(bundled)
}

// Parse builds a catalog from YAML, rejecting duplicate or missing IDs and
// untitled courses.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		courses:  doc.Courses,
		partners: doc.Partners,
		byID:     make(map[int]Course, len(doc.Courses)),
	}

	var ratingSum float64
	for _, course := range doc.Courses {
		if course.ID <= 0 {
			return nil, fmt.Errorf("catalog course %q has no id", course.Title)
		}
		if strings.TrimSpace(course.Title) == "" {
			return nil, fmt.Errorf("catalog course %d has no title", course.ID)
		}
		if _, dup := c.byID[course.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog course id %d", course.ID)
		}
		c.byID[course.ID] = course
		c.stats.TotalStudents += course.Students
		ratingSum += course.Rating
	}

	c.stats.TotalCourses = len(doc.Courses)
	c.stats.TotalPartners = len(doc.Partners)
	if len(doc.Courses) > 0 {
		c.stats.AverageRating = math.Round(ratingSum/float64(len(doc.Courses))*10) / 10
	}

	return c, nil
}

// Courses returns the courses matching f, in bundle order.
func (c *Catalog) Courses(f CourseFilter) []Course {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []Course{}
	for _, course := range c.courses {
		if search != "" && !courseMatches(course, search) {
			continue
		}
		if !isAll(f.Category) && course.Type != f.Category {
			continue
		}
		if !isAll(f.Location) && !strings.Contains(course.Location, f.Location) {
			continue
		}
		out = append(out, course)
	}
	return out
}

// Course returns the course with the given catalog ID.
func (c *Catalog) Course(id int) (Course, bool) {
	course, ok := c.byID[id]
	return course, ok
}

// Categories returns the distinct course types, sorted.
func (c *Catalog) Categories() []string {
	return distinct(len(c.courses), func(i int) string { return c.courses[i].Type })
}

// Locations returns the distinct course cities, sorted.
func (c *Catalog) Locations() []string {
	return distinct(len(c.courses), func(i int) string { return city(c.courses[i].Location) })
}

// Partners returns the partners matching f, in bundle order.
func (c *Catalog) Partners(f PartnerFilter) []Partner {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []Partner{}
	for _, p := range c.partners {
		if search != "" && !partnerMatches(p, search) {
			continue
		}
		if !isAll(f.Industry) && p.Industry != f.Industry {
			continue
		}
		if !isAll(f.Location) && !strings.Contains(p.Location, f.Location) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Industries returns the distinct partner industries, sorted.
func (c *Catalog) Industries() []string {
	return distinct(len(c.partners), func(i int) string { return c.partners[i].Industry })
}

// Stats returns catalog totals.
func (c *Catalog) Stats() Stats {
	return c.stats
}

func courseMatches(course Course, search string) bool {
	if containsFold(course.Title, search) || containsFold(course.Company, search) || containsFold(course.Description, search) {
		return true
	}
	for _, tag := range course.Tags {
		if containsFold(tag, search) {
			return true
		}
	}
	return false
}

func partnerMatches(p Partner, search string) bool {
	if containsFold(p.Name, search) || containsFold(p.Description, search) {
		return true
	}
	for _, program := range p.TrainingPrograms {
		if containsFold(program, search) {
			return true
		}
	}
	return false
}

// containsFold reports whether s contains the already-lowercased needle.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.HasPrefix(v, "All ")
}

func city(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}

func distinct(n int, at func(int) string) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v := at(i)
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
