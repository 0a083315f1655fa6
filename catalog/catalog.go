// Package catalog holds the ordered, read-only set of portfolio projects and
// answers the lookups the site needs: the full list, the featured prefix and
// a single project by slug.
//
// A Catalog is validated once when it is built and never mutated afterwards,
// so it can be shared across goroutines without locking.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// FeaturedCount is the number of projects shown on the landing page.
const FeaturedCount = 3

var (
	// ErrNotFound is returned when no project matches a slug.
	ErrNotFound = errors.New("catalog: project not found")
	// ErrDuplicateSlug is returned when two projects share a slug.
	ErrDuplicateSlug = errors.New("catalog: duplicate slug")
	// ErrInvalidProject is returned when a project is missing a required field
	// or carries a slug that is not URL-safe.
	ErrInvalidProject = errors.New("catalog: invalid project")
)

// slugPattern matches the path segments accepted by the project detail route.
var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Project is one case study in the portfolio.
type Project struct {
	Slug       string   `yaml:"slug"`
	Title      string   `yaml:"title"`
	Summary    string   `yaml:"summary"`
	Tags       []string `yaml:"tags"`
	Problem    string   `yaml:"problem"`
	Approach   string   `yaml:"approach"`
	Validation string   `yaml:"validation"`
	Outcome    string   `yaml:"outcome"`
}

// Path returns the site-relative URL of the project detail page.
func (p Project) Path() string {
	return "/projects/" + p.Slug + "/"
}

func (p Project) clone() Project {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}

func (p Project) validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"slug", p.Slug},
		{"title", p.Title},
		{"summary", p.Summary},
		{"problem", p.Problem},
		{"approach", p.Approach},
		{"validation", p.Validation},
		{"outcome", p.Outcome},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidProject, f.name)
		}
	}
	if !slugPattern.MatchString(p.Slug) {
		return fmt.Errorf("%w: slug %q is not URL-safe", ErrInvalidProject, p.Slug)
	}
	for i, t := range p.Tags {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: tag %d is blank", ErrInvalidProject, i)
		}
	}
	return nil
}

// Catalog is an ordered, immutable collection of projects.
type Catalog struct {
	projects []Project
	bySlug   map[string]int
}

// New validates projects and builds a Catalog preserving their order.
// The input slice is copied; later changes to it do not affect the catalog.
func New(projects []Project) (*Catalog, error) {
	c := &Catalog{
		projects: make([]Project, 0, len(projects)),
		bySlug:   make(map[string]int, len(projects)),
	}
	for i, p := range projects {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
		if prev, ok := c.bySlug[p.Slug]; ok {
			return nil, fmt.Errorf("project %d: %w %q (first defined at %d)", i, ErrDuplicateSlug, p.Slug, prev)
		}
		c.bySlug[p.Slug] = i
		c.projects = append(c.projects, p.clone())
	}
	return c, nil
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	return len(c.projects)
}

// All returns every project in catalog order. The result is a copy.
func (c *Catalog) All() []Project {
	out := make([]Project, len(c.projects))
	for i, p := range c.projects {
		out[i] = p.clone()
	}
	return out
}

// Featured returns the first n projects, or the whole catalog when it holds
// fewer than n. A non-positive n yields an empty slice.
func (c *Catalog) Featured(n int) []Project {
	if n <= 0 {
		return []Project{}
	}
	if n > len(c.projects) {
		n = len(c.projects)
	}
	out := make([]Project, n)
	for i := 0; i < n; i++ {
		out[i] = c.projects[i].clone()
	}
	return out
}

// FindBySlug returns the project with the given slug or ErrNotFound.
func (c *Catalog) FindBySlug(slug string) (Project, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Project{}, ErrNotFound
	}
	return c.projects[i].clone(), nil
}
