// Package seo derives search-engine metadata from the site configuration and
// the project catalog: per-page titles and canonical URLs, the sitemap feed,
// robots.txt and JSON-LD blocks. Everything here is a pure function of its
// inputs.
package seo

import (
	"net/url"
	"path"
	"strings"

	"folio/catalog"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, optional
}

// Page identifiers for the static pages.
const (
	PageHome     = "home"
	PageProjects = "projects_index"
	PageAbout    = "about"
	PageCV       = "cv"
	PageContact  = "contact"
)

// Page describes one static page of the site.
type Page struct {
	ID          string
	Path        string
	Heading     string
	Description string
}

var staticPages = []Page{
	{ID: PageHome, Path: "/"},
	{
		ID:          PageProjects,
		Path:        "/projects/",
		Heading:     "Projects",
		Description: "Case studies and proof of work: objective, approach, validation, and outcome.",
	},
	{
		ID:          PageAbout,
		Path:        "/about/",
		Heading:     "About",
		Description: "Background and approach: engineering discipline, quantitative reasoning, and pragmatic rigor.",
	},
	{
		ID:          PageCV,
		Path:        "/cv/",
		Heading:     "CV",
		Description: "Curriculum Vitae (PDF) and professional overview.",
	},
	{
		ID:          PageContact,
		Path:        "/contact/",
		Heading:     "Contact",
		Description: "Contact details and professional profiles.",
	},
}

// StaticPages returns the static pages in sitemap order.
func StaticPages() []Page {
	return append([]Page(nil), staticPages...)
}

// PageByID looks up a static page definition.
func PageByID(id string) (Page, bool) {
	for _, p := range staticPages {
		if p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}

// NormalizeBaseURL strips surrounding whitespace and trailing slashes.
func NormalizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(NormalizeBaseURL(base))
	if err != nil {
		return base
	}
	elems := append([]string{"/", u.Path}, pathSegments...)
	p := path.Join(elems...)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	u.Path = p
	return u.String()
}

// Title appends the author to a page heading: "About — Jane Doe".
func Title(heading, author string) string {
	switch {
	case author == "":
		return heading
	case heading == "":
		return author
	}
	return heading + " — " + author
}

// Meta builds the metadata for a static page.
func (p Page) Meta(base, author string) PageMeta {
	return PageMeta{
		Title:       Title(p.Heading, author),
		Description: p.Description,
		URL:         NormalizeBaseURL(base) + p.Path,
		OGType:      "website",
	}
}

// HomeMeta builds the landing page metadata. The title leads with the author
// and follows with the tagline.
func HomeMeta(base, author, tagline, description string) PageMeta {
	title := author
	if tagline != "" {
		title = Title(author, tagline)
	}
	return PageMeta{
		Title:       title,
		Description: description,
		URL:         NormalizeBaseURL(base) + "/",
		OGType:      "website",
	}
}

// ProjectMeta builds the metadata for a project detail page.
func ProjectMeta(base, author string, p catalog.Project) PageMeta {
	return PageMeta{
		Title:       Title(p.Title, author),
		Description: p.Summary,
		URL:         NormalizeBaseURL(base) + p.Path(),
		OGType:      "article",
		Image:       NormalizeBaseURL(base) + p.Path() + "card.png",
	}
}
