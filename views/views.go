// Package views holds the default page templates. Each page is exposed as a
// templ.Component so the server can swap any of them for a user-supplied
// component without changing handler code.
package views

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"

	"folio/catalog"
	"folio/markdown"
	"folio/seo"
)

//go:embed templates/*.html
var templateFS embed.FS

// Site holds site-wide settings that every page needs.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	Tagline     string
	Email       string
	GitHubURL   string
	LinkedInURL string
	CVPath      string
}

var funcs = template.FuncMap{
	"markdown": markdown.HTML,
	"join":     strings.Join,
	"dict":     dict,
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		"home", "projects", "project", "about", "cv", "contact", "error",
		"admin_login", "admin_dashboard",
	} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
}

func dict(kv ...interface{}) (map[string]interface{}, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

// pageData is the root value passed to the layout template.
type pageData struct {
	Site     Site
	Meta     seo.PageMeta
	Nav      string
	JSONLD   []template.JS
	Projects []catalog.Project
	Project  catalog.Project

	Heading string
	Message string

	ShowError bool
	CSRF      string
	Dashboard *Dashboard
}

func render(name string, data pageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", data)
	})
}

func jsonLD(blocks ...string) []template.JS {
	out := make([]template.JS, len(blocks))
	for i, b := range blocks {
		// Blocks come from json.Marshal, which escapes <, > and &.
		out[i] = template.JS(b)
	}
	return out
}

func profiles(site Site) []string {
	return []string{site.GitHubURL, site.LinkedInURL}
}

// Home renders the landing page with the featured projects.
func Home(site Site, meta seo.PageMeta, featured []catalog.Project) templ.Component {
	ld := []string{seo.WebsiteJSONLD(site.Name, site.URL, site.Description, site.Author)}
	if site.Author != "" {
		ld = append(ld, seo.PersonJSONLD(site.Author, site.URL, profiles(site)...))
	}
	return render("home", pageData{
		Site:     site,
		Meta:     meta,
		JSONLD:   jsonLD(ld...),
		Projects: featured,
	})
}

// Projects renders the projects index.
func Projects(site Site, meta seo.PageMeta, projects []catalog.Project) templ.Component {
	return render("projects", pageData{
		Site:     site,
		Meta:     meta,
		Nav:      "projects",
		Projects: projects,
	})
}

// Project renders a single project case study.
func Project(site Site, meta seo.PageMeta, p catalog.Project) templ.Component {
	return render("project", pageData{
		Site:    site,
		Meta:    meta,
		Nav:     "projects",
		JSONLD:  jsonLD(seo.ProjectJSONLD(site.URL, site.Author, p)),
		Project: p,
	})
}

// About renders the about page.
func About(site Site, meta seo.PageMeta) templ.Component {
	var ld []template.JS
	if site.Author != "" {
		ld = jsonLD(seo.PersonJSONLD(site.Author, site.URL, profiles(site)...))
	}
	return render("about", pageData{Site: site, Meta: meta, Nav: "about", JSONLD: ld})
}

// CV renders the CV page.
func CV(site Site, meta seo.PageMeta) templ.Component {
	return render("cv", pageData{Site: site, Meta: meta, Nav: "cv"})
}

// Contact renders the contact page.
func Contact(site Site, meta seo.PageMeta) templ.Component {
	return render("contact", pageData{Site: site, Meta: meta, Nav: "contact"})
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return render("error", pageData{
		Site:    site,
		Meta:    seo.PageMeta{Title: seo.Title("Page not found", site.Author)},
		Heading: "Page not found",
		Message: "The page you are looking for does not exist or has moved.",
	})
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	return render("error", pageData{
		Site:    site,
		Meta:    seo.PageMeta{Title: seo.Title("Something went wrong", site.Author)},
		Heading: "Something went wrong",
		Message: "An unexpected error occurred. Please try again later.",
	})
}
