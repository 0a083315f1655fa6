package seo

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"folio/catalog"
)

const base = "https://example.com"

func projects(slugs ...string) []catalog.Project {
	out := make([]catalog.Project, len(slugs))
	for i, s := range slugs {
		out[i] = catalog.Project{Slug: s, Title: "T " + s, Summary: "S " + s, Tags: []string{"go"}}
	}
	return out
}

func TestRobotsTxt(t *testing.T) {
	want := "User-agent: *\nAllow: /\nSitemap: https://example.com/sitemap.xml"
	if got := RobotsTxt(base); got != want {
		t.Errorf("RobotsTxt = %q, want %q", got, want)
	}
	if got := RobotsTxt(base + "/"); got != want {
		t.Errorf("RobotsTxt with trailing slash = %q, want %q", got, want)
	}
}

func TestBuildSitemapFeed(t *testing.T) {
	ps := projects("a", "b")
	feed := BuildSitemapFeed(base, ps)

	if len(feed) != len(StaticPages())+len(ps) {
		t.Fatalf("feed has %d entries, want %d", len(feed), len(StaticPages())+len(ps))
	}

	wantStatic := []string{
		"https://example.com/",
		"https://example.com/projects/",
		"https://example.com/about/",
		"https://example.com/cv/",
		"https://example.com/contact/",
	}
	for i, want := range wantStatic {
		e := feed[i]
		if e.URL != want {
			t.Errorf("feed[%d].URL = %q, want %q", i, e.URL, want)
		}
		if e.Priority != StaticPriority || e.ChangeFreq != ChangeMonthly {
			t.Errorf("feed[%d] = %+v, want priority 0.7 monthly", i, e)
		}
	}

	for i, p := range ps {
		e := feed[len(wantStatic)+i]
		want := base + "/projects/" + p.Slug + "/"
		if e.URL != want {
			t.Errorf("project entry URL = %q, want %q", e.URL, want)
		}
		if e.Priority != ProjectPriority || e.ChangeFreq != ChangeMonthly {
			t.Errorf("project entry = %+v, want priority 0.8 monthly", e)
		}
	}
}

func TestBuildSitemapFeedIsIdempotent(t *testing.T) {
	ps := projects("a", "b", "c")
	first := BuildSitemapFeed(base, ps)
	second := BuildSitemapFeed(base, ps)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestWriteSitemap(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSitemap(&buf, BuildSitemapFeed(base, projects("a"))); err != nil {
		t.Fatalf("WriteSitemap failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") {
		t.Errorf("missing XML header: %q", out)
	}
	for _, want := range []string{
		`xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`,
		"<loc>https://example.com/projects/a/</loc>",
		"<priority>0.8</priority>",
		"<priority>0.7</priority>",
		"<changefreq>monthly</changefreq>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}

	var parsed sitemapURLSet
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 6 {
		t.Errorf("parsed %d urls, want 6", len(parsed.URLs))
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com/"},
		{"https://example.com/", nil, "https://example.com/"},
		{"https://example.com", []string{"projects", "a"}, "https://example.com/projects/a/"},
		{"https://example.com/site", []string{"about"}, "https://example.com/site/about/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		heading, author, want string
	}{
		{"About", "Jane Doe", "About — Jane Doe"},
		{"About", "", "About"},
		{"", "Jane Doe", "Jane Doe"},
	}
	for _, tt := range tests {
		if got := Title(tt.heading, tt.author); got != tt.want {
			t.Errorf("Title(%q, %q) = %q, want %q", tt.heading, tt.author, got, tt.want)
		}
	}
}

func TestPageMeta(t *testing.T) {
	about, ok := PageByID(PageAbout)
	if !ok {
		t.Fatal("about page not defined")
	}
	m := about.Meta(base+"/", "Jane Doe")
	if m.Title != "About — Jane Doe" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.URL != "https://example.com/about/" {
		t.Errorf("URL = %q", m.URL)
	}
	if m.Description == "" {
		t.Error("Description should not be empty")
	}

	if _, ok := PageByID("nope"); ok {
		t.Error("PageByID(nope) should not be found")
	}
}

func TestHomeMeta(t *testing.T) {
	m := HomeMeta(base, "Jane Doe", "Systems and engineering", "desc")
	if m.Title != "Jane Doe — Systems and engineering" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.URL != "https://example.com/" {
		t.Errorf("URL = %q", m.URL)
	}
	if m := HomeMeta(base, "Jane Doe", "", "desc"); m.Title != "Jane Doe" {
		t.Errorf("Title without tagline = %q", m.Title)
	}
}

func TestProjectMeta(t *testing.T) {
	p := projects("alpha")[0]
	m := ProjectMeta(base, "Jane Doe", p)
	if m.Title != "T alpha — Jane Doe" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Description != p.Summary {
		t.Errorf("Description = %q, want %q", m.Description, p.Summary)
	}
	if m.URL != "https://example.com/projects/alpha/" {
		t.Errorf("URL = %q", m.URL)
	}
	if m.Image != "https://example.com/projects/alpha/card.png" {
		t.Errorf("Image = %q", m.Image)
	}
	if m.OGType != "article" {
		t.Errorf("OGType = %q", m.OGType)
	}
}

func TestStaticPagesReturnsCopy(t *testing.T) {
	pages := StaticPages()
	pages[0].Path = "/changed/"
	if StaticPages()[0].Path != "/" {
		t.Error("StaticPages exposed internal slice")
	}
}

func TestJSONLD(t *testing.T) {
	var data map[string]interface{}

	if err := json.Unmarshal([]byte(WebsiteJSONLD("Folio", base, "d", "Jane")), &data); err != nil {
		t.Fatalf("WebsiteJSONLD invalid: %v", err)
	}
	if data["@type"] != "WebSite" || data["url"] != "https://example.com/" {
		t.Errorf("WebsiteJSONLD = %v", data)
	}

	data = nil
	if err := json.Unmarshal([]byte(PersonJSONLD("Jane", base, "", "https://github.com/jane")), &data); err != nil {
		t.Fatalf("PersonJSONLD invalid: %v", err)
	}
	sameAs, _ := data["sameAs"].([]interface{})
	if len(sameAs) != 1 {
		t.Errorf("sameAs = %v, want one profile", data["sameAs"])
	}

	data = nil
	if err := json.Unmarshal([]byte(ProjectJSONLD(base, "Jane", projects("a")[0])), &data); err != nil {
		t.Fatalf("ProjectJSONLD invalid: %v", err)
	}
	if data["url"] != "https://example.com/projects/a/" || data["keywords"] != "go" {
		t.Errorf("ProjectJSONLD = %v", data)
	}
}
