package seo

import (
	"encoding/xml"
	"io"
	"strconv"

	"folio/catalog"
)

// Sitemap weights and change-frequency hints.
const (
	StaticPriority  = 0.7
	ProjectPriority = 0.8
	ChangeMonthly   = "monthly"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// FeedEntry is one URL in the sitemap feed.
type FeedEntry struct {
	URL        string
	Priority   float64
	ChangeFreq string
}

// BuildSitemapFeed lists every static page followed by one entry per
// project, in catalog order.
func BuildSitemapFeed(base string, projects []catalog.Project) []FeedEntry {
	base = NormalizeBaseURL(base)
	entries := make([]FeedEntry, 0, len(staticPages)+len(projects))
	for _, p := range staticPages {
		entries = append(entries, FeedEntry{
			URL:        base + p.Path,
			Priority:   StaticPriority,
			ChangeFreq: ChangeMonthly,
		})
	}
	for _, p := range projects {
		entries = append(entries, FeedEntry{
			URL:        base + p.Path(),
			Priority:   ProjectPriority,
			ChangeFreq: ChangeMonthly,
		})
	}
	return entries
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// WriteSitemap encodes entries as a sitemaps.org urlset document.
func WriteSitemap(w io.Writer, entries []FeedEntry) error {
	urls := make([]sitemapURL, len(entries))
	for i, e := range entries {
		urls[i] = sitemapURL{
			Loc:        e.URL,
			ChangeFreq: e.ChangeFreq,
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(sitemapURLSet{XMLNS: sitemapNS, URLs: urls}); err != nil {
		return err
	}
	return enc.Flush()
}

// RobotsTxt returns the robots policy: allow everything and point crawlers at
// the sitemap.
func RobotsTxt(base string) string {
	return "User-agent: *\nAllow: /\nSitemap: " + NormalizeBaseURL(base) + "/sitemap.xml"
}
