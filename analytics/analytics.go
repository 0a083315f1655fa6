// Package analytics records privacy-friendly page views for the portfolio:
// no cookies, no client script, IP addresses only ever stored as salted
// hashes. Crawlers are counted separately from people.
package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

// Visit is a single human page view.
type Visit struct {
	VisitorID string
	Path      string
	Referrer  string
	Browser   string
	OS        string
	Device    string
	Timestamp time.Time
}

// BotVisit is a single crawler page view.
type BotVisit struct {
	BotName   string
	Path      string
	Timestamp time.Time
}

// Stats holds aggregated analytics for a time range.
type Stats struct {
	Period         string          `json:"period"`
	TotalViews     int             `json:"total_views"`
	UniqueVisitors int             `json:"unique_visitors"`
	BotVisits      int             `json:"bot_visits"`
	TopPages       []PageStat      `json:"top_pages"`
	Referrers      []DimensionStat `json:"referrers"`
	Browsers       []DimensionStat `json:"browsers"`
	Devices        []DimensionStat `json:"devices"`
	Bots           []DimensionStat `json:"bots"`
	DailyViews     []DailyView     `json:"daily_views"`
}

// PageStat is the view count of one path.
type PageStat struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DimensionStat is one row of a breakdown (browser, referrer, ...).
type DimensionStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyView is the number of views on one UTC day.
type DailyView struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// visitorID derives an anonymous, salted identifier from IP and User-Agent.
// The day is mixed in so identifiers cannot be linked across days.
func visitorID(salt, ip, userAgent string, day time.Time) string {
	h := sha256.New()
	h.Write([]byte(salt + "|" + ip + "|" + userAgent + "|" + day.UTC().Format("2006-01-02")))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ParseUserAgent extracts browser, OS and device class from a User-Agent.
// Order matters in each switch: the more specific tokens come first.
func ParseUserAgent(ua string) (browser, os, device string) {
	ua = strings.ToLower(ua)

	switch {
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "opr") || strings.Contains(ua, "opera"):
		browser = "Opera"
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	default:
		browser = "Other"
	}

	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		os = "iOS"
	case strings.Contains(ua, "macintosh") || strings.Contains(ua, "mac os"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	default:
		os = "Other"
	}

	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		device = "Tablet"
	case strings.Contains(ua, "mobile"):
		device = "Mobile"
	default:
		device = "Desktop"
	}
	return browser, os, device
}

// knownBots maps User-Agent tokens to display names, most specific first.
var knownBots = []struct {
	token string
	name  string
}{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"duckduckbot", "DuckDuckBot"},
	{"yandex", "Yandex"},
	{"baidu", "Baidu"},
	{"applebot", "Applebot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"mj12bot", "Majestic"},
	{"dotbot", "Moz"},
	{"slurp", "Yahoo Slurp"},
	{"crawler", "Generic Crawler"},
	{"spider", "Generic Spider"},
}

// BotName reports the crawler name for ua, or "" when ua looks like a person.
func BotName(ua string) string {
	ua = strings.ToLower(ua)
	if ua == "" {
		return "Unknown"
	}
	for _, b := range knownBots {
		if strings.Contains(ua, b.token) {
			return b.name
		}
	}
	for _, token := range []string{"bot", "crawl", "scrape", "curl/", "wget/", "python-requests", "go-http-client"} {
		if strings.Contains(ua, token) {
			return "Other Bot"
		}
	}
	return ""
}

var referrerDomain = regexp.MustCompile(`^https?://(?:www\.)?([^/:?#]+)`)

// CleanReferrer reduces a referrer URL to a source name. Referrers from
// ownHost count as "Internal".
func CleanReferrer(ref, ownHost string) string {
	if ref == "" {
		return "Direct"
	}
	m := referrerDomain.FindStringSubmatch(ref)
	if len(m) < 2 {
		return "Other"
	}
	host := strings.ToLower(m[1])
	if ownHost != "" && strings.TrimPrefix(strings.ToLower(ownHost), "www.") == host {
		return "Internal"
	}
	for _, engine := range []struct{ token, name string }{
		{"google.", "Google"},
		{"bing.", "Bing"},
		{"duckduckgo.", "DuckDuckGo"},
		{"yahoo.", "Yahoo"},
		{"github.", "GitHub"},
		{"linkedin.", "LinkedIn"},
	} {
		if strings.Contains(host, engine.token) {
			return engine.name
		}
	}
	return host
}
