package folio

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"

	"folio/catalog"
)

// SiteConfig holds all configuration for a portfolio site.
type SiteConfig struct {
	Name        string `env:"SITE_NAME"`        // Site name (default "Portfolio")
	URL         string `env:"SITE_URL"`         // Canonical base URL (default "http://localhost:3000")
	Description string `env:"SITE_DESCRIPTION"` // Used for meta tags, JSON-LD and RSS
	Author      string `env:"SITE_AUTHOR"`      // Person the portfolio belongs to
	Tagline     string `env:"SITE_TAGLINE"`
	Email       string `env:"SITE_EMAIL"`
	GitHubURL   string `env:"SITE_GITHUB_URL"`
	LinkedInURL string `env:"SITE_LINKEDIN_URL"`
	CVPath      string `env:"SITE_CV_PATH"` // Link to a downloadable CV, optional

	Addr        string `env:"ADDR"`         // Listen address (default ":3000")
	LogLevel    string `env:"LOG_LEVEL"`    // debug, info, warn, error or off (default info)
	CatalogPath string `env:"CATALOG_PATH"` // YAML file replacing the embedded catalog

	AnalyticsEnabled       bool   `env:"ANALYTICS_ENABLED"`
	AnalyticsDatabasePath  string `env:"ANALYTICS_DATABASE_PATH"`  // default "data/analytics.db"
	AnalyticsRetentionDays int    `env:"ANALYTICS_RETENTION_DAYS"` // default 365

	AdminPassword     string `env:"ADMIN_PASSWORD"`       // Plain admin password
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`  // bcrypt hash, takes precedence over AdminPassword
	SessionSecret     string `env:"ADMIN_SESSION_SECRET"` // Required when analytics is enabled
	CookieSecure      bool   `env:"COOKIE_SECURE"`        // Set true for HTTPS

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"` // default 10s
}

// LoadConfigFromEnv reads a SiteConfig from the environment and applies
// defaults.
func LoadConfigFromEnv() (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Author == "" {
		c.Author = c.Name
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.AnalyticsRetentionDays <= 0 {
		c.AnalyticsRetentionDays = 365
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Validate reports configuration that would make the site misbehave.
func (c SiteConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SITE_URL must be an absolute http(s) URL, got %q", c.URL)
	}
	if c.AnalyticsEnabled {
		if c.AdminPassword == "" && c.AdminPasswordHash == "" {
			return errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required when analytics is enabled")
		}
		if c.SessionSecret == "" {
			return errors.New("ADMIN_SESSION_SECRET is required when analytics is enabled")
		}
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCatalog serves cat instead of the file at CatalogPath or the embedded
// catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(a *App) {
		a.Catalog = cat
	}
}

// WithViews replaces the default page components. Nil fields keep their
// defaults.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = mergeViews(a.Views, v)
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
