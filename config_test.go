package folio

import (
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SITE_NAME", "Jane's Work")
	t.Setenv("SITE_URL", "https://jane.dev")
	t.Setenv("SITE_AUTHOR", "Jane Doe")
	t.Setenv("ANALYTICS_ENABLED", "true")
	t.Setenv("ANALYTICS_RETENTION_DAYS", "90")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Name != "Jane's Work" || cfg.URL != "https://jane.dev" || cfg.Author != "Jane Doe" {
		t.Errorf("site fields = %q %q %q", cfg.Name, cfg.URL, cfg.Author)
	}
	if !cfg.AnalyticsEnabled || cfg.AnalyticsRetentionDays != 90 {
		t.Errorf("analytics = %v/%d, want true/90", cfg.AnalyticsEnabled, cfg.AnalyticsRetentionDays)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 3s", cfg.ShutdownTimeout)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q, want default :3000", cfg.Addr)
	}
}

func TestLoadConfigFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("ANALYTICS_ENABLED", "maybe")
	if _, err := LoadConfigFromEnv(); err == nil {
		t.Error("expected error for non-boolean ANALYTICS_ENABLED")
	}
}

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()
	if cfg.Name != "Portfolio" || cfg.Author != "Portfolio" {
		t.Errorf("Name/Author = %q/%q", cfg.Name, cfg.Author)
	}
	if cfg.URL != "http://localhost:3000" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.AnalyticsDatabasePath != "data/analytics.db" || cfg.AnalyticsRetentionDays != 365 {
		t.Errorf("analytics defaults = %q/%d", cfg.AnalyticsDatabasePath, cfg.AnalyticsRetentionDays)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SiteConfig
		wantErr bool
	}{
		{"https", SiteConfig{URL: "https://example.com"}, false},
		{"http with port", SiteConfig{URL: "http://localhost:3000"}, false},
		{"no scheme", SiteConfig{URL: "example.com"}, true},
		{"ftp", SiteConfig{URL: "ftp://example.com"}, true},
		{"empty", SiteConfig{}, true},
		{"analytics without password", SiteConfig{URL: "https://example.com", AnalyticsEnabled: true, SessionSecret: "x"}, true},
		{"analytics without secret", SiteConfig{URL: "https://example.com", AnalyticsEnabled: true, AdminPassword: "x"}, true},
		{"analytics complete", SiteConfig{URL: "https://example.com", AnalyticsEnabled: true, AdminPassword: "x", SessionSecret: "y"}, false},
		{"analytics with hash", SiteConfig{URL: "https://example.com", AnalyticsEnabled: true, AdminPasswordHash: "$2a$...", SessionSecret: "y"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
