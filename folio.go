// Package folio serves an engineer's portfolio: a fixed catalog of project
// case studies, static about/CV/contact pages, and the sitemap, robots.txt
// and RSS feed that make them discoverable. Optional server-side analytics
// come with a small password-protected dashboard.
//
// Page rendering goes through ViewFuncs, so every page can be replaced with
// a user-supplied templ component while folio keeps the handler logic,
// middleware and SEO plumbing.
package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"folio/analytics"
	"folio/catalog"
	"folio/seo"
	"folio/views"
)

// ViewFuncs holds the components the handlers render. New fills it with the
// defaults from the views package.
type ViewFuncs struct {
	Home           func(site views.Site, meta seo.PageMeta, featured []catalog.Project) templ.Component
	Projects       func(site views.Site, meta seo.PageMeta, projects []catalog.Project) templ.Component
	Project        func(site views.Site, meta seo.PageMeta, p catalog.Project) templ.Component
	About          func(site views.Site, meta seo.PageMeta) templ.Component
	CV             func(site views.Site, meta seo.PageMeta) templ.Component
	Contact        func(site views.Site, meta seo.PageMeta) templ.Component
	AdminLogin     func(site views.Site, showError bool, csrfToken string) templ.Component
	AdminDashboard func(site views.Site, d views.Dashboard, csrfToken string) templ.Component
	NotFound       func(site views.Site) templ.Component
	ServerError    func(site views.Site) templ.Component
}

// DefaultViews returns the built-in page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.Home,
		Projects:       views.Projects,
		Project:        views.Project,
		About:          views.About,
		CV:             views.CV,
		Contact:        views.Contact,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

func mergeViews(base, override ViewFuncs) ViewFuncs {
	if override.Home != nil {
		base.Home = override.Home
	}
	if override.Projects != nil {
		base.Projects = override.Projects
	}
	if override.Project != nil {
		base.Project = override.Project
	}
	if override.About != nil {
		base.About = override.About
	}
	if override.CV != nil {
		base.CV = override.CV
	}
	if override.Contact != nil {
		base.Contact = override.Contact
	}
	if override.AdminLogin != nil {
		base.AdminLogin = override.AdminLogin
	}
	if override.AdminDashboard != nil {
		base.AdminDashboard = override.AdminDashboard
	}
	if override.NotFound != nil {
		base.NotFound = override.NotFound
	}
	if override.ServerError != nil {
		base.ServerError = override.ServerError
	}
	return base
}

// App is the central folio application. It wires together the catalog,
// handlers, middleware, analytics and views.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Catalog *catalog.Catalog
	Views   ViewFuncs

	site           views.Site
	analyticsStore *analytics.Store
	tracker        *analytics.Tracker
	statsHandler   *analytics.Handler
	loginLimiter   *LoginLimiter
	stopCleanup    func()
	cards          *cardCache
	customRoutes   []func(*App)
	setupOnce      sync.Once
	setupErr       error
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()
	cfg.URL = seo.NormalizeBaseURL(cfg.URL)

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  DefaultViews(),
		cards:  newCardCache(),
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLogLevel(cfg.LogLevel))
	a.site = views.Site{
		Name:        cfg.Name,
		URL:         cfg.URL,
		Description: cfg.Description,
		Author:      cfg.Author,
		Tagline:     cfg.Tagline,
		Email:       cfg.Email,
		GitHubURL:   cfg.GitHubURL,
		LinkedInURL: cfg.LinkedInURL,
		CVPath:      cfg.CVPath,
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup validates the configuration, loads the catalog, opens the analytics
// store when enabled, and registers middleware and routes. It runs once;
// later calls return the first result.
func (a *App) Setup() error {
	a.setupOnce.Do(func() {
		a.setupErr = a.setup()
	})
	return a.setupErr
}

func (a *App) setup() error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("folio: %w", err)
	}

	if a.Catalog == nil {
		if a.Config.CatalogPath != "" {
			cat, err := catalog.LoadFile(a.Config.CatalogPath)
			if err != nil {
				return fmt.Errorf("folio: %w", err)
			}
			a.Catalog = cat
		} else {
			a.Catalog = catalog.Default()
		}
	}

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("folio: init analytics: %w", err)
		}
		a.analyticsStore = store
		tracker, err := analytics.NewTracker(context.Background(), store)
		if err != nil {
			store.Close()
			a.analyticsStore = nil
			return fmt.Errorf("folio: %w", err)
		}
		a.tracker = tracker
		a.stopCleanup = store.StartCleanupScheduler(a.Config.AnalyticsRetentionDays, 24*time.Hour, a.Echo.Logger.Errorf)
		a.loginLimiter = NewLoginLimiter(5, time.Minute)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves HTTP until ctx is cancelled, then shuts
// down gracefully within Config.ShutdownTimeout.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		return err
	}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		a.Echo.Logger.Infof("serving %d projects on %s", a.Catalog.Len(), a.Config.Addr)
		errCh <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("folio: shutdown: %w", err)
	}
	return nil
}

// readMethods are the methods public routes answer; HEAD serves uptime
// checkers and link validators.
var readMethods = []string{http.MethodGet, http.MethodHead}

// parseLogLevel maps LOG_LEVEL to a gommon level, defaulting to INFO.
func parseLogLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.StaticFS("/static", staticFS())
	e.Match(readMethods, "/robots.txt", a.handleRobots)
	e.Match(readMethods, "/sitemap.xml", a.handleSitemap)
	e.Match(readMethods, "/feed.xml", a.handleFeed)
	e.Match(readMethods, "/healthz", a.handleHealth)

	pages := []struct {
		path    string
		handler echo.HandlerFunc
	}{
		{"/", a.handleHome},
		{"/projects/", a.handleProjects},
		{"/projects/:slug/", a.handleProject},
		{"/projects/:slug/card.png", a.handleProjectCard},
		{"/about/", a.handleStaticPage(seo.PageAbout, a.Views.About)},
		{"/cv/", a.handleStaticPage(seo.PageCV, a.Views.CV)},
		{"/contact/", a.handleStaticPage(seo.PageContact, a.Views.Contact)},
	}
	for _, p := range pages {
		e.Match(readMethods, p.path, p.handler)
	}

	if a.analyticsStore != nil {
		a.setupAdminRoutes()
	}
}

// Close releases the analytics store and background workers.
func (a *App) Close() error {
	if a.stopCleanup != nil {
		a.stopCleanup()
		a.stopCleanup = nil
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
	}
	return nil
}
