package folio

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"folio/analytics"
	"folio/views"
)

func (a *App) setupAdminRoutes() {
	g := a.Echo.Group("/admin", a.adminMiddleware()...)
	g.GET("/", a.handleAdmin)
	g.POST("/login/", a.handleAdminLogin)
	g.POST("/logout/", handleAdminLogout)

	a.statsHandler = analytics.NewHandler(a.analyticsStore)
	a.statsHandler.RegisterRoutes(g.Group("", requireAdmin))
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.site, false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c)
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	if a.checkPassword(c.FormValue("password")) {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.site, true, CsrfToken(c)))
}

func (a *App) checkPassword(pass string) bool {
	if a.Config.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.Config.AdminPasswordHash), []byte(pass)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context) error {
	stats, _, err := a.statsHandler.Stats(c.Request().Context(), c.QueryParam("period"))
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(a.site, dashboardFromStats(stats), CsrfToken(c)))
}

func dashboardFromStats(s *analytics.Stats) views.Dashboard {
	d := views.Dashboard{
		Period:         s.Period,
		TotalViews:     s.TotalViews,
		UniqueVisitors: s.UniqueVisitors,
		BotVisits:      s.BotVisits,
		Referrers:      counts(s.Referrers),
		Browsers:       counts(s.Browsers),
		Devices:        counts(s.Devices),
		Bots:           counts(s.Bots),
	}
	for _, p := range s.TopPages {
		d.TopPages = append(d.TopPages, views.Count{Name: p.Path, Count: p.Views})
	}
	return d
}

func counts(rows []analytics.DimensionStat) []views.Count {
	out := make([]views.Count, len(rows))
	for i, r := range rows {
		out[i] = views.Count{Name: r.Name, Count: r.Count}
	}
	return out
}
