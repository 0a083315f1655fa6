package folio

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"folio/catalog"
	"folio/seo"
	"folio/views"
)

func (a *App) handleHome(c echo.Context) error {
	meta := seo.HomeMeta(a.Config.URL, a.Config.Author, a.Config.Tagline, a.Config.Description)
	return Render(c, a.Views.Home(a.site, meta, a.Catalog.Featured(catalog.FeaturedCount)))
}

func (a *App) handleProjects(c echo.Context) error {
	page, _ := seo.PageByID(seo.PageProjects)
	return Render(c, a.Views.Projects(a.site, page.Meta(a.Config.URL, a.Config.Author), a.Catalog.All()))
}

func (a *App) handleProject(c echo.Context) error {
	p, err := a.Catalog.FindBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site))
		}
		return err
	}
	return Render(c, a.Views.Project(a.site, seo.ProjectMeta(a.Config.URL, a.Config.Author, p), p))
}

func (a *App) handleStaticPage(id string, view func(views.Site, seo.PageMeta) templ.Component) echo.HandlerFunc {
	page, ok := seo.PageByID(id)
	if !ok {
		panic("folio: unknown static page " + id)
	}
	return func(c echo.Context) error {
		return Render(c, view(a.site, page.Meta(a.Config.URL, a.Config.Author)))
	}
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, seo.RobotsTxt(a.Config.URL))
}

func (a *App) handleSitemap(c echo.Context) error {
	entries := seo.BuildSitemapFeed(a.Config.URL, a.Catalog.All())
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return seo.WriteSitemap(c.Response(), entries)
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Catalog.All())
}

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"projects": a.Catalog.Len(),
	})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.site))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
