package views

import (
	"github.com/a-h/templ"

	"folio/seo"
)

// Dashboard is the analytics summary shown to the site owner.
type Dashboard struct {
	Period         string
	TotalViews     int
	UniqueVisitors int
	BotVisits      int
	TopPages       []Count
	Referrers      []Count
	Browsers       []Count
	Devices        []Count
	Bots           []Count
}

// Count is one row of a breakdown table.
type Count struct {
	Name  string
	Count int
}

// AdminLogin renders the password form.
func AdminLogin(site Site, showError bool, csrfToken string) templ.Component {
	return render("admin_login", pageData{
		Site:      site,
		Meta:      seo.PageMeta{Title: seo.Title("Admin", site.Name)},
		ShowError: showError,
		CSRF:      csrfToken,
	})
}

// AdminDashboard renders the analytics dashboard.
func AdminDashboard(site Site, d Dashboard, csrfToken string) templ.Component {
	return render("admin_dashboard", pageData{
		Site:      site,
		Meta:      seo.PageMeta{Title: seo.Title("Analytics", site.Name)},
		CSRF:      csrfToken,
		Dashboard: &d,
	})
}
