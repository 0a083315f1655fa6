package analytics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Tracker records page views from inside the request pipeline.
type Tracker struct {
	store *Store
	salt  string
	now   func() time.Time
}

// NewTracker loads (or creates) the hashing salt and returns a Tracker.
func NewTracker(ctx context.Context, store *Store) (*Tracker, error) {
	salt, err := store.Salt(ctx)
	if err != nil {
		return nil, fmt.Errorf("init analytics salt: %w", err)
	}
	return &Tracker{store: store, salt: salt, now: time.Now}, nil
}

// Middleware records successful GET requests that are not skipped. Requests
// carrying "DNT: 1" are never recorded. Storage errors are logged and never
// fail the request.
func (t *Tracker) Middleware(skipper middleware.Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			req := c.Request()
			if err != nil || req.Method != http.MethodGet || c.Response().Status != http.StatusOK {
				return err
			}
			if (skipper != nil && skipper(c)) || req.Header.Get("DNT") == "1" {
				return nil
			}
			if rerr := t.Record(req.Context(), req.URL.Path, req.Referer(), req.UserAgent(), c.RealIP(), req.Host); rerr != nil {
				c.Logger().Errorf("record visit: %v", rerr)
			}
			return nil
		}
	}
}

// Record stores one page view, routing crawlers to the bot table.
func (t *Tracker) Record(ctx context.Context, path, referrer, userAgent, ip, host string) error {
	now := t.now().UTC()
	if name := BotName(userAgent); name != "" {
		return t.store.SaveBotVisit(ctx, BotVisit{BotName: name, Path: path, Timestamp: now})
	}
	browser, os, device := ParseUserAgent(userAgent)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return t.store.SaveVisit(ctx, Visit{
		VisitorID: visitorID(t.salt, ip, userAgent, now),
		Path:      path,
		Referrer:  CleanReferrer(referrer, host),
		Browser:   browser,
		OS:        os,
		Device:    device,
		Timestamp: now,
	})
}

// Handler serves the analytics JSON API.
type Handler struct {
	store *Store
	now   func() time.Time
}

// NewHandler creates a Handler backed by store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

// StatsResponse is the JSON body of the stats endpoint.
type StatsResponse struct {
	Stats      *Stats `json:"stats"`
	PeriodDays int    `json:"period_days"`
}

// GetStats returns aggregated statistics as JSON. The "period" query
// parameter accepts today, week, month or year (default week).
func (h *Handler) GetStats(c echo.Context) error {
	stats, days, err := h.Stats(c.Request().Context(), c.QueryParam("period"))
	if err != nil {
		c.Logger().Errorf("get stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, StatsResponse{Stats: stats, PeriodDays: days})
}

// Stats resolves a period name and aggregates the matching range.
func (h *Handler) Stats(ctx context.Context, period string) (*Stats, int, error) {
	days := PeriodDays(period)
	from, to := calcTimeRange(h.now().UTC(), days)
	stats, err := h.store.GetStats(ctx, from, to)
	if err != nil {
		return nil, 0, err
	}
	return stats, days, nil
}

// RegisterRoutes mounts the API on an already-authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/analytics/api/stats", h.GetStats)
}

// PeriodDays maps a period name to a number of days.
func PeriodDays(period string) int {
	switch period {
	case "today":
		return 1
	case "month":
		return 30
	case "year":
		return 365
	default:
		return 7
	}
}

// calcTimeRange returns whole UTC days: the last days-1 full days plus today.
func calcTimeRange(now time.Time, days int) (time.Time, time.Time) {
	today := now.Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -(days - 1)), today.Add(24 * time.Hour)
}
