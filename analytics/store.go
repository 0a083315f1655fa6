package analytics

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists visits in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the analytics database at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create analytics dir: %w", err)
	}
	// Pragmas in the DSN apply to every pooled connection.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Timestamps are stored as Unix seconds so range filters are plain integer
// comparisons.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			visitor_id TEXT NOT NULL,
			path TEXT NOT NULL,
			referrer TEXT NOT NULL,
			browser TEXT NOT NULL,
			os TEXT NOT NULL,
			device TEXT NOT NULL,
			ts INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS bot_visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bot_name TEXT NOT NULL,
			path TEXT NOT NULL,
			ts INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_ts ON visits(ts);
		CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);
		CREATE INDEX IF NOT EXISTS idx_bot_visits_ts ON bot_visits(ts);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// GetSetting returns a setting value, or "" when the key is not set.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting upserts a setting value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// Salt returns the per-installation hashing salt, generating and storing one
// on first use.
func (s *Store) Salt(ctx context.Context) (string, error) {
	salt, err := s.GetSetting(ctx, "hash_salt")
	if err != nil {
		return "", fmt.Errorf("read hash salt: %w", err)
	}
	if salt != "" {
		return salt, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt = hex.EncodeToString(b)
	if err := s.SetSetting(ctx, "hash_salt", salt); err != nil {
		return "", fmt.Errorf("store hash salt: %w", err)
	}
	return salt, nil
}

// SaveVisit stores a human page view.
func (s *Store) SaveVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visits (visitor_id, path, referrer, browser, os, device, ts) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.VisitorID, v.Path, v.Referrer, v.Browser, v.OS, v.Device, v.Timestamp.Unix())
	return err
}

// SaveBotVisit stores a crawler page view.
func (s *Store) SaveBotVisit(ctx context.Context, v BotVisit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bot_visits (bot_name, path, ts) VALUES (?, ?, ?)`,
		v.BotName, v.Path, v.Timestamp.Unix())
	return err
}

const topN = 10

// GetStats aggregates visits with from <= timestamp < to.
func (s *Store) GetStats(ctx context.Context, from, to time.Time) (*Stats, error) {
	f, t := from.Unix(), to.Unix()
	stats := &Stats{
		Period: from.UTC().Format("2006-01-02") + " to " + to.UTC().Format("2006-01-02"),
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT visitor_id) FROM visits WHERE ts >= ? AND ts < ?`, f, t).
		Scan(&stats.TotalViews, &stats.UniqueVisitors); err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bot_visits WHERE ts >= ? AND ts < ?`, f, t).
		Scan(&stats.BotVisits); err != nil {
		return nil, fmt.Errorf("count bot visits: %w", err)
	}

	pages, err := s.dimension(ctx, `SELECT path, COUNT(*) AS n FROM visits WHERE ts >= ? AND ts < ? GROUP BY path ORDER BY n DESC, path LIMIT `+strconv.Itoa(topN), f, t)
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}
	stats.TopPages = make([]PageStat, len(pages))
	for i, p := range pages {
		stats.TopPages[i] = PageStat{Path: p.Name, Views: p.Count}
	}

	breakdowns := []struct {
		name   string
		column string
		table  string
		dst    *[]DimensionStat
	}{
		{"referrers", "referrer", "visits", &stats.Referrers},
		{"browsers", "browser", "visits", &stats.Browsers},
		{"devices", "device", "visits", &stats.Devices},
		{"bots", "bot_name", "bot_visits", &stats.Bots},
	}
	for _, b := range breakdowns {
		q := `SELECT ` + b.column + `, COUNT(*) AS n FROM ` + b.table +
			` WHERE ts >= ? AND ts < ? GROUP BY ` + b.column + ` ORDER BY n DESC, ` + b.column + ` LIMIT ` + strconv.Itoa(topN)
		rows, err := s.dimension(ctx, q, f, t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.name, err)
		}
		*b.dst = rows
	}

	daily, err := s.dimension(ctx, `SELECT strftime('%Y-%m-%d', ts, 'unixepoch') AS day, COUNT(*) FROM visits WHERE ts >= ? AND ts < ? GROUP BY day ORDER BY day`, f, t)
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	stats.DailyViews = make([]DailyView, len(daily))
	for i, d := range daily {
		stats.DailyViews[i] = DailyView{Date: d.Name, Views: d.Count}
	}
	return stats, nil
}

func (s *Store) dimension(ctx context.Context, query string, args ...interface{}) ([]DimensionStat, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DimensionStat{}
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CleanupOldVisits removes visits older than the retention period.
func (s *Store) CleanupOldVisits(ctx context.Context, retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM visits WHERE ts < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup visits: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bot_visits WHERE ts < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup bot_visits: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs CleanupOldVisits every interval until the
// returned stop function is called. Errors go to logf.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration, logf func(format string, args ...interface{})) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.CleanupOldVisits(context.Background(), retentionDays); err != nil {
					logf("analytics cleanup: %v", err)
				}
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}
