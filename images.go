package folio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"folio/catalog"
)

// Open Graph cards are drawn on a small canvas with the 7x13 bitmap face and
// scaled up, so the text stays legible at the 1200x630 size social sites use.
const (
	cardWidth    = 1200
	cardHeight   = 630
	cardScale    = 3
	canvasWidth  = cardWidth / cardScale
	canvasHeight = cardHeight / cardScale
	cardMargin   = 16
	lineHeight   = 16
	maxTitleRows = 4
)

var (
	cardBackground = color.RGBA{0x1b, 0x1f, 0x24, 0xff}
	cardAccent     = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	cardText       = color.RGBA{0xf5, 0xf5, 0xf5, 0xff}
	cardMuted      = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
)

type cardCache struct {
	mu    sync.Mutex
	cards map[string][]byte
}

func newCardCache() *cardCache {
	return &cardCache{cards: make(map[string][]byte)}
}

// get returns the cached PNG for slug, rendering it with build on a miss.
func (c *cardCache) get(slug string, build func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.cards[slug]; ok {
		return b, nil
	}
	b, err := build()
	if err != nil {
		return nil, err
	}
	c.cards[slug] = b
	return b, nil
}

func (a *App) handleProjectCard(c echo.Context) error {
	p, err := a.Catalog.FindBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	data, err := a.cards.get(p.Slug, func() ([]byte, error) {
		return renderCard(p, a.Config.Name)
	})
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// renderCard draws the project title, tags and site name and encodes the
// result as PNG.
func renderCard(p catalog.Project, siteName string) ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, 4, canvasHeight), image.NewUniform(cardAccent), image.Point{}, draw.Src)

	maxChars := (canvasWidth - 2*cardMargin) / basicfont.Face7x13.Advance
	y := cardMargin + lineHeight
	for _, line := range wrapText(p.Title, maxChars, maxTitleRows) {
		drawText(canvas, line, cardMargin, y, cardText)
		y += lineHeight
	}
	if len(p.Tags) > 0 {
		drawText(canvas, truncate(strings.Join(p.Tags, ", "), maxChars), cardMargin, canvasHeight-cardMargin-lineHeight, cardAccent)
	}
	drawText(canvas, truncate(siteName, maxChars), cardMargin, canvasHeight-cardMargin, cardMuted)

	card := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	draw.NearestNeighbor.Scale(card, card.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, card); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}

func drawText(dst draw.Image, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// wrapText splits s into at most maxRows lines of at most width runes,
// breaking on spaces. Overflow is marked with "...".
func wrapText(s string, width, maxRows int) []string {
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
		for len(cur) > width {
			lines = append(lines, string(cur[:width]))
			cur = cur[width:]
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	if len(lines) > maxRows {
		lines = lines[:maxRows]
		lines[maxRows-1] = truncate(lines[maxRows-1]+"...", width)
	}
	return lines
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
