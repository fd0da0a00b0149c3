package ui

import (
	"time"

	"github.com/yildizm/glyphloader/internal/loader"
	"github.com/yildizm/glyphloader/internal/page"
)

// Canvas geometry in pixels per terminal cell. Sprites are positioned in
// pixels so the animation math stays the same on every surface.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Default canvas size in cells
const (
	DefaultCols = 40
	DefaultRows = 10
)

// DefaultRefresh is how often the terminal is redrawn
const DefaultRefresh = 50 * time.Millisecond

// ScrollStep is how far j/k scroll the page, in pixels
const ScrollStep = 120.0

// Options configures the widget program
type Options struct {
	Controller *loader.Controller
	Canvas     *Canvas
	// Scroller is optional; j/k are ignored without it
	Scroller page.Scroller
	Title    string
	Refresh  time.Duration
}
