package ui

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/glyphloader/internal/animator"
	"github.com/yildizm/glyphloader/internal/glyph"
	"github.com/yildizm/glyphloader/internal/loader"
)

var percentRe = regexp.MustCompile(`(\d+)%`)

type cell struct {
	glyph string
	alpha float64
	large bool
	// cont marks the right half of a double-width glyph
	cont bool
}

// Canvas is a terminal render target. The animator draws into it from its
// own goroutine; the widget reads it when redrawing. It also receives the
// controller's status updates.
type Canvas struct {
	cols int
	rows int

	mu         sync.Mutex
	attached   bool
	cells      [][]cell
	status     loader.StatusState
	statusText string
	percent    int
	label      string
	position   loader.Position
}

// NewCanvas creates an attached canvas of cols x rows cells
func NewCanvas(cols, rows int) *Canvas {
	if cols <= 0 {
		cols = DefaultCols
	}
	if rows <= 0 {
		rows = DefaultRows
	}
	c := &Canvas{
		cols:       cols,
		rows:       rows,
		attached:   true,
		status:     loader.StatusLoading,
		statusText: "Starting...",
		percent:    -1,
	}
	c.cells = c.blank()
	return c
}

func (c *Canvas) blank() [][]cell {
	cells := make([][]cell, c.rows)
	for i := range cells {
		cells[i] = make([]cell, c.cols)
	}
	return cells
}

// Size returns the canvas size in pixels
func (c *Canvas) Size() (float64, float64) {
	return float64(c.cols) * CellWidth, float64(c.rows) * CellHeight
}

func (c *Canvas) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

// Detach removes the canvas from the host. The animator stops drawing into
// it on the next frame.
func (c *Canvas) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attached = false
}

func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cells = c.blank()
}

// Draw places a sprite in the cell under its pixel position. Sprites
// outside the canvas are dropped.
func (c *Canvas) Draw(s animator.Sprite) {
	col := int(s.X / CellWidth)
	row := int(s.Y / CellHeight)
	if s.X < 0 || s.Y < 0 || col >= c.cols || row >= c.rows {
		return
	}

	g := glyph.For(s.Name)
	wide := lipgloss.Width(g) > 1

	c.mu.Lock()
	defer c.mu.Unlock()

	line := c.cells[row]
	if wide && col == c.cols-1 {
		col--
		if col < 0 {
			return
		}
	}
	// overwriting half of a wide glyph clears the other half
	if line[col].cont && col > 0 {
		line[col-1] = cell{}
	}
	if col+1 < c.cols && line[col+1].cont {
		line[col+1] = cell{}
	}

	line[col] = cell{glyph: g, alpha: s.Alpha, large: s.Size >= 40}
	if wide {
		if col+2 < c.cols && line[col+2].cont {
			line[col+2] = cell{}
		}
		line[col+1] = cell{cont: true}
	}
}

// Render draws the current frame, one line per row
func (c *Canvas) Render(styles *Styles) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	for r, line := range c.cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range line {
			switch {
			case cl.cont:
			case cl.glyph == "":
				b.WriteByte(' ')
			default:
				style := styles.Alpha(cl.alpha)
				if cl.large {
					style = style.Bold(true)
				}
				b.WriteString(styles.Render(style, cl.glyph))
			}
		}
	}
	return b.String()
}

// SetStatus records the status badge. A percentage in a loading text
// drives the progress bar.
func (c *Canvas) SetStatus(state loader.StatusState, text string) {
	percent := -1
	if state == loader.StatusLoading {
		if m := percentRe.FindStringSubmatch(text); m != nil {
			percent, _ = strconv.Atoi(m[1])
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = state
	c.statusText = text
	c.percent = percent
}

func (c *Canvas) SetLabel(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.label = label
}

func (c *Canvas) SetPosition(p loader.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

// Status returns the badge state, its text and the load percentage (-1 when
// not loading)
func (c *Canvas) Status() (loader.StatusState, string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.statusText, c.percent
}

// Label returns the caption under the canvas
func (c *Canvas) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}

// Position returns the placement preset
func (c *Canvas) Position() loader.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}
