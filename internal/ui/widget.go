package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/glyphloader/internal/glyph"
	"github.com/yildizm/glyphloader/internal/loader"
	"github.com/yildizm/glyphloader/internal/ui/components"
)

const helpText = "m mode • p position • a analyze • j/k scroll • v hide • q quit"

// WidgetModel is the bubbletea program around a running controller
type WidgetModel struct {
	ctx    context.Context
	opts   Options
	styles *Styles

	spinner *components.Spinner
	bar     *components.ProgressBar

	width     int
	height    int
	ready     bool
	analyzing bool
	quitting  bool
}

// NewWidgetModel creates the widget. The controller must already be
// initialized with opts.Canvas as its surface and status sink.
func NewWidgetModel(ctx context.Context, opts Options) *WidgetModel {
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	if opts.Title == "" {
		opts.Title = "glyphloader"
	}
	return &WidgetModel{
		ctx:     ctx,
		opts:    opts,
		styles:  GetStyles(),
		spinner: components.NewSpinner(),
		bar:     components.NewProgressBar(12),
	}
}

// Init starts the redraw ticker
func (m *WidgetModel) Init() tea.Cmd {
	return refresh(m.opts.Refresh)
}

// Update handles messages
func (m *WidgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case refreshMsg:
		if m.quitting {
			return m, nil
		}
		m.spinner.Tick()
		return m, refresh(m.opts.Refresh)

	case analysisDoneMsg:
		m.analyzing = false
	}

	return m, nil
}

func (m *WidgetModel) handleKey(key string) tea.Cmd {
	ctrl := m.opts.Controller

	switch key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "m":
		ctrl.ToggleMode()
	case "p":
		ctrl.TogglePosition()
	case "a":
		if m.analyzing {
			return nil
		}
		m.analyzing = true
		return analyzeCommand(m.ctx, ctrl)
	case "v":
		ctrl.SetVisible(!ctrl.Visible())
	case "j", "down":
		if m.opts.Scroller != nil {
			m.opts.Scroller.Scroll(ScrollStep)
		}
	case "k", "up":
		if m.opts.Scroller != nil {
			m.opts.Scroller.Scroll(-ScrollStep)
		}
	}
	return nil
}

// View renders the widget box at its placement preset
func (m *WidgetModel) View() string {
	if m.quitting {
		return ""
	}

	box := m.styles.Box.Render(m.body())
	if !m.ready {
		return box
	}

	h, v := placement(m.opts.Canvas.Position())
	return lipgloss.Place(m.width, m.height, h, v, box)
}

func (m *WidgetModel) body() string {
	ctrl := m.opts.Controller
	s := m.styles

	mode := "stopped"
	if anim := ctrl.Animator(); anim != nil {
		mode = anim.Mode().String()
	}
	title := s.Render(s.Title, m.opts.Title) + s.Render(s.Muted, fmt.Sprintf("  %s • %s • %d cycles", mode, m.opts.Canvas.Position(), ctrl.Stats().Cycles))

	var canvas string
	if ctrl.Visible() {
		canvas = m.opts.Canvas.Render(s)
	} else {
		canvas = lipgloss.Place(m.opts.Canvas.cols, m.opts.Canvas.rows, lipgloss.Center, lipgloss.Center,
			s.Render(s.Muted, "paused"))
	}

	label := m.opts.Canvas.Label()
	if label == "" {
		label = "..."
	}

	lines := []string{
		title,
		m.statusLine(),
		canvas,
		s.Render(s.Label, label),
		s.Render(s.Muted, helpText),
	}
	return strings.Join(lines, "\n")
}

func (m *WidgetModel) statusLine() string {
	s := m.styles
	state, text, percent := m.opts.Canvas.Status()

	badge := glyph.For("status_" + string(state))
	line := badge + " " + s.Render(s.Status(state), text)
	if state == loader.StatusLoading {
		if percent >= 0 {
			m.bar.SetPercent(percent)
			line += " " + m.bar.Render()
		} else {
			line += " " + m.spinner.Render()
		}
	}
	if m.analyzing {
		line += s.Render(s.Muted, "  analyzing")
	}
	return line
}

func placement(p loader.Position) (lipgloss.Position, lipgloss.Position) {
	switch p {
	case loader.PositionBottomLeft:
		return lipgloss.Left, lipgloss.Bottom
	case loader.PositionCenter:
		return lipgloss.Center, lipgloss.Center
	default:
		return lipgloss.Right, lipgloss.Bottom
	}
}

// Run runs the widget until the user quits
func Run(ctx context.Context, opts Options) error {
	model := NewWidgetModel(ctx, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
