package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders model load progress as a fixed-width bar
type ProgressBar struct {
	Width   int
	Percent int
	Style   lipgloss.Style
	Muted   lipgloss.Style
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) *ProgressBar {
	return &ProgressBar{
		Width: width,
		Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
}

// SetPercent updates the progress, clamped to 0..100
func (p *ProgressBar) SetPercent(percent int) {
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}
	p.Percent = percent
}

// Render renders the progress bar
func (p *ProgressBar) Render() string {
	if p.Width <= 0 {
		return fmt.Sprintf("%d%%", p.Percent)
	}

	filledWidth := p.Width * p.Percent / 100
	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", p.Width-filledWidth)

	return fmt.Sprintf("[%s%s] %3d%%", p.Style.Render(filled), p.Muted.Render(empty), p.Percent)
}

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Style lipgloss.Style
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
	}
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	return s.Style.Render(string(spinnerFrames[s.Frame]))
}
