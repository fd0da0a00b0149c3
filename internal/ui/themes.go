package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/glyphloader/internal/loader"
)

// Theme represents a color theme for the widget
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	// Status badge colors
	Ready    lipgloss.AdaptiveColor
	Fallback lipgloss.AdaptiveColor
	Loading  lipgloss.AdaptiveColor

	Border lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor
	Faint  lipgloss.AdaptiveColor
}

func buildTheme(name string, primary, secondary, accent, ready, fallback, loading, border, muted, faint [2]string) Theme {
	return Theme{
		Name:      name,
		Primary:   lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary: lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Accent:    lipgloss.AdaptiveColor{Light: accent[0], Dark: accent[1]},
		Ready:     lipgloss.AdaptiveColor{Light: ready[0], Dark: ready[1]},
		Fallback:  lipgloss.AdaptiveColor{Light: fallback[0], Dark: fallback[1]},
		Loading:   lipgloss.AdaptiveColor{Light: loading[0], Dark: loading[1]},
		Border:    lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Muted:     lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Faint:     lipgloss.AdaptiveColor{Light: faint[0], Dark: faint[1]},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#1E40AF", "#3B82F6"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#7C3AED", "#A855F7"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#0891B2", "#06B6D4"},
		[2]string{"#D1D5DB", "#374151"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#D1D5DB", "#4B5563"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#000080", "#8080FF"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#0066CC", "#4499FF"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#999999", "#666666"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"}, [2]string{"#4A5568", "#CBD5E0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#2B6CB0", "#63B3ED"},
		[2]string{"#E2E8F0", "#2D3748"}, [2]string{"#A0AEC0", "#718096"}, [2]string{"#EDF2F7", "#4A5568"})
)

var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "default", "":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title lipgloss.Style
	Label lipgloss.Style
	Muted lipgloss.Style
	Box   lipgloss.Style

	Ready    lipgloss.Style
	Fallback lipgloss.Style
	Loading  lipgloss.Style

	// Sprite styles from most to least opaque
	Opaque      lipgloss.Style
	Translucent lipgloss.Style
	Dim         lipgloss.Style
	Faint       lipgloss.Style
}

// GetStyles builds styles from the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Ready:    lipgloss.NewStyle().Foreground(theme.Ready).Bold(true),
		Fallback: lipgloss.NewStyle().Foreground(theme.Fallback).Bold(true),
		Loading:  lipgloss.NewStyle().Foreground(theme.Loading),

		Opaque:      lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		Translucent: lipgloss.NewStyle().Foreground(theme.Accent),
		Dim:         lipgloss.NewStyle().Foreground(theme.Secondary),
		Faint:       lipgloss.NewStyle().Foreground(theme.Faint),
	}
}

// Render renders text unless colors are disabled
func (s *Styles) Render(style lipgloss.Style, text string) string {
	if IsColorDisabled() {
		return text
	}
	return style.Render(text)
}

// Status returns the badge style for a status state
func (s *Styles) Status(state loader.StatusState) lipgloss.Style {
	switch state {
	case loader.StatusReady:
		return s.Ready
	case loader.StatusFallback:
		return s.Fallback
	default:
		return s.Loading
	}
}

// Alpha picks a sprite style for an opacity in [0,1]
func (s *Styles) Alpha(alpha float64) lipgloss.Style {
	switch {
	case alpha >= 0.75:
		return s.Opaque
	case alpha >= 0.5:
		return s.Translucent
	case alpha >= 0.3:
		return s.Dim
	default:
		return s.Faint
	}
}
