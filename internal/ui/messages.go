package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/glyphloader/internal/loader"
)

// Message types shared by the widget
type refreshMsg time.Time

type analysisDoneMsg struct{}

func refresh(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// analyzeCommand runs one manual cycle off the update loop
func analyzeCommand(ctx context.Context, ctrl *loader.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.TriggerAnalysis(ctx)
		return analysisDoneMsg{}
	}
}
