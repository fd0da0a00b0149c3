package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yildizm/glyphloader/internal/loader"
	"github.com/yildizm/glyphloader/internal/logger"
	"github.com/yildizm/glyphloader/internal/ui"
)

var (
	runMode     string
	runPosition string
	runTheme    string
	runLogFile  string
	runCols     int
	runRows     int
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file|url]",
		Short: "Show the animated icon widget for a page",
		Long: `Open a page and show the icon widget in the terminal.

The widget samples the visible text of the page, resolves it to icons and
animates them. It refreshes periodically, after scrolling, when content is
added to the page and when the page becomes visible again.

Keys:
  m    next animation mode (float, pulse, rotate)
  p    next position (bottom-right, bottom-left, center)
  a    analyze now
  j/k  scroll the page
  v    hide / show (pauses everything while hidden)
  q    quit

Examples:
  glyphloader run article.html
  glyphloader run https://example.com
  glyphloader run --mode pulse --position center page.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWidget,
	}

	cmd.Flags().StringVar(&runMode, "mode", "", "animation mode (float, pulse, rotate)")
	cmd.Flags().StringVar(&runPosition, "position", "", "widget position (bottom-right, bottom-left, center)")
	cmd.Flags().StringVar(&runTheme, "theme", "default", "color theme (default, high-contrast, minimal)")
	cmd.Flags().StringVar(&runLogFile, "log-file", "", "write logs to this file while the widget runs")
	cmd.Flags().IntVar(&runCols, "cols", ui.DefaultCols, "canvas width in cells")
	cmd.Flags().IntVar(&runRows, "rows", ui.DefaultRows, "canvas height in cells")

	return cmd
}

func runWidget(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	if runMode != "" {
		cfg.Loader.AnimationMode = runMode
	}
	if runPosition != "" {
		cfg.Loader.Position = runPosition
	}
	if !ui.SetThemeByName(runTheme) {
		return fmt.Errorf("unknown theme: %s (available: %v)", runTheme, ui.GetAvailableThemes())
	}

	// the alt screen owns the terminal, so logs go to a file or nowhere
	logOut, closeLog, err := widgetLogOutput(runLogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.NewWithWriter("glyphloader", logger.VerboseFunc(isVerbose), logOut)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	pg, err := openPage(ctx, target, &cfg.Page, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := pg.Close(); err != nil {
			log.Warn("Failed to close page: %v", err)
		}
	}()

	registry, err := newRegistry()
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	provider, err := createProvider(registry, &cfg.Model)
	if err != nil {
		return err
	}
	model := newModelAnalyzer(provider, &cfg.Model, log)

	canvas := ui.NewCanvas(runCols, runRows)
	ctrl := loader.New(cfg.Loader, loader.Deps{
		Page:    pg,
		Surface: canvas,
		Model:   model,
		Status:  canvas,
	}, log)
	if err := ctrl.Init(ctx); err != nil {
		return err
	}
	defer ctrl.Destroy()

	err = ui.Run(ctx, ui.Options{
		Controller: ctrl,
		Canvas:     canvas,
		Scroller:   pg.Scroller,
		Title:      "glyphloader • " + filepath.Base(pg.Source),
	})
	canvas.Detach()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func widgetLogOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	// #nosec G304 - log path comes from the user's own flag
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
