package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/yildizm/glyphloader/internal/ai"
	"github.com/yildizm/glyphloader/internal/analyzer"
	"github.com/yildizm/glyphloader/internal/catalog"
	"github.com/yildizm/glyphloader/internal/formatter"
	"github.com/yildizm/glyphloader/internal/keywords"
	"github.com/yildizm/glyphloader/internal/loader"
	"github.com/yildizm/glyphloader/internal/resolver"
	"github.com/yildizm/glyphloader/internal/sampler"
)

var (
	analyzeTimeout    time.Duration
	analyzeNoModel    bool
	analyzeOutputFile string
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file|url]",
		Short: "Resolve the icons for a page once and print a report",
		Long: `Sample the visible text of a page once, resolve it to concepts and icons,
and print a report.

The model is loaded first when one is configured. If it cannot be loaded the
keyword vocabulary is used instead, exactly as the widget does.

Examples:
  glyphloader analyze article.html
  glyphloader analyze -o json https://example.com
  glyphloader analyze --no-model --output-file report.md -o markdown page.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 3*time.Minute, "overall analysis timeout")
	cmd.Flags().BoolVar(&analyzeNoModel, "no-model", false, "skip the model and use keywords only")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	log := newLogger("analyze")

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

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

	doc, err := pg.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}
	text := strings.TrimSpace(sampler.New().SampleDocument(doc))
	if n := utf8.RuneCountInString(text); n < loader.MinContentLength {
		return fmt.Errorf("%w: %d characters visible, need %d", loader.ErrAnalysisEmpty, n, loader.MinContentLength)
	}

	providerName := ai.UnavailableName
	var model *analyzer.ModelAnalyzer
	if !analyzeNoModel && cfg.Model.Provider != "" && cfg.Model.Provider != ai.UnavailableName {
		registry, err := newRegistry()
		if err != nil {
			return err
		}
		defer func() { _ = registry.Close() }()

		provider, err := createProvider(registry, &cfg.Model)
		if err != nil {
			return err
		}
		providerName = provider.Name()
		model = newModelAnalyzer(provider, &cfg.Model, log)

		progress := newLoadProgress(os.Stderr)
		if err := model.Load(ctx, progress.update); err != nil {
			log.Warn("Model unavailable, using keywords: %v", err)
		}
		progress.finish()
	}

	var conceptModel resolver.ConceptModel
	if model != nil {
		conceptModel = model
	}
	res := resolver.New(conceptModel, keywords.NewExtractor(), catalog.New(), resolver.Options{
		MaxConcepts:      cfg.Loader.MaxConcepts,
		FallbackConcepts: cfg.Loader.FallbackConcepts,
		FallbackIcons:    cfg.Loader.FallbackIcons,
	}, log).Resolve(ctx, text)

	report := &formatter.Report{
		Page:        pg.Source,
		Text:        text,
		Resolution:  res,
		Provider:    providerName,
		GeneratedAt: time.Now(),
	}
	if model != nil {
		report.ModelState = model.State()
	}

	f, err := formatter.New(getOutputFormat(), useColor())
	if err != nil {
		return err
	}
	output, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	return handleOutputDestination(cmd.OutOrStdout(), output)
}

// loadProgress shows model download and load progress on a terminal
type loadProgress struct {
	out    io.Writer
	bar    *progressbar.ProgressBar
	status ai.ProgressStatus
}

func newLoadProgress(out io.Writer) *loadProgress {
	return &loadProgress{out: out}
}

func (p *loadProgress) update(e ai.ProgressEvent) {
	if p.bar == nil || p.status != e.Status {
		p.finish()
		p.status = e.Status
		p.bar = progressbar.NewOptions(100,
			progressbar.OptionSetDescription(progressLabel(e.Status)),
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(e.Percent)
}

func (p *loadProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

func progressLabel(status ai.ProgressStatus) string {
	if status == ai.ProgressDownloading {
		return "Downloading AI model"
	}
	return "Loading AI model"
}

// handleOutputDestination writes output to file or stdout
func handleOutputDestination(stdout io.Writer, output []byte) error {
	if analyzeOutputFile != "" {
		if err := validateOutputFilePath(analyzeOutputFile); err != nil {
			return fmt.Errorf("invalid output file path: %w", err)
		}

		if err := writeOutputBytesToFile(output, analyzeOutputFile); err != nil {
			return fmt.Errorf("failed to write output to file: %w", err)
		}

		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Output saved to: %s\n", analyzeOutputFile)
		}
		return nil
	}

	_, err := stdout.Write(output)
	return err
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

func validateOutputFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	if info, err := os.Stat(filepath.Clean(path)); err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
