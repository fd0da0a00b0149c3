package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/glyphloader/internal/analyzer"
	"github.com/yildizm/glyphloader/internal/resolver"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Report is the outcome of one analysis of a page
type Report struct {
	Page        string
	Text        string
	Resolution  *resolver.Resolution
	Provider    string
	ModelState  analyzer.State
	GeneratedAt time.Time
}

// New returns the formatter for a configured output format
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "json":
		return NewJSON(), nil
	case "text", "":
		return NewTerminal(color), nil
	case "markdown":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
