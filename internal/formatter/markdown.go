package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/glyphloader/internal/catalog"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Page Icon Report\n\n")
	if !report.GeneratedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	}

	f.writeSummaryTable(&b, report)
	f.writeIconTable(&b, report)
	f.writeSample(&b, report.Text)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, report *Report) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")

	source := "N/A"
	if report.Resolution != nil {
		source = string(report.Resolution.Source)
	}
	provider := report.Provider
	if provider == "" {
		provider = "none"
	}

	b.WriteString(fmt.Sprintf("| Page | %s |\n", escapeCell(report.Page)))
	b.WriteString(fmt.Sprintf("| Source | %s |\n", source))
	b.WriteString(fmt.Sprintf("| Model | %s (%s) |\n", provider, report.ModelState))
	b.WriteString(fmt.Sprintf("| Sampled characters | %d |\n\n", len([]rune(report.Text))))
}

func (f *markdownFormatter) writeIconTable(b *strings.Builder, report *Report) {
	b.WriteString("## Icons\n\n")

	list := icons(report)
	if len(list) == 0 {
		b.WriteString("_No icons resolved._\n\n")
		return
	}

	b.WriteString("| # | Icon | Label | Concept | Tier | Confidence |\n")
	b.WriteString("|---|------|-------|---------|------|------------|\n")
	for i, icon := range list {
		concept := conceptAt(report, i)
		if concept == "" {
			concept = "-"
		}
		b.WriteString(fmt.Sprintf("| %d | `%s` | %s | %s | %s | `%s` |\n",
			i+1, icon.Name, catalog.Humanize(icon.Name), concept, icon.Category,
			createConfidenceBar(tierConfidence(icon.Category))))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeSample(b *strings.Builder, text string) {
	b.WriteString("## Sampled Text\n\n")
	if text == "" {
		b.WriteString("_No visible content._\n")
		return
	}
	b.WriteString("> " + preview(text) + "\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
