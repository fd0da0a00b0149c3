package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/glyphloader/internal/catalog"
	"github.com/yildizm/glyphloader/internal/glyph"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !glyph.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeSummary(&b, report)

	if len(icons(report)) > 0 {
		f.writeIcons(&b, report)
	}

	f.writeSample(&b, report.Text)

	return []byte(b.String()), nil
}

// writeHeader writes a header with box drawing
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Page Icon Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeSummary writes where the icons came from as a tree
func (f *terminalFormatter) writeSummary(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Summary\n")

	source, duration := "N/A", "N/A"
	if r := report.Resolution; r != nil {
		source = string(r.Source)
		duration = r.Duration.String()
	}

	provider := report.Provider
	if provider == "" {
		provider = "none"
	}

	items := []termfmt.TreeItem{
		{Label: "Page", Value: report.Page},
		{Label: "Source", Value: source},
		{Label: "Model", Value: fmt.Sprintf("%s (%s)", provider, report.ModelState)},
		{Label: "Sampled", Value: fmt.Sprintf("%d chars", len([]rune(report.Text)))},
		{Label: "Duration", Value: duration, Last: true},
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeIcons writes each icon with its concept and resolution tier
func (f *terminalFormatter) writeIcons(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("insights", f.opts)
	b.WriteString(symbol + " Icons\n")

	list := icons(report)
	items := make([]termfmt.TreeItem, 0, len(list))
	for i, icon := range list {
		label := fmt.Sprintf("%s %s", glyph.For(icon.Name), catalog.Humanize(icon.Name))
		value := string(icon.Category)
		if concept := conceptAt(report, i); concept != "" {
			value = fmt.Sprintf("%s, %s", concept, icon.Category)
		}

		items = append(items, termfmt.TreeItem{
			Label: label,
			Value: "(" + value + ")",
			Children: []termfmt.TreeItem{
				{Label: termfmt.CreateConfidenceBar(tierConfidence(icon.Category), f.opts) + " " + icon.Name, Value: ""},
			},
			Last: i == len(list)-1,
		})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeSample writes a preview of the sampled text
func (f *terminalFormatter) writeSample(b *strings.Builder, text string) {
	symbol := termfmt.GetEmoji("recommendations", f.opts)
	b.WriteString(symbol + " Sampled Text\n")

	if text == "" {
		b.WriteString("• (no visible content)\n")
		return
	}
	b.WriteString("• " + preview(text) + "\n")
}
