package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/glyphloader/internal/catalog"
	"github.com/yildizm/glyphloader/internal/glyph"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// ReportOutput is the JSON document for a report
type ReportOutput struct {
	Page        string        `json:"page"`
	Source      string        `json:"source"`
	Concepts    []string      `json:"concepts"`
	Icons       []*IconOutput `json:"icons"`
	Model       *ModelOutput  `json:"model"`
	Sample      *SampleOutput `json:"sample"`
	Duration    string        `json:"duration"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// IconOutput is one resolved icon
type IconOutput struct {
	Name     string           `json:"name"`
	Label    string           `json:"label"`
	Glyph    string           `json:"glyph"`
	Category catalog.Category `json:"category"`
	Concept  string           `json:"concept,omitempty"`
}

// ModelOutput describes the model backend at report time
type ModelOutput struct {
	Provider string `json:"provider"`
	State    string `json:"state"`
}

// SampleOutput summarizes the sampled page text
type SampleOutput struct {
	Length  int    `json:"length"`
	Preview string `json:"preview"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	output := &ReportOutput{
		Page:        report.Page,
		Concepts:    []string{},
		Icons:       make([]*IconOutput, 0),
		Model:       &ModelOutput{Provider: report.Provider, State: report.ModelState.String()},
		Sample:      &SampleOutput{Length: len([]rune(report.Text)), Preview: preview(report.Text)},
		GeneratedAt: report.GeneratedAt,
	}

	if r := report.Resolution; r != nil {
		output.Source = string(r.Source)
		output.Concepts = r.Concepts
		output.Duration = r.Duration.String()
	}

	for i, icon := range icons(report) {
		output.Icons = append(output.Icons, &IconOutput{
			Name:     icon.Name,
			Label:    catalog.Humanize(icon.Name),
			Glyph:    glyph.For(icon.Name),
			Category: icon.Category,
			Concept:  conceptAt(report, i),
		})
	}

	return json.MarshalIndent(output, "", "  ")
}
