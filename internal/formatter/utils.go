package formatter

import (
	"unicode/utf8"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/glyphloader/internal/catalog"
)

const previewLength = 160

// tierConfidence expresses how specific a resolution tier is, for display
func tierConfidence(category catalog.Category) float64 {
	switch category {
	case catalog.CategoryDirect:
		return 1.0
	case catalog.CategoryKeyword:
		return 0.9
	case catalog.CategorySemantic:
		return 0.7
	case catalog.CategoryLetter:
		return 0.4
	default:
		return 0.2
	}
}

// createConfidenceBar creates ASCII confidence bar using go-termfmt
func createConfidenceBar(confidence float64) string {
	opts := termfmt.DefaultOptions()
	opts.Emoji = false
	return termfmt.CreateConfidenceBar(confidence, opts)
}

// preview shortens sampled text for display
func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength]) + "..."
}

// conceptAt returns the concept behind the i-th icon, if any
func conceptAt(r *Report, i int) string {
	if r.Resolution == nil || i >= len(r.Resolution.Concepts) {
		return ""
	}
	return r.Resolution.Concepts[i]
}

func icons(r *Report) []catalog.IconDescriptor {
	if r.Resolution == nil {
		return nil
	}
	return r.Resolution.Icons
}
