package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yildizm/go-promptfmt"
)

// DefaultPromptChars is how much page text goes into the prompt
const DefaultPromptChars = 300

const (
	minConceptLen = 4
	maxConceptLen = 19
)

var (
	conceptSeparators = regexp.MustCompile(`[,\n\-\s]+`)
	nonLetters        = regexp.MustCompile(`[^a-z]`)
)

// ConceptPattern builds the completion prompt for concept extraction. Small
// local models do better with a bare completion cue than with instructions,
// so the prompt carries no system part.
type ConceptPattern struct {
	promptfmt.BasePattern
	Text  string
	Limit int
}

// NewConceptPattern creates the concept extraction pattern
func NewConceptPattern() *ConceptPattern {
	return &ConceptPattern{
		BasePattern: promptfmt.BasePattern{
			Description: "Completion cue that makes a small model continue with topic keywords",
			Tags:        []string{"concepts", "keywords", "completion"},
		},
		Limit: DefaultPromptChars,
	}
}

func (cp *ConceptPattern) WithText(text string) *ConceptPattern {
	cp.Text = text
	return cp
}

func (cp *ConceptPattern) WithLimit(chars int) *ConceptPattern {
	cp.Limit = chars
	return cp
}

func (cp *ConceptPattern) Build() *promptfmt.Prompt {
	return promptfmt.New().
		User("Keywords: %s\n\nKey concepts:", headRunes(cp.Text, cp.Limit)).
		Build()
}

// ParseConcepts turns raw generated text into at most max lowercase
// alphabetic tokens of 4 to 19 letters, in generation order.
func ParseConcepts(raw string, max int) []string {
	if max <= 0 {
		return nil
	}

	concepts := make([]string, 0, max)
	for _, part := range conceptSeparators.Split(raw, -1) {
		word := nonLetters.ReplaceAllString(strings.ToLower(strings.TrimSpace(part)), "")
		if len(word) < minConceptLen || len(word) > maxConceptLen {
			continue
		}
		concepts = append(concepts, word)
		if len(concepts) == max {
			break
		}
	}
	return concepts
}

func headRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
