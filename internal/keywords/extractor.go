// Package keywords derives concepts from text deterministically using a stop
// word list and a fixed concept vocabulary.
package keywords

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultTopN is how many raw tokens the frequency fallback returns
const DefaultTopN = 5

// minTokenLength is the shortest token kept; anything shorter is noise
const minTokenLength = 4

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Extractor maps text to an ordered concept list
type Extractor struct {
	vocabulary map[string]Entry
	icons      map[string]string
	stopWords  map[string]struct{}
	topN       int
}

// NewExtractor creates an extractor with the built-in vocabulary
func NewExtractor() *Extractor {
	return NewExtractorWithVocabulary(vocabulary)
}

// NewExtractorWithVocabulary creates an extractor over a custom token vocabulary
func NewExtractorWithVocabulary(vocab map[string]Entry) *Extractor {
	e := &Extractor{
		vocabulary: vocab,
		icons:      make(map[string]string, len(vocab)),
		stopWords:  stopWords,
		topN:       DefaultTopN,
	}
	// the token that is the concept itself decides its icon
	for token, entry := range vocab {
		if _, ok := e.icons[entry.Concept]; !ok || token == entry.Concept {
			e.icons[entry.Concept] = entry.Icon
		}
	}
	return e
}

// Extract returns vocabulary concepts in order of first mention. When no token
// is in the vocabulary it returns the most frequent tokens instead, ties kept
// in first-seen order. The result may be empty but never nil.
func (e *Extractor) Extract(text string) []string {
	tokens := e.Tokenize(text)

	concepts := make([]string, 0)
	seen := make(map[string]bool)
	for _, token := range tokens {
		entry, ok := e.vocabulary[token]
		if !ok || seen[entry.Concept] {
			continue
		}
		seen[entry.Concept] = true
		concepts = append(concepts, entry.Concept)
	}
	if len(concepts) > 0 {
		return concepts
	}

	return e.topTokens(tokens)
}

// IconFor returns the icon the vocabulary suggests for a concept
func (e *Extractor) IconFor(concept string) (string, bool) {
	icon, ok := e.icons[concept]
	return icon, ok
}

// Tokenize lowercases text, drops punctuation, short tokens and stop words
func (e *Extractor) Tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) < minTokenLength {
			continue
		}
		if _, stop := e.stopWords[field]; stop {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

func (e *Extractor) topTokens(tokens []string) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, token := range tokens {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})

	if len(order) > e.topN {
		order = order[:e.topN]
	}
	return order
}
