// Package sampler collects the text a reader can currently see from a laid-out
// document, with bounded cost on large pages.
package sampler

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// MinTextLength is the shortest element text worth sampling
	MinTextLength = 20
	// MaxSampleLength caps the collected text
	MaxSampleLength = 2000
	// DedupDistance is how close two tops must be to count as the same line
	DedupDistance = 5.0
)

var ignoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
}

// IgnoredTags lists the tags whose text is never sampled
func IgnoredTags() []string {
	tags := make([]string, 0, len(ignoredTags))
	for tag := range ignoredTags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Element is one node of a document with its bounding box in viewport
// coordinates. Text is the node's full text content, descendants included.
type Element struct {
	Tag    string  `json:"tag"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Text   string  `json:"text"`
}

// Document is a snapshot of a page in document order
type Document struct {
	ViewportHeight float64   `json:"viewport_height"`
	Elements       []Element `json:"elements"`
}

// Sampler extracts visible text from documents
type Sampler struct {
	minText int
	maxText int
}

// New creates a sampler with the standard thresholds
func New() *Sampler {
	return &Sampler{minText: MinTextLength, maxText: MaxSampleLength}
}

// SampleDocument samples a document snapshot
func (s *Sampler) SampleDocument(doc Document) string {
	return s.Sample(doc.ViewportHeight, doc.Elements)
}

// Sample walks elements in document order and concatenates the text of those
// inside the viewport. Elements starting within a few pixels of the previous
// accepted element are treated as nested duplicates. The walk stops as soon as
// the cap is reached.
func (s *Sampler) Sample(viewportHeight float64, elements []Element) string {
	var sb strings.Builder
	collected := 0
	lastTop := math.Inf(-1)

	for _, el := range elements {
		if ignoredTags[strings.ToLower(el.Tag)] {
			continue
		}
		if !visible(el, viewportHeight) {
			continue
		}
		if math.Abs(el.Top-lastTop) < DedupDistance {
			continue
		}
		lastTop = el.Top

		text := strings.TrimSpace(el.Text)
		n := utf8.RuneCountInString(text)
		if n < s.minText {
			continue
		}

		sb.WriteString(text)
		sb.WriteByte(' ')
		collected += n + 1
		if collected >= s.maxText {
			break
		}
	}

	return strings.TrimSpace(truncateRunes(sb.String(), s.maxText))
}

func visible(el Element, viewportHeight float64) bool {
	return el.Top < viewportHeight && el.Bottom > 0 && el.Width > 0 && el.Height > 0
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
