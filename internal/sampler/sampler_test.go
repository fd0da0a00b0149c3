package sampler

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func el(tag string, top, height float64, text string) Element {
	return Element{Tag: tag, Top: top, Bottom: top + height, Width: 300, Height: height, Text: text}
}

func TestSample_VisibleOnly(t *testing.T) {
	s := New()

	elements := []Element{
		el("p", -200, 50, "scrolled away paragraph with enough text"),
		el("p", 10, 40, "first visible paragraph with enough text"),
		el("p", 100, 40, "second visible paragraph with enough text"),
		el("p", 900, 40, "below the fold paragraph with enough text"),
		{Tag: "p", Top: 200, Bottom: 240, Width: 0, Height: 40, Text: "collapsed element with plenty of text"},
	}

	got := s.Sample(800, elements)
	assert.Equal(t, "first visible paragraph with enough text second visible paragraph with enough text", got)
}

func TestSample_IgnoredTags(t *testing.T) {
	s := New()

	elements := []Element{
		el("SCRIPT", 10, 20, "var tracking = window.analytics || {};"),
		el("style", 50, 20, "body { margin: 0; padding: 0; color: red }"),
		el("svg", 90, 20, "a vector graphic title that is long"),
		el("article", 130, 20, "real article content lives right here"),
	}

	assert.Equal(t, "real article content lives right here", s.Sample(800, elements))
}

func TestSample_NestedDedup(t *testing.T) {
	s := New()

	elements := []Element{
		el("div", 100, 200, "outer container text that repeats the inner text"),
		el("p", 102, 20, "inner text that would otherwise be counted twice"),
		el("p", 140, 20, "separate paragraph further down the page"),
	}

	got := s.Sample(800, elements)
	assert.NotContains(t, got, "counted twice")
	assert.Contains(t, got, "outer container")
	assert.Contains(t, got, "separate paragraph")
}

func TestSample_ShortTextStillMovesDedupAnchor(t *testing.T) {
	s := New()

	elements := []Element{
		el("h1", 50, 30, "Short"),
		el("span", 52, 10, "nested span text long enough to qualify"),
	}

	assert.Empty(t, s.Sample(800, elements))
}

func TestSample_TextThreshold(t *testing.T) {
	s := New()

	exactly20 := strings.Repeat("a", 20)
	nineteen := strings.Repeat("b", 19)

	got := s.Sample(800, []Element{el("p", 10, 20, nineteen), el("p", 50, 20, exactly20)})
	assert.Equal(t, exactly20, got)
}

func TestSample_Cap(t *testing.T) {
	s := New()

	var elements []Element
	for i := 0; i < 200; i++ {
		elements = append(elements, el("p", float64(i*6), 5, strings.Repeat("word ", 10)+"end"))
	}

	got := s.Sample(100000, elements)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), MaxSampleLength)
	assert.Greater(t, utf8.RuneCountInString(got), MaxSampleLength-60)
}

func TestSample_Empty(t *testing.T) {
	s := New()

	assert.Equal(t, "", s.Sample(800, nil))
	assert.Equal(t, "", s.SampleDocument(Document{ViewportHeight: 0, Elements: []Element{el("p", 0, 10, strings.Repeat("x", 40))}}))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
}

func TestIgnoredTags(t *testing.T) {
	assert.Equal(t, []string{"iframe", "noscript", "script", "style", "svg"}, IgnoredTags())
}

func TestSample_ClippedTextMatchesFull(t *testing.T) {
	long := strings.Repeat("portfolio analysis ", 400)
	full := []Element{
		el("div", 0, 600, long),
		el("p", 100, 20, "Quarterly earnings beat every estimate"),
	}
	clipped := []Element{
		el("div", 0, 600, string([]rune(strings.TrimSpace(long))[:MaxSampleLength+1])),
	}

	s := New()
	assert.Equal(t, s.Sample(800, full), s.Sample(800, clipped))
	assert.Equal(t, MaxSampleLength, utf8.RuneCountInString(s.Sample(800, clipped)))
}
