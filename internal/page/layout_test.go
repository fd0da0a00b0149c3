package page

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/glyphloader/internal/sampler"
)

var testLayout = Layout{Width: 800, LineHeight: 20, CharWidth: 8}

const reportHTML = `<html><head><title>T</title><script>var leaked = "finance";</script></head><body>
<h1>Market Report</h1>
<p>Our financial dashboard shows market trends and portfolio analysis</p>
<script>console.log("ignored script text here")</script>
<div hidden><p>Secret hidden paragraph text content</p></div>
</body></html>`

func TestParseHTML_BlockFlow(t *testing.T) {
	elements, err := ParseHTML(strings.NewReader(reportHTML), testLayout)
	require.NoError(t, err)
	require.Len(t, elements, 3)

	assert.Equal(t, sampler.Element{Tag: "h1", Top: 0, Bottom: 20, Width: 800, Height: 20, Text: "Market Report"}, elements[0])

	p := elements[1]
	assert.Equal(t, "p", p.Tag)
	assert.Equal(t, 20.0, p.Top)
	assert.Equal(t, 40.0, p.Bottom)
	assert.Equal(t, "Our financial dashboard shows market trends and portfolio analysis", p.Text)

	script := elements[2]
	assert.Equal(t, "script", script.Tag)
	assert.Empty(t, script.Text)
	assert.Zero(t, script.Height)
}

func TestParseHTML_InlineSharesLine(t *testing.T) {
	elements, err := ParseHTML(strings.NewReader(`<body><p>Hello <b>bold world</b> tail</p></body>`), testLayout)
	require.NoError(t, err)
	require.Len(t, elements, 2)

	assert.Equal(t, "Hello bold world tail", elements[0].Text)
	assert.Equal(t, "b", elements[1].Tag)
	assert.Equal(t, elements[0].Top, elements[1].Top)
	assert.Equal(t, 20.0, elements[1].Height)
}

func TestParseHTML_Wraps(t *testing.T) {
	long := strings.Repeat("x", 250)
	elements, err := ParseHTML(strings.NewReader("<body><p>"+long+"</p><p>next</p></body>"), testLayout)
	require.NoError(t, err)
	require.Len(t, elements, 2)

	assert.Equal(t, 60.0, elements[0].Height)
	assert.Equal(t, 60.0, elements[1].Top)
}

func TestParseHTML_MaxNodes(t *testing.T) {
	layout := testLayout
	layout.MaxNodes = 2
	elements, err := ParseHTML(strings.NewReader("<body><p>one</p><p>two</p><p>three</p></body>"), layout)
	require.NoError(t, err)
	assert.Len(t, elements, 2)
}

func TestParseHTML_InvalidLayout(t *testing.T) {
	_, err := ParseHTML(strings.NewReader("<body></body>"), Layout{})
	assert.Error(t, err)
}

func TestParseHTML_SamplesLikeABrowser(t *testing.T) {
	elements, err := ParseHTML(strings.NewReader(reportHTML), testLayout)
	require.NoError(t, err)

	text := sampler.New().Sample(800, elements)
	assert.Equal(t, "Our financial dashboard shows market trends and portfolio analysis", text)
}
