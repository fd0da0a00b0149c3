package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/glyphloader/internal/analyzer"
	"github.com/yildizm/glyphloader/internal/catalog"
	"github.com/yildizm/glyphloader/internal/resolver"
)

func sampleReport() *Report {
	return &Report{
		Page: "index.html",
		Text: "Our financial dashboard shows market trends and portfolio analysis",
		Resolution: &resolver.Resolution{
			Concepts: []string{"finance", "market"},
			Icons: []catalog.IconDescriptor{
				{Name: "account_balance", Category: catalog.CategoryDirect},
				{Name: "show_chart", Category: catalog.CategoryDirect},
			},
			Source:   resolver.SourceKeywords,
			Duration: 3 * time.Millisecond,
		},
		Provider:    "ollama",
		ModelState:  analyzer.State{Status: analyzer.StatusFailed},
		GeneratedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "text", "markdown", ""} {
		f, err := New(format, false)
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := New("csv", false)
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSON().Format(sampleReport())
	require.NoError(t, err)

	var got ReportOutput
	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, "keywords", got.Source)
	assert.Equal(t, []string{"finance", "market"}, got.Concepts)
	require.Len(t, got.Icons, 2)
	assert.Equal(t, "account_balance", got.Icons[0].Name)
	assert.Equal(t, "Account balance", got.Icons[0].Label)
	assert.Equal(t, "finance", got.Icons[0].Concept)
	assert.Equal(t, catalog.CategoryDirect, got.Icons[0].Category)
	assert.Equal(t, "failed", got.Model.State)
	assert.Equal(t, 66, got.Sample.Length)
}

func TestJSONFormatter_EmptyReport(t *testing.T) {
	out, err := NewJSON().Format(&Report{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"icons": []`)
	assert.Contains(t, string(out), `"concepts": []`)
}

func TestTerminalFormatter(t *testing.T) {
	out, err := NewTerminal(false).Format(sampleReport())
	require.NoError(t, err)

	text := string(out)
	for _, want := range []string{"Page Icon Summary", "index.html", "keywords", "ollama (failed)", "Account balance", "finance, direct", "Show chart", "portfolio analysis"} {
		assert.Contains(t, text, want)
	}
	assert.Less(t, strings.Index(text, "Account balance"), strings.Index(text, "Show chart"))
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdown().Format(sampleReport())
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "# Page Icon Report"))
	assert.Contains(t, text, "Generated: 2025-01-02 03:04:05")
	assert.Contains(t, text, "| 1 | `account_balance` | Account balance | finance | direct |")
	assert.Contains(t, text, "| Source | keywords |")
}

func TestMarkdownFormatter_NoIcons(t *testing.T) {
	out, err := NewMarkdown().Format(&Report{Page: "a|b"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "_No icons resolved._")
	assert.Contains(t, string(out), `a\|b`)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))
	long := strings.Repeat("é", previewLength+10)
	assert.Equal(t, strings.Repeat("é", previewLength)+"...", preview(long))
}

func TestTierConfidence(t *testing.T) {
	assert.Greater(t, tierConfidence(catalog.CategoryDirect), tierConfidence(catalog.CategorySemantic))
	assert.Greater(t, tierConfidence(catalog.CategorySemantic), tierConfidence(catalog.CategoryLetter))
	assert.Greater(t, tierConfidence(catalog.CategoryLetter), tierConfidence(catalog.CategoryDefault))
}
