package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_FirstSeenOrder(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("Our financial dashboard shows market trends and portfolio analysis")
	assert.Equal(t, []string{"finance", "market", "portfolio", "analysis"}, got)
}

func TestExtract_Dedup(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("Finance, finance and more FINANCIAL news about the market. Market!")
	assert.Equal(t, []string{"finance", "market"}, got)
}

func TestExtract_FrequencyFallback(t *testing.T) {
	e := NewExtractor()

	text := "gardening tomatoes gardening basil tomatoes gardening seeds soil compost mulch"
	got := e.Extract(text)

	// ties keep first-seen order: basil before seeds, soil, compost
	assert.Equal(t, []string{"gardening", "tomatoes", "basil", "seeds", "soil"}, got)
}

func TestExtract_DropsShortAndStopWords(t *testing.T) {
	e := NewExtractor()

	assert.Empty(t, e.Extract("the and for you her its"))
	assert.Empty(t, e.Extract(""))
	assert.NotNil(t, e.Extract(""))

	// "about" and "their" are stop words, "art" is too short
	assert.Equal(t, []string{"gallery"}, e.Extract("art about their gallery"))
}

func TestTokenize(t *testing.T) {
	e := NewExtractor()

	got := e.Tokenize("Hello, World! It's data-driven: 100% snake_case")
	assert.Equal(t, []string{"hello", "world", "data", "driven", "snake_case"}, got)
}

func TestIconFor(t *testing.T) {
	e := NewExtractor()

	icon, ok := e.IconFor("finance")
	assert.True(t, ok)
	assert.Equal(t, "account_balance", icon)

	icon, ok = e.IconFor("tech")
	assert.True(t, ok)
	assert.Equal(t, "developer_mode", icon)

	icon, ok = e.IconFor("make")
	assert.True(t, ok)
	assert.Equal(t, "handyman", icon)

	_, ok = e.IconFor("gardening")
	assert.False(t, ok)
}

func TestCustomVocabulary(t *testing.T) {
	e := NewExtractorWithVocabulary(map[string]Entry{
		"rocket": {Concept: "space", Icon: "rocket_launch"},
	})

	assert.Equal(t, []string{"space"}, e.Extract("A rocket launch today"))
	icon, ok := e.IconFor("space")
	assert.True(t, ok)
	assert.Equal(t, "rocket_launch", icon)
}

func TestExtract_DashboardIsNotVocabulary(t *testing.T) {
	e := NewExtractor()

	_, ok := e.IconFor("dashboard")
	assert.False(t, ok)
	assert.NotContains(t, e.Extract("Our financial dashboard shows market trends"), "dashboard")
}
