package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	bar := NewProgressBar(10)

	bar.SetPercent(40)
	out := bar.Render()
	assert.Equal(t, 4, strings.Count(out, "█"))
	assert.Equal(t, 6, strings.Count(out, "░"))
	assert.Contains(t, out, " 40%")

	bar.SetPercent(250)
	assert.Equal(t, 100, bar.Percent)
	bar.SetPercent(-5)
	assert.Equal(t, 0, bar.Percent)

	assert.Equal(t, "0%", (&ProgressBar{}).Render())
}

func TestSpinner_Wraps(t *testing.T) {
	s := NewSpinner()
	first := s.Render()
	for i := 0; i < len(spinnerFrames); i++ {
		s.Tick()
	}
	assert.Equal(t, 0, s.Frame)
	assert.Equal(t, first, s.Render())
}
