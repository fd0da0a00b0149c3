package loader

import (
	"fmt"
	"strings"
)

// StatusState is the badge state shown next to the widget
type StatusState string

const (
	StatusLoading  StatusState = "loading"
	StatusReady    StatusState = "ready"
	StatusFallback StatusState = "fallback"
)

// Status texts shown by the host
const (
	textReady    = "LLM Ready - Analyzing content..."
	textFallback = "Using fallback mode"
)

// StatusSink receives presentation updates. Calls may come from any
// goroutine.
type StatusSink interface {
	SetStatus(state StatusState, text string)
	SetLabel(label string)
	SetPosition(p Position)
}

type nopSink struct{}

func (nopSink) SetStatus(StatusState, string) {}

func (nopSink) SetLabel(string) {}

func (nopSink) SetPosition(Position) {}

// Position is the widget placement preset
type Position int

const (
	PositionBottomRight Position = iota
	PositionBottomLeft
	PositionCenter
)

var positionNames = [...]string{"bottom-right", "bottom-left", "center"}

func (p Position) String() string {
	if p < PositionBottomRight || p > PositionCenter {
		return fmt.Sprintf("position(%d)", int(p))
	}
	return positionNames[p]
}

// Next returns the following preset in the right -> left -> center cycle
func (p Position) Next() Position {
	return (p + 1) % Position(len(positionNames))
}

// ParsePosition parses a preset name. An empty name means bottom-right.
func ParsePosition(name string) (Position, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return PositionBottomRight, nil
	}
	for i, n := range positionNames {
		if n == name {
			return Position(i), nil
		}
	}
	return PositionBottomRight, fmt.Errorf("unknown position: %s", name)
}
