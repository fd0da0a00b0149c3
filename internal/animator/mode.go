package animator

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects the per-frame transform applied to every icon
type Mode int

const (
	ModeFloat Mode = iota
	ModePulse
	ModeRotate
)

var modeNames = [...]string{"float", "pulse", "rotate"}

func (m Mode) String() string {
	if m < ModeFloat || m > ModeRotate {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next returns the following mode in the float -> pulse -> rotate cycle
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

// ParseMode parses a mode name. An empty name means float.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ModeFloat, nil
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return ModeFloat, fmt.Errorf("unknown animation mode: %s", name)
}

const (
	floatAmplitude = 10.0
	orbitRadius    = 30.0
)

// transform places icon at clock t on a width x height surface
func (m Mode) transform(icon AnimatedIcon, t, width, height float64) Sprite {
	x, y, alpha := icon.X, icon.Y, icon.BaseOpacity

	switch m {
	case ModeFloat:
		y += math.Sin(t+icon.Phase) * floatAmplitude
		alpha = icon.BaseOpacity * (0.5 + 0.5*math.Sin(t*2+icon.Phase))
	case ModePulse:
		alpha = icon.BaseOpacity * (0.3 + 0.7*math.Abs(math.Sin(t*3+icon.Phase)))
	case ModeRotate:
		x = width/2 + math.Cos(t+icon.Phase)*orbitRadius
		y = height/2 + math.Sin(t+icon.Phase)*orbitRadius
	}

	return Sprite{
		Name:  icon.Descriptor.Name,
		X:     x,
		Y:     y,
		Size:  icon.Size,
		Alpha: clamp01(alpha),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
