package loader

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_TrailingEdge(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, d.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_Cancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())

	d.Trigger()
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_Stop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, calls.Load())
	assert.False(t, d.Pending())
}

func TestPosition(t *testing.T) {
	assert.Equal(t, PositionBottomLeft, PositionBottomRight.Next())
	assert.Equal(t, PositionCenter, PositionBottomLeft.Next())
	assert.Equal(t, PositionBottomRight, PositionCenter.Next())

	p, err := ParsePosition("center")
	assert.NoError(t, err)
	assert.Equal(t, PositionCenter, p)

	_, err = ParsePosition("top")
	assert.Error(t, err)
	assert.Equal(t, "bottom-left", PositionBottomLeft.String())
}
