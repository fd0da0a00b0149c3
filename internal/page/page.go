// Package page provides the documents the loader samples from: a static HTML
// file watched for changes, a live browser tab, and an in-memory document.
package page

import (
	"context"
	"fmt"
	"sync"

	"github.com/yildizm/glyphloader/internal/logger"
	"github.com/yildizm/glyphloader/internal/sampler"
)

// EventKind is the kind of page change
type EventKind int

const (
	EventScroll EventKind = iota
	EventMutation
	EventVisibility
)

func (k EventKind) String() string {
	switch k {
	case EventScroll:
		return "scroll"
	case EventMutation:
		return "mutation"
	case EventVisibility:
		return "visibility"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a page change notification. Mutation events are only sent for
// added content.
type Event struct {
	Kind    EventKind
	Visible bool // EventVisibility only
	Added   int  // EventMutation only
}

// Page is a document that can be snapshotted and observed
type Page interface {
	// Snapshot returns the current layout in viewport coordinates
	Snapshot(ctx context.Context) (sampler.Document, error)
	// Events delivers change notifications until Close
	Events() <-chan Event
	Close() error
}

// Scroller is implemented by pages that can be scrolled by the host
type Scroller interface {
	Scroll(delta float64)
}

const eventBuffer = 32

// emitter fans page changes into a buffered channel that is closed once
type emitter struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
	log    *logger.Logger
}

func newEmitter(log *logger.Logger) *emitter {
	return &emitter{ch: make(chan Event, eventBuffer), log: log}
}

func (e *emitter) emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.ch <- ev:
	default:
		e.log.Warn("Dropping %s event: consumer is behind", ev.Kind)
	}
}

func (e *emitter) events() <-chan Event {
	return e.ch
}

func (e *emitter) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}

// scrolled shifts document coordinates into the viewport
func scrolled(elements []sampler.Element, offset float64) []sampler.Element {
	out := make([]sampler.Element, len(elements))
	for i, el := range elements {
		el.Top -= offset
		el.Bottom -= offset
		out[i] = el
	}
	return out
}

// contentHeight is the lowest bottom edge in document coordinates
func contentHeight(elements []sampler.Element) float64 {
	var h float64
	for _, el := range elements {
		if el.Bottom > h {
			h = el.Bottom
		}
	}
	return h
}

func clampScroll(y, content, viewport float64) float64 {
	limit := content - viewport
	if y > limit {
		y = limit
	}
	if y < 0 {
		y = 0
	}
	return y
}
