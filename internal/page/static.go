package page

import (
	"context"
	"io"
	"sync"

	"github.com/yildizm/glyphloader/internal/logger"
	"github.com/yildizm/glyphloader/internal/sampler"
)

// StaticPage is an in-memory document driven entirely by the host
type StaticPage struct {
	events *emitter

	mu      sync.RWMutex
	doc     sampler.Document
	scrollY float64
}

// NewStatic creates a page over doc
func NewStatic(doc sampler.Document) *StaticPage {
	return &StaticPage{
		events: newEmitter(logger.NewNop().WithComponent("page")),
		doc:    doc,
	}
}

// NewStaticHTML lays out HTML read from r as a static page
func NewStaticHTML(r io.Reader, layout Layout, viewportHeight float64) (*StaticPage, error) {
	elements, err := ParseHTML(r, layout)
	if err != nil {
		return nil, err
	}
	return NewStatic(sampler.Document{ViewportHeight: viewportHeight, Elements: elements}), nil
}

func (p *StaticPage) Snapshot(ctx context.Context) (sampler.Document, error) {
	if err := ctx.Err(); err != nil {
		return sampler.Document{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sampler.Document{
		ViewportHeight: p.doc.ViewportHeight,
		Elements:       scrolled(p.doc.Elements, p.scrollY),
	}, nil
}

// SetDocument replaces the document. Growth is reported as a mutation.
func (p *StaticPage) SetDocument(doc sampler.Document) {
	p.mu.Lock()
	added := len(doc.Elements) - len(p.doc.Elements)
	p.doc = doc
	p.mu.Unlock()

	if added > 0 {
		p.events.emit(Event{Kind: EventMutation, Added: added})
	}
}

func (p *StaticPage) Scroll(delta float64) {
	p.mu.Lock()
	p.scrollY = clampScroll(p.scrollY+delta, contentHeight(p.doc.Elements), p.doc.ViewportHeight)
	p.mu.Unlock()
	p.events.emit(Event{Kind: EventScroll})
}

func (p *StaticPage) SetVisible(visible bool) {
	p.events.emit(Event{Kind: EventVisibility, Visible: visible})
}

func (p *StaticPage) Events() <-chan Event {
	return p.events.events()
}

func (p *StaticPage) Close() error {
	p.events.close()
	return nil
}
