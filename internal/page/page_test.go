package page

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/glyphloader/internal/sampler"
)

const (
	twoBlocks   = `<body><h1>Market Report</h1><p>Our financial dashboard shows market trends</p></body>`
	threeBlocks = `<body><h1>Market Report</h1><p>Our financial dashboard shows market trends</p><p>Portfolio analysis added later</p></body>`
)

func nextEvent(t *testing.T, ch <-chan Event, kind EventKind) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			require.True(t, ok, "event channel closed")
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s event received", kind)
		}
	}
}

func TestFilePage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(twoBlocks), 0o600))

	p, err := OpenFile(path, FileOptions{Layout: testLayout, ViewportHeight: 30}, nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, p.Close()) }()

	doc, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30.0, doc.ViewportHeight)
	require.Len(t, doc.Elements, 2)

	// content is 40 high, so scrolling stops at 10
	p.Scroll(15)
	nextEvent(t, p.Events(), EventScroll)
	assert.Equal(t, 10.0, p.ScrollOffset())

	doc, err = p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -10.0, doc.Elements[0].Top)

	tmp := filepath.Join(dir, "index.html.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(threeBlocks), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	ev := nextEvent(t, p.Events(), EventMutation)
	assert.Positive(t, ev.Added)

	assert.Eventually(t, func() bool {
		doc, err := p.Snapshot(context.Background())
		return err == nil && len(doc.Elements) == 3
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFilePage_Missing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.html"), FileOptions{}, nil)
	assert.Error(t, err)
}

func TestFilePage_ScrollAtTopIsSilent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte(twoBlocks), 0o600))

	p, err := OpenFile(path, FileOptions{Layout: testLayout, ViewportHeight: 30}, nil)
	require.NoError(t, err)

	p.Scroll(-50)
	require.NoError(t, p.Close())

	for ev := range p.Events() {
		assert.NotEqual(t, EventScroll, ev.Kind)
	}
}

func TestStaticPage(t *testing.T) {
	doc := sampler.Document{
		ViewportHeight: 100,
		Elements: []sampler.Element{
			{Tag: "p", Top: 0, Bottom: 100, Width: 10, Height: 100, Text: "first paragraph of text"},
			{Tag: "p", Top: 100, Bottom: 200, Width: 10, Height: 100, Text: "second paragraph of text"},
		},
	}
	p := NewStatic(doc)

	p.Scroll(40)
	assert.Equal(t, EventScroll, (<-p.Events()).Kind)

	snap, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -40.0, snap.Elements[0].Top)
	assert.Equal(t, 60.0, snap.Elements[1].Top)

	grown := doc
	grown.Elements = append(append([]sampler.Element(nil), doc.Elements...), sampler.Element{Tag: "p", Top: 200, Bottom: 300, Width: 10, Height: 100})
	p.SetDocument(grown)
	ev := <-p.Events()
	assert.Equal(t, Event{Kind: EventMutation, Added: 1}, ev)

	p.SetDocument(doc)
	p.SetVisible(false)
	assert.Equal(t, Event{Kind: EventVisibility, Visible: false}, <-p.Events())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	_, ok := <-p.Events()
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiffProbe(t *testing.T) {
	prev := probe{ScrollY: 0, Nodes: 10, Hidden: false}

	assert.Empty(t, diffProbe(prev, prev))
	assert.Equal(t, []Event{{Kind: EventScroll}}, diffProbe(prev, probe{ScrollY: 120, Nodes: 10}))
	assert.Equal(t, []Event{{Kind: EventMutation, Added: 3}}, diffProbe(prev, probe{Nodes: 13}))
	assert.Empty(t, diffProbe(prev, probe{Nodes: 4}))
	assert.Equal(t, []Event{{Kind: EventVisibility, Visible: false}}, diffProbe(prev, probe{Nodes: 10, Hidden: true}))
}

func TestProbeEvents_FirstProbe(t *testing.T) {
	assert.Empty(t, probeEvents(probe{}, probe{Nodes: 10}, false))
	assert.Equal(t, []Event{{Kind: EventVisibility, Visible: false}},
		probeEvents(probe{}, probe{Nodes: 10, Hidden: true}, false))

	prev := probe{Nodes: 10, Hidden: true}
	assert.Empty(t, probeEvents(prev, prev, true))
	assert.Equal(t, []Event{{Kind: EventVisibility, Visible: true}},
		probeEvents(prev, probe{Nodes: 10}, true))
}
