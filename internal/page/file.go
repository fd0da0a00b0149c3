package page

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/glyphloader/internal/logger"
	"github.com/yildizm/glyphloader/internal/sampler"
)

// FileOptions configures a FilePage
type FileOptions struct {
	Layout         Layout
	ViewportHeight float64
}

// FilePage is an HTML file laid out with the estimating layout. Writes to
// the file that add elements produce mutation events.
type FilePage struct {
	path   string
	opts   FileOptions
	log    *logger.Logger
	events *emitter

	mu       sync.RWMutex
	elements []sampler.Element
	scrollY  float64

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// OpenFile loads and starts watching the HTML file at path
func OpenFile(path string, opts FileOptions, log *logger.Logger) (*FilePage, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Layout.Width <= 0 {
		opts.Layout = DefaultLayout(1280)
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = 800
	}

	p := &FilePage{
		path: filepath.Clean(path),
		opts: opts,
		log:  log.WithComponent("page"),
		done: make(chan struct{}),
	}
	p.events = newEmitter(p.log)

	elements, err := p.load()
	if err != nil {
		return nil, err
	}
	p.elements = elements

	watcher, err := createWatcher(p.path)
	if err != nil {
		return nil, err
	}
	p.watcher = watcher

	go p.watch()
	p.log.Debug("Watching %s (%d elements)", p.path, len(elements))
	return p, nil
}

func (p *FilePage) load() ([]sampler.Element, error) {
	// #nosec G304 - path is provided by the operator
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.log.Warn("Failed to close page file: %v", err)
		}
	}()
	return ParseHTML(f, p.opts.Layout)
}

// createWatcher creates a watcher on the file's directory so that editors
// which replace the file on save are still observed
func createWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}
	return watcher, nil
}

func (p *FilePage) watch() {
	defer close(p.done)

	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				p.reload()
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.log.Warn("Watcher error: %v", err)
		}
	}
}

func (p *FilePage) reload() {
	elements, err := p.load()
	if err != nil {
		p.log.Debug("Reload skipped: %v", err)
		return
	}

	p.mu.Lock()
	added := len(elements) - len(p.elements)
	p.elements = elements
	p.scrollY = clampScroll(p.scrollY, contentHeight(elements), p.opts.ViewportHeight)
	p.mu.Unlock()

	if added > 0 {
		p.events.emit(Event{Kind: EventMutation, Added: added})
	}
}

// Snapshot returns the elements shifted by the scroll offset
func (p *FilePage) Snapshot(ctx context.Context) (sampler.Document, error) {
	if err := ctx.Err(); err != nil {
		return sampler.Document{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sampler.Document{
		ViewportHeight: p.opts.ViewportHeight,
		Elements:       scrolled(p.elements, p.scrollY),
	}, nil
}

// Scroll moves the viewport by delta, clamped to the content
func (p *FilePage) Scroll(delta float64) {
	p.mu.Lock()
	before := p.scrollY
	p.scrollY = clampScroll(p.scrollY+delta, contentHeight(p.elements), p.opts.ViewportHeight)
	moved := p.scrollY != before
	p.mu.Unlock()

	if moved {
		p.events.emit(Event{Kind: EventScroll})
	}
}

// SetVisible reports a visibility change of the hosting view
func (p *FilePage) SetVisible(visible bool) {
	p.events.emit(Event{Kind: EventVisibility, Visible: visible})
}

// ScrollOffset returns the current scroll position
func (p *FilePage) ScrollOffset() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scrollY
}

// Events delivers page changes
func (p *FilePage) Events() <-chan Event {
	return p.events.events()
}

// Close stops watching and closes the event channel
func (p *FilePage) Close() error {
	err := p.watcher.Close()
	<-p.done
	p.events.close()
	return err
}
