package page

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/yildizm/glyphloader/internal/logger"
	"github.com/yildizm/glyphloader/internal/sampler"
)

// BrowserOptions configures a BrowserPage
type BrowserOptions struct {
	URL string
	// ControlURL attaches to a running browser instead of launching one
	ControlURL   string
	Headless     bool
	Width        int
	Height       int
	PollInterval time.Duration
	MaxNodes     int
}

// BrowserPage is a live tab driven over the DevTools protocol. Scroll,
// content additions and tab visibility are detected by polling.
type BrowserPage struct {
	opts   BrowserOptions
	log    *logger.Logger
	events *emitter

	browser  *rod.Browser
	page     *rod.Page
	launched *launcher.Launcher

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// snapshotScript walks the DOM in document order, skipping ignored subtrees,
// elements outside the viewport and nested elements sharing a line with the
// previous one. Text is clipped per element and the walk stops once the
// collected text reaches the sample cap.
const snapshotScript = `
(maxNodes, minText, maxText, dedup, ignored) => {
	const skip = new Set(ignored);
	const viewport = window.innerHeight;
	const elements = [];
	let collected = 0;
	let visited = 0;
	let lastTop = -Infinity;
	const walker = document.createTreeWalker(document.body || document.documentElement, NodeFilter.SHOW_ELEMENT, {
		acceptNode: el => skip.has(el.tagName.toLowerCase()) ? NodeFilter.FILTER_REJECT : NodeFilter.FILTER_ACCEPT
	});
	while (walker.nextNode() && visited < maxNodes && collected < maxText) {
		visited++;
		const el = walker.currentNode;
		const rect = el.getBoundingClientRect();
		if (rect.top >= viewport || rect.bottom <= 0 || rect.width <= 0 || rect.height <= 0) {
			continue;
		}
		if (Math.abs(rect.top - lastTop) < dedup) {
			continue;
		}
		lastTop = rect.top;
		const text = (el.textContent || '').trim().slice(0, maxText + 1);
		elements.push({
			tag: el.tagName.toLowerCase(),
			top: rect.top,
			bottom: rect.bottom,
			width: rect.width,
			height: rect.height,
			text: text
		});
		if (text.length >= minText) {
			collected += text.length + 1;
		}
	}
	return { viewport_height: viewport, elements: elements };
}`

const probeScript = `
() => ({
	scroll_y: window.scrollY,
	nodes: document.getElementsByTagName('*').length,
	hidden: document.hidden
})`

type probe struct {
	ScrollY float64 `json:"scroll_y"`
	Nodes   int     `json:"nodes"`
	Hidden  bool    `json:"hidden"`
}

// OpenBrowser opens opts.URL in a new tab and starts observing it
func OpenBrowser(ctx context.Context, opts BrowserOptions, log *logger.Logger) (*BrowserPage, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("browser page requires a URL")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = 5000
	}

	p := &BrowserPage{opts: opts, log: log.WithComponent("browser")}
	p.events = newEmitter(p.log)

	controlURL := opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(opts.Headless)
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = url
		p.launched = l
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		p.cleanupLauncher()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	p.browser = browser

	page, err := browser.Page(proto.TargetCreateTarget{URL: opts.URL})
	if err != nil {
		p.closeBrowser()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	p.page = page

	if opts.Width > 0 && opts.Height > 0 {
		if err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Width,
			Height:            opts.Height,
			DeviceScaleFactor: 1.0,
			Mobile:            false,
		}).Call(page); err != nil {
			p.log.Warn("Failed to set viewport: %v", err)
		}
	}

	if err := page.Context(ctx).WaitLoad(); err != nil {
		p.log.Warn("Page did not finish loading: %v", err)
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.wg.Add(1)
	go p.poll(pollCtx)

	p.log.Info("Opened %s", opts.URL)
	return p, nil
}

// Snapshot captures element boxes and text from the live DOM
func (p *BrowserPage) Snapshot(ctx context.Context) (sampler.Document, error) {
	var doc sampler.Document
	if err := p.eval(ctx, snapshotScript, &doc,
		p.opts.MaxNodes, sampler.MinTextLength, sampler.MaxSampleLength, sampler.DedupDistance, sampler.IgnoredTags()); err != nil {
		return sampler.Document{}, fmt.Errorf("failed to snapshot page: %w", err)
	}
	return doc, nil
}

// Scroll scrolls the tab by delta pixels
func (p *BrowserPage) Scroll(delta float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := p.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:     `(dy) => window.scrollBy(0, dy)`,
		JSArgs: []interface{}{delta},
	}); err != nil {
		p.log.Debug("Scroll failed: %v", err)
	}
}

func (p *BrowserPage) eval(ctx context.Context, script string, out interface{}, args ...interface{}) error {
	res, err := p.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           script,
		JSArgs:       args,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("empty evaluation result")
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (p *BrowserPage) poll(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	var last probe
	primed := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		probeCtx, cancel := context.WithTimeout(ctx, p.opts.PollInterval*4)
		var cur probe
		err := p.eval(probeCtx, probeScript, &cur)
		cancel()
		if err != nil {
			if ctx.Err() == nil {
				p.log.Debug("Probe failed: %v", err)
			}
			continue
		}

		for _, ev := range probeEvents(last, cur, primed) {
			p.events.emit(ev)
		}
		last, primed = cur, true
	}
}

// probeEvents reports the events for a new probe. The first probe only
// reports a tab that is already hidden.
func probeEvents(prev, cur probe, primed bool) []Event {
	if !primed {
		if cur.Hidden {
			return []Event{{Kind: EventVisibility, Visible: false}}
		}
		return nil
	}
	return diffProbe(prev, cur)
}

// diffProbe converts two consecutive probes into page events
func diffProbe(prev, cur probe) []Event {
	var events []Event
	if cur.Hidden != prev.Hidden {
		events = append(events, Event{Kind: EventVisibility, Visible: !cur.Hidden})
	}
	if cur.ScrollY != prev.ScrollY {
		events = append(events, Event{Kind: EventScroll})
	}
	if cur.Nodes > prev.Nodes {
		events = append(events, Event{Kind: EventMutation, Added: cur.Nodes - prev.Nodes})
	}
	return events
}

func (p *BrowserPage) Events() <-chan Event {
	return p.events.events()
}

// Close stops polling, closes the tab and any browser this page launched
func (p *BrowserPage) Close() error {
	var err error
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
		p.events.close()

		if cerr := p.page.Close(); cerr != nil {
			p.log.Debug("Failed to close tab: %v", cerr)
		}
		err = p.closeBrowser()
	})
	return err
}

func (p *BrowserPage) closeBrowser() error {
	var err error
	if p.launched != nil {
		err = p.browser.Close()
	}
	p.cleanupLauncher()
	return err
}

func (p *BrowserPage) cleanupLauncher() {
	if p.launched != nil {
		p.launched.Kill()
		p.launched.Cleanup()
	}
}
