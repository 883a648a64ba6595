// Package rod provides a docscout.Fetcher that renders pages in headless
// Chrome, for document portals that build their link lists with JavaScript.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/docscout"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// DefaultSettleTime is how long the page may keep issuing requests after
// the load event before its HTML is captured.
const DefaultSettleTime = 2 * time.Second

// serializeJS returns the document HTML including the content of open
// shadow roots, where web components often render their download links.
const serializeJS = `() => {
	const roots = [];
	const walk = (node) => {
		for (const el of node.querySelectorAll('*')) {
			if (el.shadowRoot) {
				roots.push(el.shadowRoot);
				walk(el.shadowRoot);
			}
		}
	};
	walk(document);
	if (roots.length === 0 || typeof document.documentElement.getHTML !== 'function') {
		return document.documentElement.outerHTML;
	}
	return '<html>' + document.documentElement.getHTML({shadowRoots: roots}) + '</html>';
}`

// Ensure Fetcher implements docscout.Fetcher at compile time.
var _ docscout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher

	timeout   time.Duration
	settle    time.Duration
	userAgent string

	mu     sync.RWMutex
	closed bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout of a single page render.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithSettleTime sets how long to wait for network activity to stop after
// the load event. Zero disables the wait.
func WithSettleTime(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settle = d
	}
}

// WithUserAgent overrides the browser's user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		settle:  DefaultSettleTime,
	}
	for _, opt := range opts {
		opt(f)
	}

	// Launch browser using rod's launcher (finds or downloads Chrome)
	f.launcher = launcher.New().Headless(true)
	u, err := f.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	f.browser = rod.New().ControlURL(u)
	if err := f.browser.Connect(); err != nil {
		f.launcher.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return f, nil
}

// LauncherPID returns the process ID of the launched browser.
func (f *Fetcher) LauncherPID() int {
	return f.launcher.PID()
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return "", docscout.Errorf(docscout.EINVALID, "fetcher is closed")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      f.userAgent,
			AcceptLanguage: "fr-FR,fr;q=0.9,en;q=0.8",
		}); err != nil {
			return "", classifyError(err, url)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", classifyError(err, url)
	}
	if err := page.WaitLoad(); err != nil {
		return "", classifyError(err, url)
	}
	if f.settle > 0 {
		settling := page.Timeout(f.settle)
		settling.WaitRequestIdle(300*time.Millisecond, nil, nil, nil)()
		settling.CancelTimeout()
	}

	res, err := page.Eval(serializeJS)
	if err != nil {
		return "", classifyError(err, url)
	}
	return res.Value.Str(), nil
}

// Close releases browser resources. Close is idempotent.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	err := f.browser.Close()
	f.launcher.Kill()
	return err
}

// classifyError reports render deadlines as ETIMEOUT. Caller cancellation
// passes through unchanged.
func classifyError(err error, url string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return docscout.Errorf(docscout.ETIMEOUT, "timeout rendering %s", url)
	}
	return err
}
