// Package rod implements linksum.Fetcher with a headless Chrome browser for
// pages that build their content with JavaScript.
package rod

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements linksum.Fetcher at compile time.
var _ linksum.Fetcher = (*Fetcher)(nil)

// Fetcher returns the rendered DOM of a page. It is safe for concurrent use.
type Fetcher struct {
	pool     *browserPool
	timeout  time.Duration
	maxPages int64
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are rendered before Chrome is restarted.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches headless Chrome. Close must be called when the
// Fetcher is no longer needed. Returns ECONFIG when no browser can be
// started.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	pool, err := newBrowserPool(f.maxPages)
	if err != nil {
		return nil, linksum.Errorf(linksum.ECONFIG, "headless browser unavailable: %v", err)
	}
	f.pool = pool
	return f, nil
}

// Fetch navigates to url and returns the HTML after the load event.
// Navigation failures and timeouts return EFETCH.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", linksum.Errorf(linksum.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.pool.get().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", linksum.Errorf(linksum.EFETCH, "open page: %v", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", fetchError(url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fetchError(url, err)
	}
	html, err := page.HTML()
	if err != nil {
		return "", fetchError(url, err)
	}

	f.pool.rendered()
	return html, nil
}

// Close shuts Chrome down. It is safe to call more than once.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.pool.close()
}

// LauncherPID returns the Chrome launcher process ID, or 0 after Close.
func (f *Fetcher) LauncherPID() int {
	return f.pool.pid()
}

func fetchError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return linksum.Errorf(linksum.EFETCH, "timed out rendering %s", url)
	}
	return linksum.Errorf(linksum.EFETCH, "render %s: %v", url, err)
}
