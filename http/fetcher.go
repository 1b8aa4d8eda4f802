// Package http serves the FindMyStore JSON API and web page, and fetches
// static web pages for document import.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/findmystore"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultUserAgent    = "FindMyStore/1.0 (+document import)"
	MaxPageBytes        = 20 << 20
)

var _ findmystore.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with plain HTTP GET requests. Pages that need
// JavaScript should go through rod.Fetcher instead.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch returns the body of url. Non-200 responses are errors, and bodies
// over MaxPageBytes are rejected with EINVALID.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", findmystore.Errorf(findmystore.EINVALID, "invalid url %q", url)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes+1))
	if err != nil {
		return "", err
	}
	if len(body) > MaxPageBytes {
		return "", findmystore.Errorf(findmystore.EINVALID, "page %s exceeds %d MiB", url, MaxPageBytes>>20)
	}
	return string(body), nil
}

// Close is a no-op; the client holds no resources that need releasing.
func (f *Fetcher) Close() error {
	return nil
}
