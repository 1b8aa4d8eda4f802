package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/bloom"
	"golang.org/x/sync/errgroup"
)

// Importer fetches web pages and ingests their main content.
type Importer struct {
	Fetcher   findmystore.Fetcher
	Extractor findmystore.Extractor
	// Fallback is tried when Extractor fails or finds no content.
	Fallback  findmystore.Extractor
	Converter findmystore.Converter
	Ingester  *Ingester
	Limiter   *DomainLimiter

	RetryDelays []time.Duration
	Concurrency int
	Logger      *slog.Logger

	mu    sync.Mutex
	known *bloom.Filter // Sources of imported pages, loaded on first use
}

// ImportResult is the outcome of importing one URL.
type ImportResult struct {
	URL      string                `json:"url"`
	Document *findmystore.Document `json:"document,omitempty"`
	Err      error                 `json:"-"`
}

// ImportURL fetches rawURL and stores its main content as a document.
func (im *Importer) ImportURL(ctx context.Context, rawURL string) (*findmystore.Document, error) {
	u, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if im.Limiter != nil {
		if err := im.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := im.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	var logf LogFunc
	if im.Logger != nil {
		logf = func(format string, args ...any) {
			im.Logger.Warn(fmt.Sprintf(format, args...))
		}
	}
	page := u.String()
	html, err := FetchWithRetry(ctx, page, im.Fetcher.Fetch, logf, delays)
	if err != nil {
		return nil, findmystore.Errorf(findmystore.EUNAVAILABLE, "fetch %s: %v", page, err)
	}

	extracted, err := im.extract(html)
	if err != nil {
		return nil, err
	}
	markdown, err := im.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, err
	}

	doc := &findmystore.Document{
		Name:    page,
		Format:  findmystore.FormatURL,
		Source:  page,
		Title:   strings.TrimSpace(extracted.Title),
		Content: markdown,
		Size:    int64(len(html)),
	}
	if doc.Title == "" {
		doc.Title = u.Host + u.Path
	}
	if err := im.Ingester.Store(ctx, doc, []byte(html)); err != nil {
		return nil, err
	}
	return doc, nil
}

func (im *Importer) extract(html string) (*findmystore.ExtractResult, error) {
	res, err := im.Extractor.Extract(html)
	if err == nil && strings.TrimSpace(res.ContentHTML) != "" {
		return res, nil
	}
	if im.Fallback == nil {
		if err == nil {
			err = findmystore.Errorf(findmystore.EINVALID, "page has no readable content")
		}
		return nil, err
	}
	fb, ferr := im.Fallback.Extract(html)
	if ferr != nil {
		return nil, ferr
	}
	if strings.TrimSpace(fb.ContentHTML) == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "page has no readable content")
	}
	if fb.Title == "" && res != nil {
		fb.Title = res.Title
	}
	return fb, nil
}

// ImportURLs imports several URLs concurrently. Results keep the input
// order. A URL repeated in the batch, or already stored as a document, is
// reported as ECONFLICT without being fetched.
func (im *Importer) ImportURLs(ctx context.Context, urls []string) []ImportResult {
	results := make([]ImportResult, len(urls))
	known := im.knownSources(ctx)
	batch := make(map[string]bool, len(urls))

	limit := im.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, raw := range urls {
		results[i].URL = raw
		u, err := NormalizeURL(raw)
		if err != nil {
			results[i].Err = err
			continue
		}
		key := u.String()
		// Only filter hits are checked against the batch and the database.
		if known.Seen(key) {
			if err := im.confirmDuplicate(ctx, key, batch); err != nil {
				results[i].Err = err
				continue
			}
		}
		batch[key] = true
		g.Go(func() error {
			doc, err := im.ImportURL(gctx, raw)
			results[i].Document = doc
			results[i].Err = err
			// Per-URL failures are reported in results.
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// confirmDuplicate returns ECONFLICT when key is truly a repeat. Bloom
// filter hits can be false positives, and sources of deleted documents stay
// in the filter.
func (im *Importer) confirmDuplicate(ctx context.Context, key string, batch map[string]bool) error {
	if batch[key] {
		return findmystore.Errorf(findmystore.ECONFLICT, "duplicate url %s", key)
	}
	docs, err := im.Ingester.Documents.FindDocuments(ctx, findmystore.DocumentFilter{Name: &key, Limit: 1})
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		return findmystore.Errorf(findmystore.ECONFLICT, "%s already imported as %s", key, docs[0].ID)
	}
	return nil
}

// knownSources returns the filter of imported page URLs, loading it from
// the document store on first use. A failed load leaves the filter empty;
// duplicate content is still caught by the content hash.
func (im *Importer) knownSources(ctx context.Context) *bloom.Filter {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.known != nil {
		return im.known
	}

	format := findmystore.FormatURL
	docs, err := im.Ingester.Documents.FindDocuments(ctx, findmystore.DocumentFilter{Format: &format})
	if err != nil && im.Logger != nil {
		im.Logger.Warn("load imported urls", "err", err)
	}
	im.known = bloom.NewFilter(uint(max(2*len(docs), knownSourcesMin)), 0)
	for _, doc := range docs {
		im.known.Add(doc.Source)
	}
	return im.known
}

// knownSourcesMin sizes the filter for a store with few imported pages.
const knownSourcesMin = 1024

// NormalizeURL validates an http(s) URL and returns it with a lowercased
// host and no fragment.
func NormalizeURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, findmystore.Errorf(findmystore.EINVALID, "invalid url %q", raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}
