package findmystore

import "context"

// Fetcher downloads a web page for import. The http/ implementation issues a
// plain GET; rod/ renders the page in a headless browser first.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any browser or connection held by the fetcher.
	Close() error
}

// ExtractResult is the readable part of a fetched page.
type ExtractResult struct {
	Title       string
	ContentHTML string // Main content with navigation, ads and footers stripped
}

// Extractor isolates the main content of a page. Empty input is EINVALID.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter renders extracted HTML as Markdown so imported pages chunk the
// same way as uploaded Markdown files.
type Converter interface {
	Convert(html string) (string, error)
}
