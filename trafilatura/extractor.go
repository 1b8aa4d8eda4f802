// Package trafilatura extracts the main content of imported web pages.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/findmystore"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ findmystore.Extractor = (*Extractor)(nil)

// Extractor uses go-trafilatura to pull the article body out of a page.
// Comment sections are dropped; tables are kept for price lists.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and main content HTML. ContentHTML is
// empty when no main content could be identified.
func (e *Extractor) Extract(rawHTML string) (*findmystore.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	})
	if err != nil {
		return nil, err
	}

	out := &findmystore.ExtractResult{Title: strings.TrimSpace(result.Metadata.Title)}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
