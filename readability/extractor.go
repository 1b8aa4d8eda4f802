// Package readability is the fallback main-content extractor for imported
// pages that trafilatura cannot handle.
package readability

import (
	"strings"

	"github.com/fwojciec/findmystore"
	"github.com/go-shiori/go-readability"
)

var _ findmystore.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and content HTML.
func (e *Extractor) Extract(rawHTML string) (*findmystore.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, findmystore.Errorf(findmystore.EINVALID, "extract article: %v", err)
	}
	return &findmystore.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
