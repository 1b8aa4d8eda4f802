package mock

import "github.com/fwojciec/findmystore"

var _ findmystore.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of findmystore.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*findmystore.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*findmystore.ExtractResult, error) {
	return e.ExtractFn(html)
}
