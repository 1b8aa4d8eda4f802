package mock

import "github.com/fwojciec/findmystore"

var _ findmystore.Converter = (*Converter)(nil)

// Converter is a mock implementation of findmystore.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
