package mock

import (
	"context"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.Asker = (*Asker)(nil)

// Asker is a mock implementation of findmystore.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string, opts findmystore.AskOptions) (*findmystore.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string, opts findmystore.AskOptions) (*findmystore.Answer, error) {
	return a.AskFn(ctx, question, opts)
}
