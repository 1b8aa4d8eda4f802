package mock

import (
	"context"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.MessageService = (*MessageService)(nil)

// MessageService is a mock implementation of findmystore.MessageService.
type MessageService struct {
	CreateMessagesFn func(ctx context.Context, msgs []*findmystore.Message) error
	FindMessagesFn   func(ctx context.Context, sessionID string, limit int) ([]*findmystore.Message, error)
}

func (s *MessageService) CreateMessages(ctx context.Context, msgs []*findmystore.Message) error {
	return s.CreateMessagesFn(ctx, msgs)
}

func (s *MessageService) FindMessages(ctx context.Context, sessionID string, limit int) ([]*findmystore.Message, error) {
	return s.FindMessagesFn(ctx, sessionID, limit)
}

var _ findmystore.Chatter = (*Chatter)(nil)

// Chatter is a mock implementation of findmystore.Chatter.
type Chatter struct {
	ChatFn func(ctx context.Context, sessionID, message string) (*findmystore.ChatReply, error)
}

func (c *Chatter) Chat(ctx context.Context, sessionID, message string) (*findmystore.ChatReply, error) {
	return c.ChatFn(ctx, sessionID, message)
}

var _ findmystore.Toolbox = (*Toolbox)(nil)

// Toolbox is a mock implementation of findmystore.Toolbox.
type Toolbox struct {
	ToolsFn func() []findmystore.ToolSpec
	CallFn  func(ctx context.Context, name string, args map[string]any) (any, error)
}

func (t *Toolbox) Tools() []findmystore.ToolSpec {
	return t.ToolsFn()
}

func (t *Toolbox) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	return t.CallFn(ctx, name, args)
}
