package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/findmystore"
)

var (
	_ findmystore.Asker    = (*LoggingAsker)(nil)
	_ findmystore.Embedder = (*LoggingEmbedder)(nil)
	_ findmystore.Chatter  = (*LoggingChatter)(nil)
)

// LoggingAsker wraps an Asker with logging.
type LoggingAsker struct {
	next   findmystore.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next findmystore.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates and logs the number of cited passages.
func (a *LoggingAsker) Ask(ctx context.Context, question string, opts findmystore.AskOptions) (answer *findmystore.Answer, err error) {
	defer func(begin time.Time) {
		citations := 0
		if answer != nil {
			citations = len(answer.Citations)
		}
		a.logger.Info("ask",
			"question_len", len(question),
			"documents", len(opts.DocumentIDs),
			"citations", citations,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, question, opts)
}

// LoggingEmbedder wraps an Embedder with debug logging.
type LoggingEmbedder struct {
	next   findmystore.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next findmystore.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates and logs the batch size.
func (e *LoggingEmbedder) Embed(ctx context.Context, texts []string, task findmystore.EmbedTask) (vecs [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("embed",
			"texts", len(texts),
			"task", string(task),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, texts, task)
}

// LoggingChatter wraps a Chatter with logging.
type LoggingChatter struct {
	next   findmystore.Chatter
	logger *slog.Logger
}

// NewLoggingChatter creates a new LoggingChatter.
func NewLoggingChatter(next findmystore.Chatter, logger *slog.Logger) *LoggingChatter {
	return &LoggingChatter{next: next, logger: logger}
}

// Chat delegates and logs the tools the assistant called.
func (c *LoggingChatter) Chat(ctx context.Context, sessionID, message string) (reply *findmystore.ChatReply, err error) {
	defer func(begin time.Time) {
		var tools []string
		if reply != nil {
			sessionID = reply.SessionID
			tools = reply.ToolCalls
		}
		c.logger.Info("chat",
			"session", sessionID,
			"tools", tools,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Chat(ctx, sessionID, message)
}
