package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/findmystore"
)

// DefaultMaxChunkTokens is the chunk size target.
const DefaultMaxChunkTokens = 512

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)

// Chunker splits Markdown into chunks of at most MaxTokens tokens. Chunks
// never span a heading; each records the headings above it.
type Chunker struct {
	// Counter counts tokens. Without it tokens are estimated as runes/4.
	Counter findmystore.TokenCounter

	MaxTokens int
}

// NewChunker creates a Chunker with DefaultMaxChunkTokens.
func NewChunker(counter findmystore.TokenCounter) *Chunker {
	return &Chunker{Counter: counter, MaxTokens: DefaultMaxChunkTokens}
}

// block is a paragraph with its 1-based line range.
type block struct {
	text       string
	start, end int
}

// Chunk splits doc.Content. Returned chunks have DocumentID, Position,
// Content and Metadata set.
func (c *Chunker) Chunk(ctx context.Context, doc *findmystore.Document) ([]*findmystore.Chunk, error) {
	source := doc.Source
	if source == "" {
		source = doc.Name
	}

	var chunks []*findmystore.Chunk
	headers := map[string]string{}
	var section []block

	flush := func() error {
		if len(section) == 0 {
			return nil
		}
		packed, err := c.pack(ctx, section)
		if err != nil {
			return err
		}
		for _, b := range packed {
			chunks = append(chunks, &findmystore.Chunk{
				DocumentID: doc.ID,
				Position:   len(chunks),
				Content:    b.text,
				Metadata: findmystore.ChunkMetadata{
					Headers:   copyHeaders(headers),
					StartLine: b.start,
					EndLine:   b.end,
					Source:    source,
				},
			})
		}
		section = nil
		return nil
	}

	lines := strings.Split(strings.ReplaceAll(doc.Content, "\r\n", "\n"), "\n")
	var para []string
	paraStart := 0
	endPara := func(end int) {
		if len(para) > 0 {
			section = append(section, block{text: strings.Join(para, "\n"), start: paraStart, end: end})
			para = nil
		}
	}
	inFence := false
	for i, line := range lines {
		n := i + 1
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(trimmed); m != nil {
				endPara(n - 1)
				if err := flush(); err != nil {
					return nil, err
				}
				level := len(m[1])
				headers[fmt.Sprintf("h%d", level)] = m[2]
				for deeper := level + 1; deeper <= 6; deeper++ {
					delete(headers, fmt.Sprintf("h%d", deeper))
				}
				section = append(section, block{text: trimmed, start: n, end: n})
				continue
			}
			if trimmed == "" {
				endPara(n - 1)
				continue
			}
		}
		if len(para) == 0 {
			paraStart = n
		}
		para = append(para, line)
	}
	endPara(len(lines))
	if err := flush(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// pack merges consecutive blocks while they fit and splits blocks that
// are too large on their own.
func (c *Chunker) pack(ctx context.Context, blocks []block) ([]block, error) {
	limit := c.maxTokens()
	var out []block
	var cur *block
	for _, b := range blocks {
		n, err := c.count(ctx, b.text)
		if err != nil {
			return nil, err
		}
		if n > limit {
			if cur != nil {
				out = append(out, *cur)
				cur = nil
			}
			parts, err := c.split(ctx, b)
			if err != nil {
				return nil, err
			}
			out = append(out, parts...)
			continue
		}
		if cur == nil {
			cur = &block{text: b.text, start: b.start, end: b.end}
			continue
		}
		joined := cur.text + "\n\n" + b.text
		n, err = c.count(ctx, joined)
		if err != nil {
			return nil, err
		}
		if n > limit {
			out = append(out, *cur)
			cur = &block{text: b.text, start: b.start, end: b.end}
			continue
		}
		cur.text = joined
		cur.end = b.end
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out, nil
}

// split breaks an oversized block on sentence boundaries, then on word
// boundaries for sentences that are still too long.
func (c *Chunker) split(ctx context.Context, b block) ([]block, error) {
	limit := c.maxTokens()
	var pieces []string
	for _, s := range sentences(b.text) {
		n, err := c.count(ctx, s)
		if err != nil {
			return nil, err
		}
		if n <= limit {
			pieces = append(pieces, s)
			continue
		}
		pieces = append(pieces, strings.Fields(s)...)
	}

	var out []block
	var cur string
	for _, p := range pieces {
		if cur == "" {
			cur = p
			continue
		}
		joined := cur + " " + p
		n, err := c.count(ctx, joined)
		if err != nil {
			return nil, err
		}
		if n > limit {
			out = append(out, block{text: cur, start: b.start, end: b.end})
			cur = p
			continue
		}
		cur = joined
	}
	if cur != "" {
		out = append(out, block{text: cur, start: b.start, end: b.end})
	}
	return out, nil
}

// sentences splits text after '.', '!' or '?' followed by whitespace.
func sentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next >= len(text) {
			break
		}
		if nr, _ := utf8.DecodeRuneInString(text[next:]); unicode.IsSpace(nr) {
			if s := strings.TrimSpace(text[start:next]); s != "" {
				out = append(out, s)
			}
			start = next
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func (c *Chunker) maxTokens() int {
	if c.MaxTokens <= 0 {
		return DefaultMaxChunkTokens
	}
	return c.MaxTokens
}

func (c *Chunker) count(ctx context.Context, text string) (int, error) {
	if c.Counter == nil {
		return EstimateTokens(text), nil
	}
	return c.Counter.CountTokens(ctx, text)
}

// EstimateTokens approximates a token count as one token per four runes.
func EstimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

func copyHeaders(h map[string]string) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
