// Package ingest turns uploaded files and web pages into searchable
// documents: parse, store, chunk, embed.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/findmystore"
	"golang.org/x/sync/errgroup"
)

// Ingestion limits.
const (
	MaxDocumentSize    = 20 << 20
	DefaultBatchSize   = 32
	DefaultConcurrency = 4
)

// Ingester stores documents with their chunks and embeddings. Embedder and
// Archive are optional.
type Ingester struct {
	Documents findmystore.DocumentService
	Chunks    findmystore.ChunkService
	Parsers   map[findmystore.Format]findmystore.Parser
	Chunker   *Chunker
	Embedder  findmystore.Embedder
	Archive   findmystore.Archive

	// Texts per embedding request and concurrent requests.
	BatchSize   int
	Concurrency int
}

// Ingest reads an uploaded file, detects its format from name, parses it
// and stores it. Duplicate content returns ECONFLICT naming the existing
// document.
func (i *Ingester) Ingest(ctx context.Context, name string, r io.Reader) (*findmystore.Document, error) {
	format, err := findmystore.DetectFormat(name)
	if err != nil {
		return nil, err
	}
	parser, ok := i.Parsers[format]
	if !ok {
		return nil, findmystore.Errorf(findmystore.EINVALID, "no parser for %s documents", format)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDocumentSize {
		return nil, findmystore.Errorf(findmystore.EINVALID, "document exceeds %d MiB", MaxDocumentSize>>20)
	}
	if len(data) == 0 {
		return nil, findmystore.Errorf(findmystore.EINVALID, "document is empty")
	}

	parsed, err := parser.Parse(ctx, data)
	if err != nil {
		return nil, err
	}

	doc := &findmystore.Document{
		Name:    name,
		Format:  format,
		Source:  name,
		Title:   parsed.Title,
		Content: parsed.Text,
		Size:    int64(len(data)),
	}
	if doc.Title == "" {
		doc.Title = name
	}
	return doc, i.Store(ctx, doc, data)
}

// Store creates the document, archives raw, and indexes its chunks. If
// indexing fails the document is removed again.
func (i *Ingester) Store(ctx context.Context, doc *findmystore.Document, raw []byte) error {
	if err := i.Documents.CreateDocument(ctx, doc); err != nil {
		return err
	}

	if err := i.index(ctx, doc, raw); err != nil {
		// Roll back with a fresh context so cancellation does not leave a
		// half-indexed document behind.
		cleanup := context.WithoutCancel(ctx)
		if derr := i.Documents.DeleteDocument(cleanup, doc.ID); derr != nil {
			err = errors.Join(err, fmt.Errorf("delete document %s: %w", doc.ID, derr))
		}
		if i.Archive != nil {
			_ = i.Archive.Remove(cleanup, doc)
		}
		return err
	}
	return nil
}

func (i *Ingester) index(ctx context.Context, doc *findmystore.Document, raw []byte) error {
	if i.Archive != nil && len(raw) > 0 {
		if _, err := i.Archive.Put(ctx, doc, raw); err != nil {
			return err
		}
	}

	chunker := i.Chunker
	if chunker == nil {
		chunker = NewChunker(nil)
	}
	chunks, err := chunker.Chunk(ctx, doc)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return findmystore.Errorf(findmystore.EINVALID, "document has no text")
	}

	if err := i.embed(ctx, chunks); err != nil {
		return err
	}
	return i.Chunks.CreateChunks(ctx, chunks)
}

// embed fills chunk embeddings in batches, several batches at a time.
func (i *Ingester) embed(ctx context.Context, chunks []*findmystore.Chunk) error {
	if i.Embedder == nil {
		return nil
	}
	size := i.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	limit := i.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for start := 0; start < len(chunks); start += size {
		batch := chunks[start:min(start+size, len(chunks))]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for j, c := range batch {
				texts[j] = c.Content
			}
			vecs, err := i.Embedder.Embed(gctx, texts, findmystore.EmbedTaskDocument)
			if err != nil {
				return err
			}
			if len(vecs) != len(batch) {
				return findmystore.Errorf(findmystore.EINTERNAL, "got %d embeddings for %d chunks", len(vecs), len(batch))
			}
			for j, c := range batch {
				c.Embedding = vecs[j]
			}
			return nil
		})
	}
	return g.Wait()
}

// Delete removes a document, its chunks and its archived bytes.
func (i *Ingester) Delete(ctx context.Context, id string) error {
	doc, err := i.Documents.FindDocumentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := i.Documents.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if i.Archive != nil {
		return i.Archive.Remove(ctx, doc)
	}
	return nil
}
