package mock

import (
	"context"

	"github.com/fwojciec/findmystore"
)

var _ findmystore.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of findmystore.ChunkService.
type ChunkService struct {
	CreateChunksFn           func(ctx context.Context, chunks []*findmystore.Chunk) error
	FindChunksFn             func(ctx context.Context, filter findmystore.ChunkFilter) ([]*findmystore.Chunk, error)
	DeleteChunksByDocumentFn func(ctx context.Context, documentID string) error
}

func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*findmystore.Chunk) error {
	return s.CreateChunksFn(ctx, chunks)
}

func (s *ChunkService) FindChunks(ctx context.Context, filter findmystore.ChunkFilter) ([]*findmystore.Chunk, error) {
	return s.FindChunksFn(ctx, filter)
}

func (s *ChunkService) DeleteChunksByDocument(ctx context.Context, documentID string) error {
	return s.DeleteChunksByDocumentFn(ctx, documentID)
}

var _ findmystore.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of findmystore.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts findmystore.SearchOptions) ([]findmystore.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts findmystore.SearchOptions) ([]findmystore.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}

var _ findmystore.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of findmystore.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string, task findmystore.EmbedTask) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string, task findmystore.EmbedTask) ([][]float32, error) {
	return e.EmbedFn(ctx, texts, task)
}
