package findmystore

import (
	"context"
)

// Chunk is a heading-scoped slice of a document's text, embedded for
// retrieval by the question answering service.
type Chunk struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"documentId"`
	Position   int           `json:"position"`
	Content    string        `json:"content"`
	Embedding  []float32     `json:"embedding,omitempty"`
	Metadata   ChunkMetadata `json:"metadata"`
}

// ChunkMetadata locates a chunk within its document for citations.
type ChunkMetadata struct {
	Headers   map[string]string `json:"headers,omitempty"` // e.g. {"h1": "Deals", "h2": "Dairy"}
	StartLine int               `json:"startLine,omitempty"`
	EndLine   int               `json:"endLine,omitempty"`
	Source    string            `json:"source,omitempty"`
}

// Validate reports chunks that cannot be stored.
func (c *Chunk) Validate() error {
	switch {
	case c.DocumentID == "":
		return Errorf(EINVALID, "chunk has no document")
	case c.Content == "":
		return Errorf(EINVALID, "chunk is empty")
	}
	return nil
}

// ChunkService stores chunks and their embeddings.
type ChunkService interface {
	// CreateChunks stores all chunks atomically.
	CreateChunks(ctx context.Context, chunks []*Chunk) error

	// FindChunks returns chunks ordered by document and position.
	FindChunks(ctx context.Context, filter ChunkFilter) ([]*Chunk, error)

	DeleteChunksByDocument(ctx context.Context, documentID string) error
}

// ChunkFilter represents a filter for FindChunks.
type ChunkFilter struct {
	DocumentID *string `json:"documentId,omitempty"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SearchService provides semantic search over chunks.
type SearchService interface {
	// Search returns chunks ordered by relevance to the query.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// DefaultSearchLimit is the number of results returned when no limit is set.
const DefaultSearchLimit = 5

// SearchOptions narrows a semantic search. An empty DocumentIDs searches
// every document.
type SearchOptions struct {
	DocumentIDs []string `json:"documentIds,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	MinScore    float32  `json:"minScore,omitempty"` // Cosine similarity cutoff
}

// SearchResult represents a search match.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float32 `json:"score"`
}

// EmbedTask tells the embedding model how the vector will be used.
type EmbedTask string

// EmbedTask constants.
const (
	EmbedTaskDocument EmbedTask = "RETRIEVAL_DOCUMENT"
	EmbedTaskQuery    EmbedTask = "RETRIEVAL_QUERY"
)

// Embedder converts text into embedding vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string, task EmbedTask) ([][]float32, error)
}

// TokenCounter measures text in model tokens. The chunker falls back to a
// character estimate when none is configured.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
