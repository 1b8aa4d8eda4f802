package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/findmystore"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ findmystore.ChunkService = (*ChunkService)(nil)

// ChunkService implements findmystore.ChunkService using SQLite.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// CreateChunks creates multiple chunks in a single transaction.
func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*findmystore.Chunk) error {
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, content, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chunks {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode chunk metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentID, c.Position, c.Content,
			encodeEmbedding(c.Embedding), string(meta)); err != nil {
			if isConstraintErr(err) {
				return findmystore.Errorf(findmystore.ENOTFOUND, "document %s not found", c.DocumentID)
			}
			return err
		}
	}

	return tx.Commit()
}

// FindChunks retrieves chunks matching the filter ordered by document and position.
func (s *ChunkService) FindChunks(ctx context.Context, filter findmystore.ChunkFilter) ([]*findmystore.Chunk, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, document_id, position, content, embedding, metadata FROM chunks WHERE 1=1")

	if filter.DocumentID != nil {
		query.WriteString(" AND document_id = ?")
		args = append(args, *filter.DocumentID)
	}

	query.WriteString(" ORDER BY document_id ASC, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	return s.query(ctx, query.String(), args...)
}

// DeleteChunksByDocument removes all chunks for a document.
func (s *ChunkService) DeleteChunksByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	return err
}

func (s *ChunkService) query(ctx context.Context, query string, args ...any) ([]*findmystore.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*findmystore.Chunk
	for rows.Next() {
		var c findmystore.Chunk
		var embedding []byte
		var meta string

		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Position, &c.Content, &embedding, &meta); err != nil {
			return nil, err
		}
		if c.Embedding, err = decodeEmbedding(embedding); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		if err := json.Unmarshal([]byte(meta), &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode chunk metadata: %w", err)
		}
		chunks = append(chunks, &c)
	}

	return chunks, rows.Err()
}
