package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/mock"
	"github.com/fwojciec/findmystore/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService_Search(t *testing.T) {
	t.Parallel()

	t.Run("ranks embedded chunks by cosine similarity", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		doc := createTestDocument(t, db, "deals.md", "content")
		ctx := context.Background()
		require.NoError(t, sqlite.NewChunkService(db).CreateChunks(ctx, []*findmystore.Chunk{
			{DocumentID: doc.ID, Position: 0, Content: "dairy", Embedding: []float32{1, 0}},
			{DocumentID: doc.ID, Position: 1, Content: "bakery", Embedding: []float32{0, 1}},
			{DocumentID: doc.ID, Position: 2, Content: "mixed", Embedding: []float32{1, 1}},
		}))

		var gotTask findmystore.EmbedTask
		embedder := &mock.Embedder{
			EmbedFn: func(_ context.Context, texts []string, task findmystore.EmbedTask) ([][]float32, error) {
				gotTask = task
				return [][]float32{{1, 0.1}}, nil
			},
		}

		results, err := sqlite.NewSearchService(db, embedder).Search(ctx, "milk offers", findmystore.SearchOptions{Limit: 2})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "dairy", results[0].Chunk.Content)
		assert.Equal(t, "mixed", results[1].Chunk.Content)
		assert.Greater(t, results[0].Score, results[1].Score)
		assert.Equal(t, findmystore.EmbedTaskQuery, gotTask)
	})

	t.Run("falls back to keyword overlap without embedder", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		doc := createTestDocument(t, db, "deals.md", "content")
		ctx := context.Background()
		require.NoError(t, sqlite.NewChunkService(db).CreateChunks(ctx, []*findmystore.Chunk{
			{DocumentID: doc.ID, Position: 0, Content: "Bread is on sale this week."},
			{DocumentID: doc.ID, Position: 1, Content: "Milk and bread are both on sale."},
			{DocumentID: doc.ID, Position: 2, Content: "Store hours are 9 to 9."},
		}))

		results, err := sqlite.NewSearchService(db, nil).Search(ctx, "milk bread sale", findmystore.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 1, results[0].Chunk.Position)
		assert.InDelta(t, 1.0, results[0].Score, 0.001)
		assert.InDelta(t, 2.0/3.0, results[1].Score, 0.001)
	})

	t.Run("does not call embedder when no chunk has an embedding", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		doc := createTestDocument(t, db, "deals.md", "content")
		ctx := context.Background()
		require.NoError(t, sqlite.NewChunkService(db).CreateChunks(ctx, []*findmystore.Chunk{
			{DocumentID: doc.ID, Content: "milk"},
		}))

		embedder := &mock.Embedder{
			EmbedFn: func(context.Context, []string, findmystore.EmbedTask) ([][]float32, error) {
				return nil, errors.New("should not be called")
			},
		}

		results, err := sqlite.NewSearchService(db, embedder).Search(ctx, "milk", findmystore.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
	})

	t.Run("filters by document and min score", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		a := createTestDocument(t, db, "a.md", "a")
		b := createTestDocument(t, db, "b.md", "b")
		ctx := context.Background()
		require.NoError(t, sqlite.NewChunkService(db).CreateChunks(ctx, []*findmystore.Chunk{
			{DocumentID: a.ID, Content: "milk bread"},
			{DocumentID: a.ID, Content: "milk only"},
			{DocumentID: b.ID, Content: "milk bread"},
		}))

		results, err := sqlite.NewSearchService(db, nil).Search(ctx, "milk bread",
			findmystore.SearchOptions{DocumentIDs: []string{a.ID}, MinScore: 0.9})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, a.ID, results[0].Chunk.DocumentID)
		assert.Equal(t, "milk bread", results[0].Chunk.Content)
	})

	t.Run("propagates embedder error", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		doc := createTestDocument(t, db, "deals.md", "content")
		ctx := context.Background()
		require.NoError(t, sqlite.NewChunkService(db).CreateChunks(ctx, []*findmystore.Chunk{
			{DocumentID: doc.ID, Content: "milk", Embedding: []float32{1}},
		}))

		embedder := &mock.Embedder{
			EmbedFn: func(context.Context, []string, findmystore.EmbedTask) ([][]float32, error) {
				return nil, errors.New("quota exceeded")
			},
		}

		_, err := sqlite.NewSearchService(db, embedder).Search(ctx, "milk", findmystore.SearchOptions{})
		require.Error(t, err)
	})

	t.Run("requires query", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		_, err := sqlite.NewSearchService(db, nil).Search(context.Background(), "  ", findmystore.SearchOptions{})
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	})

	t.Run("returns empty without chunks", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		results, err := sqlite.NewSearchService(db, nil).Search(context.Background(), "milk", findmystore.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
