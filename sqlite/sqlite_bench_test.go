package sqlite_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/mock"
	"github.com/fwojciec/findmystore/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCreateChunks measures inserting one document's worth of embedded chunks.
func BenchmarkCreateChunks(b *testing.B) {
	const chunksPerDoc = 100

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	docs := sqlite.NewDocumentService(db)
	chunks := sqlite.NewChunkService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		doc := &findmystore.Document{
			Name:    fmt.Sprintf("doc%d.md", i),
			Format:  findmystore.FormatMarkdown,
			Content: fmt.Sprintf("# Doc %d", i),
		}
		require.NoError(b, docs.CreateDocument(ctx, doc))
		batch := benchChunks(doc.ID, chunksPerDoc, 768)
		b.StartTimer()

		if err := chunks.CreateChunks(ctx, batch); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSearch measures brute-force cosine search over stored chunks.
func BenchmarkSearch(b *testing.B) {
	for _, n := range []int{100, 1000} {
		b.Run(fmt.Sprintf("chunks_%d", n), func(b *testing.B) {
			db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
			require.NoError(b, db.Open())
			defer db.Close()

			ctx := context.Background()
			doc := &findmystore.Document{Name: "bench.md", Format: findmystore.FormatMarkdown, Content: "bench"}
			require.NoError(b, sqlite.NewDocumentService(db).CreateDocument(ctx, doc))
			require.NoError(b, sqlite.NewChunkService(db).CreateChunks(ctx, benchChunks(doc.ID, n, 768)))

			query := randomVector(768)
			embedder := &mock.Embedder{
				EmbedFn: func(context.Context, []string, findmystore.EmbedTask) ([][]float32, error) {
					return [][]float32{query}, nil
				},
			}
			svc := sqlite.NewSearchService(db, embedder)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := svc.Search(ctx, "milk", findmystore.SearchOptions{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func benchChunks(documentID string, n, dims int) []*findmystore.Chunk {
	chunks := make([]*findmystore.Chunk, n)
	for i := range chunks {
		chunks[i] = &findmystore.Chunk{
			DocumentID: documentID,
			Position:   i,
			Content:    fmt.Sprintf("Chunk %d about milk, bread and weekly deals.", i),
			Embedding:  randomVector(dims),
		}
	}
	return chunks
}

func randomVector(dims int) []float32 {
	v := make([]float32, dims)
	for i := range v {
		v[i] = rand.Float32()*2 - 1
	}
	return v
}
