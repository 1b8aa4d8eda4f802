package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/gemini"
	"github.com/fwojciec/findmystore/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func flyerResults() []findmystore.SearchResult {
	return []findmystore.SearchResult{
		{
			Chunk: &findmystore.Chunk{
				DocumentID: "doc-1",
				Content:    "XYZ Shampoo 2 for ₹250 this week.",
				Metadata:   findmystore.ChunkMetadata{Source: "flyer.pdf", Headers: map[string]string{"h1": "Deals", "h2": "Personal care"}},
			},
			Score: 0.91,
		},
		{
			Chunk: &findmystore.Chunk{DocumentID: "doc-2", Content: "Rice 10kg ₹489", Metadata: findmystore.ChunkMetadata{Source: "receipt.txt"}},
			Score: 0.4,
		},
	}
}

func TestAsker_Ask(t *testing.T) {
	t.Parallel()

	t.Run("answers with citations", func(t *testing.T) {
		t.Parallel()

		var gotOpts findmystore.SearchOptions
		search := &mock.SearchService{
			SearchFn: func(_ context.Context, query string, opts findmystore.SearchOptions) ([]findmystore.SearchResult, error) {
				gotOpts = opts
				return flyerResults(), nil
			},
		}
		gen := &fakeGenerator{responses: []*genai.GenerateContentResponse{textResponse("Two for ₹250 [1].")}}
		asker := gemini.NewAsker(gen, search, "")

		answer, err := asker.Ask(context.Background(), " shampoo deal? ", findmystore.AskOptions{DocumentIDs: []string{"doc-1"}, Limit: 3})
		require.NoError(t, err)

		assert.Equal(t, "Two for ₹250 [1].", answer.Text)
		assert.Equal(t, []string{"doc-1"}, gotOpts.DocumentIDs)
		assert.Equal(t, 3, gotOpts.Limit)
		require.Len(t, answer.Citations, 2)
		assert.Equal(t, findmystore.Citation{Index: 1, DocumentID: "doc-1", Source: "flyer.pdf", Score: 0.91}, answer.Citations[0])
		assert.Equal(t, 2, answer.Citations[1].Index)

		require.Len(t, gen.requests, 1)
		prompt := gen.requests[0][0].Parts[0].Text
		assert.Contains(t, prompt, "Question: shampoo deal?")
	})

	t.Run("returns ENOTFOUND without passages", func(t *testing.T) {
		t.Parallel()

		search := &mock.SearchService{
			SearchFn: func(context.Context, string, findmystore.SearchOptions) ([]findmystore.SearchResult, error) {
				return nil, nil
			},
		}
		_, err := gemini.NewAsker(nil, search, "").Ask(context.Background(), "anything", findmystore.AskOptions{})
		assert.Equal(t, findmystore.ENOTFOUND, findmystore.ErrorCode(err))
	})

	t.Run("propagates search errors", func(t *testing.T) {
		t.Parallel()

		search := &mock.SearchService{
			SearchFn: func(context.Context, string, findmystore.SearchOptions) ([]findmystore.SearchResult, error) {
				return nil, findmystore.Errorf(findmystore.EINTERNAL, "database error")
			},
		}
		_, err := gemini.NewAsker(nil, search, "").Ask(context.Background(), "anything", findmystore.AskOptions{})
		require.Error(t, err)
		assert.Equal(t, "database error", findmystore.ErrorMessage(err))
	})

	t.Run("requires a question", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewAsker(nil, nil, "").Ask(context.Background(), "  ", findmystore.AskOptions{})
		assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
		assert.Contains(t, findmystore.ErrorMessage(err), "question required")
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.NotEmpty(t, config.SystemInstruction.Parts)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "only on the passages")
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.4, *config.Temperature, 0.001)
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildUserPrompt(flyerResults(), "Where is rice cheapest?")

	assert.Contains(t, prompt, "<index>1</index>")
	assert.Contains(t, prompt, "<source>flyer.pdf</source>")
	assert.Contains(t, prompt, "<section>Deals > Personal care</section>")
	assert.Contains(t, prompt, "<index>2</index>")
	assert.Contains(t, prompt, "<content>Rice 10kg ₹489</content>")
	assert.NotContains(t, prompt, "<section></section>")
	assert.Contains(t, prompt, "Question: Where is rice cheapest?")
}
