package gemini

import (
	"context"

	"github.com/fwojciec/findmystore"
	"google.golang.org/genai"
)

var _ findmystore.Embedder = (*Embedder)(nil)

// Embedder computes text embeddings with a Gemini embedding model.
type Embedder struct {
	emb   ContentEmbedder
	model string
}

// NewEmbedder creates a new Embedder. An empty model uses DefaultEmbedModel.
func NewEmbedder(emb ContentEmbedder, model string) *Embedder {
	if model == "" {
		model = DefaultEmbedModel
	}
	return &Embedder{emb: emb, model: model}
}

// Embed returns one vector per text in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string, task findmystore.EmbedTask) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := e.emb.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{TaskType: string(task)})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, findmystore.Errorf(findmystore.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(resp), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, findmystore.Errorf(findmystore.EINTERNAL, "gemini returned empty embedding at %d", i)
		}
		out[i] = emb.Values
	}
	return out, nil
}

func embeddingCount(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}
