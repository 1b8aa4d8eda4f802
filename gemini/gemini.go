// Package gemini implements question answering, embeddings, chat and token
// counting on top of Google Gemini.
package gemini

import (
	"context"

	"google.golang.org/genai"
)

// Default model names.
const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultEmbedModel = "gemini-embedding-001"
)

// ContentGenerator generates model responses. It is satisfied by
// (*genai.Client).Models.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ContentEmbedder computes embeddings. It is satisfied by
// (*genai.Client).Models.
type ContentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Compile-time verification that the SDK satisfies both interfaces.
var (
	_ ContentGenerator = (*genai.Models)(nil)
	_ ContentEmbedder  = (*genai.Models)(nil)
)

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func systemInstruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}
