package findmystore

import "context"

// Asker provides natural language question answering over documents.
type Asker interface {
	// Ask answers a question using passages retrieved from documents.
	// Returns ENOTFOUND if no relevant passages exist.
	Ask(ctx context.Context, question string, opts AskOptions) (*Answer, error)
}

// AskOptions configures question answering.
type AskOptions struct {
	// Restrict retrieval to specific document(s)
	DocumentIDs []string `json:"documentIds,omitempty"`

	// Number of passages to retrieve
	Limit int `json:"limit,omitempty"`
}

// Answer is a generated answer with the passages it was based on.
type Answer struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

// Citation identifies a passage used to answer a question.
type Citation struct {
	Index      int     `json:"index"`
	DocumentID string  `json:"documentId"`
	Source     string  `json:"source"`
	Score      float32 `json:"score"`
}
