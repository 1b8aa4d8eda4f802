package gemini_test

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// fakeGenerator returns queued responses and records every request.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []*genai.GenerateContentResponse
	err       error
	requests  [][]*genai.Content
	configs   []*genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, append([]*genai.Content(nil), contents...))
	f.configs = append(f.configs, config)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return textResponse("no more responses"), nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func callResponse(calls ...*genai.FunctionCall) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, len(calls))
	for i, c := range calls {
		parts[i] = &genai.Part{FunctionCall: c}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: parts},
		}},
	}
}
