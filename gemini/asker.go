package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/findmystore"
	"google.golang.org/genai"
)

// Ensure Asker implements findmystore.Asker at compile time.
var _ findmystore.Asker = (*Asker)(nil)

// Asker implements findmystore.Asker using retrieved passages and Gemini.
type Asker struct {
	gen    ContentGenerator
	search findmystore.SearchService
	model  string
}

// NewAsker creates a new Asker. An empty model uses DefaultModel.
func NewAsker(gen ContentGenerator, search findmystore.SearchService, model string) *Asker {
	if model == "" {
		model = DefaultModel
	}
	return &Asker{gen: gen, search: search, model: model}
}

// Ask answers a question from the most relevant document passages.
func (a *Asker) Ask(ctx context.Context, question string, opts findmystore.AskOptions) (*findmystore.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "question required")
	}

	results, err := a.search.Search(ctx, question, findmystore.SearchOptions{
		DocumentIDs: opts.DocumentIDs,
		Limit:       opts.Limit,
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, findmystore.Errorf(findmystore.ENOTFOUND, "no relevant passages found")
	}

	result, err := a.gen.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromText(BuildUserPrompt(results, question), genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, findmystore.Errorf(findmystore.EINTERNAL, "gemini returned nil result")
	}

	answer := &findmystore.Answer{
		Text:      result.Text(),
		Citations: make([]findmystore.Citation, len(results)),
	}
	for i, r := range results {
		answer.Citations[i] = findmystore.Citation{
			Index:      i + 1,
			DocumentID: r.Chunk.DocumentID,
			Source:     r.Chunk.Metadata.Source,
			Score:      r.Score,
		}
	}
	return answer, nil
}

// BuildConfig returns the GenerateContentConfig for question answering.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction("You are a shopping assistant answering questions about the user's documents: flyers, receipts and price lists. " +
			"Answer based only on the passages provided and cite them by number, like [1]. " +
			"If the answer is not in the passages, say so."),
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing numbered passages and
// the question.
func BuildUserPrompt(results []findmystore.SearchResult, question string) string {
	var sb strings.Builder
	sb.WriteString("<passages>\n")
	for i, r := range results {
		sb.WriteString("<passage>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<source>%s</source>\n", r.Chunk.Metadata.Source)
		if len(r.Chunk.Metadata.Headers) > 0 {
			fmt.Fprintf(&sb, "<section>%s</section>\n", headerPath(r.Chunk.Metadata.Headers))
		}
		fmt.Fprintf(&sb, "<content>%s</content>\n", r.Chunk.Content)
		sb.WriteString("</passage>\n")
	}
	sb.WriteString("</passages>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

// headerPath joins h1..h6 headers in level order.
func headerPath(headers map[string]string) string {
	var parts []string
	for level := 1; level <= 6; level++ {
		if h, ok := headers[fmt.Sprintf("h%d", level)]; ok && h != "" {
			parts = append(parts, h)
		}
	}
	return strings.Join(parts, " > ")
}
