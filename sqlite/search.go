package sqlite

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/fwojciec/findmystore"
)

// Compile-time interface verification.
var _ findmystore.SearchService = (*SearchService)(nil)

// SearchService implements findmystore.SearchService with brute-force
// similarity over the chunks table.
//
// Chunks with an embedding are scored by cosine similarity against the query
// embedding. Chunks without one, or every chunk when no Embedder is set, are
// scored by keyword overlap: the fraction of distinct query terms the chunk
// contains.
type SearchService struct {
	chunks   *ChunkService
	embedder findmystore.Embedder
}

// NewSearchService creates a new SearchService. The embedder may be nil.
func NewSearchService(db *DB, embedder findmystore.Embedder) *SearchService {
	return &SearchService{chunks: NewChunkService(db), embedder: embedder}
}

// Search returns chunks ordered by relevance to the query.
func (s *SearchService) Search(ctx context.Context, query string, opts findmystore.SearchOptions) ([]findmystore.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, findmystore.Errorf(findmystore.EINVALID, "search query required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = findmystore.DefaultSearchLimit
	}

	var q strings.Builder
	var args []any
	q.WriteString("SELECT id, document_id, position, content, embedding, metadata FROM chunks")
	if len(opts.DocumentIDs) > 0 {
		q.WriteString(" WHERE document_id IN (" + placeholders(len(opts.DocumentIDs)) + ")")
		for _, id := range opts.DocumentIDs {
			args = append(args, id)
		}
	}
	q.WriteString(" ORDER BY document_id ASC, position ASC")

	chunks, err := s.chunks.query(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	var queryVec []float32
	if s.embedder != nil && anyEmbedded(chunks) {
		vecs, err := s.embedder.Embed(ctx, []string{query}, findmystore.EmbedTaskQuery)
		if err != nil {
			return nil, err
		}
		if len(vecs) > 0 {
			queryVec = vecs[0]
		}
	}
	terms := queryTerms(query)

	results := make([]findmystore.SearchResult, 0, len(chunks))
	for _, c := range chunks {
		var score float32
		if queryVec != nil && len(c.Embedding) == len(queryVec) {
			score = cosine(queryVec, c.Embedding)
		} else {
			score = keywordScore(terms, c.Content)
		}
		if score <= 0 || score < opts.MinScore {
			continue
		}
		results = append(results, findmystore.SearchResult{Chunk: c, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func anyEmbedded(chunks []*findmystore.Chunk) bool {
	for _, c := range chunks {
		if len(c.Embedding) > 0 {
			return true
		}
	}
	return false
}

// cosine returns the cosine similarity of two equal-length vectors.
func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// queryTerms splits text into distinct lowercase words of two or more runes.
func queryTerms(text string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, w := range words(text) {
		if len([]rune(w)) < 2 || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}

func keywordScore(terms []string, content string) float32 {
	if len(terms) == 0 {
		return 0
	}
	present := make(map[string]bool)
	for _, w := range words(content) {
		present[w] = true
	}
	var hits int
	for _, t := range terms {
		if present[t] {
			hits++
		}
	}
	return float32(hits) / float32(len(terms))
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
