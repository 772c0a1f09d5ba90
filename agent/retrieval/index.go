package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
)

// Index is an in-memory cosine-similarity retriever over the embedded corpus.
// It is read-only after construction and safe to share across sessions.
type Index struct {
	embedder Embedder
	chunks   []Chunk
}

var _ contractx.Retriever = (*Index)(nil)

// LoadIndex pulls the embedded corpus from the store. Returns
// ErrRetrievalUnavailable (wrapped) when the corpus is empty, i.e. the
// ingestion step has not run.
func LoadIndex(ctx context.Context, embedder Embedder, store Store) (*Index, error) {
	chunks, err := store.LoadChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrRetrievalUnavailable, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: corpus is empty", contractx.ErrRetrievalUnavailable)
	}

	log.Info().Int("chunks", len(chunks)).Msg("retrieval index loaded")
	return NewIndex(embedder, chunks), nil
}

func NewIndex(embedder Embedder, chunks []Chunk) *Index {
	return &Index{embedder: embedder, chunks: chunks}
}

// Search embeds the query and returns the topK chunk texts ranked by cosine
// similarity, best first.
func (idx *Index) Search(ctx context.Context, query string, topK int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" || topK <= 0 {
		return nil, nil
	}
	if len(idx.chunks) == 0 {
		return nil, fmt.Errorf("%w: corpus is empty", contractx.ErrRetrievalUnavailable)
	}

	vectors, err := idx.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", contractx.ErrModelInvoke, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected 1 query vector, got %d", contractx.ErrModelInvoke, len(vectors))
	}
	queryVec := vectors[0]

	type scored struct {
		text  string
		score float64
	}
	ranked := make([]scored, 0, len(idx.chunks))
	for _, chunk := range idx.chunks {
		ranked = append(ranked, scored{
			text:  chunk.Text,
			score: cosineSimilarity(queryVec, chunk.Embedding),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	passages := make([]string, 0, topK)
	for _, r := range ranked[:topK] {
		passages = append(passages, r.text)
	}
	return passages, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
