package retrieval

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/contract"
)

// DefaultTopK is the fixed number of passages injected per turn.
const DefaultTopK = 3

const (
	// SentinelNoIndex is injected when no corpus has been ingested yet.
	SentinelNoIndex = "No menu data is available. Please run the ingestion step first."
	// SentinelNoMatch is injected when the corpus has nothing relevant.
	SentinelNoMatch = "No relevant menu information found."
)

// Injector produces the context text prepended to every assistant generation.
// A failing or missing retriever never fails the turn: it degrades to a
// sentinel string the model can speak around.
type Injector struct {
	retriever contractx.Retriever
}

func NewInjector(retriever contractx.Retriever) *Injector {
	return &Injector{retriever: retriever}
}

// OnUserTurn retrieves context for one completed user utterance. An empty
// query produces no injection at all. Passages are concatenated in ranked
// order, separated by blank lines. Retrieved text is consumed once per turn
// and never cached.
func (i *Injector) OnUserTurn(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	if i == nil || i.retriever == nil {
		return SentinelNoIndex
	}

	passages, err := i.retriever.Search(ctx, query, DefaultTopK)
	if err != nil {
		log.Warn().Err(err).Msg("menu retrieval failed, injecting sentinel")
		return SentinelNoIndex
	}
	if len(passages) == 0 {
		return SentinelNoMatch
	}
	return strings.Join(passages, "\n\n")
}
