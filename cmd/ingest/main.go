// Ingests the restaurant's menu and policy documents: reads the docs
// directory, splits each file into paragraph chunks, embeds them, and
// replaces the stored corpus. Run this before starting the agent.
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	llmx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/llm"
	retrievalx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/agent/retrieval"
	configx "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/config"
	_ "github.com/tanpawarit/Sage-Voice-Ordering-Agent/pkg/logger/autoload"
)

type IngestConfig struct {
	DocsDir string `split_words:"true" default:"data/company_docs"`
}

func main() {
	ctx := context.Background()

	ingestCfg := configx.MustNew[IngestConfig]("INGEST")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	storeCfg := configx.MustNew[retrievalx.StoreConfig]("POSTGRES")

	embedder, err := retrievalx.NewOpenAIEmbedder(llmCfg.EmbedderConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("create embedder")
	}

	store, err := retrievalx.NewBunStore(*storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open chunk store")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}

	texts, sources, err := readDocs(ingestCfg.DocsDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", ingestCfg.DocsDir).Msg("read docs")
	}
	if len(texts) == 0 {
		log.Fatal().Str("dir", ingestCfg.DocsDir).Msg("no documents found")
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		log.Fatal().Err(err).Msg("embed corpus")
	}

	chunks := make([]retrievalx.Chunk, len(texts))
	for i := range texts {
		chunks[i] = retrievalx.Chunk{
			Source:    sources[i],
			Text:      texts[i],
			Embedding: vectors[i],
		}
	}

	if err := store.Replace(ctx, chunks); err != nil {
		log.Fatal().Err(err).Msg("store corpus")
	}

	log.Info().Int("chunks", len(chunks)).Str("dir", ingestCfg.DocsDir).Msg("corpus ingested")
}

// readDocs collects paragraph chunks from every .md and .txt file in dir,
// returning parallel slices of chunk text and source filename.
func readDocs(dir string) ([]string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var texts, sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".md" && ext != ".txt" {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, nil, err
		}

		for _, chunk := range retrievalx.SplitChunks(string(raw), 0) {
			texts = append(texts, chunk)
			sources = append(sources, entry.Name())
		}
	}
	return texts, sources, nil
}
