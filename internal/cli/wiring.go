package cli

import (
	"fmt"
	"os"

	"lorevec/config"
	"lorevec/internal/adapter/cache"
	"lorevec/internal/adapter/embedding"
	"lorevec/internal/adapter/store"
	"lorevec/internal/port"
	"lorevec/internal/usecase"
)

// openStore opens the lore database for the root directory, failing if no
// data dir has been initialized.
func openStore() (*store.BoltStore, error) {
	dbPath := config.DBPath(GetRootDir())
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no lore database found. Run 'lorevec init' first")
	}
	return store.NewBoltStore(dbPath)
}

// newEmbedder builds the configured embedding provider, or nil when
// embeddings are disabled.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	if !cfg.Embedding.Enabled {
		return nil, nil
	}

	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.New(embedding.Options{
			APIKeyEnv: cfg.Embedding.APIKeyEnv,
			Model:     cfg.Embedding.Model,
			BaseURL:   cfg.Embedding.BaseURL,
			Dimension: cfg.Embedding.Dimension,
			BatchSize: cfg.Embedding.BatchSize,
		})
	case "ollama":
		return embedding.NewOllama(cfg.Embedding.Model, cfg.Embedding.BaseURL), nil
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Embedding.Provider)
	}
}

// newSearchService wires the search service with its stores, cache and
// embedder from config.
func newSearchService(cfg *config.Config, st *store.BoltStore, c *cache.ContextCache) (*usecase.SearchService, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	return usecase.NewSearchService(usecase.SearchOptions{
		Embedder:    embedder,
		Lore:        st,
		Embeddings:  st,
		Cache:       c,
		Concurrency: cfg.Reindex.Concurrency,
	}), nil
}
