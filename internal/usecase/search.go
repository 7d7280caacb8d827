package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"lorevec/internal/adapter/cache"
	"lorevec/internal/adapter/similarity"
	"lorevec/internal/domain"
	"lorevec/internal/port"
)

// SearchService ranks enabled lore entries against free-text queries by
// semantic similarity. Construct one per process and pass it to request
// handlers; there is no global instance.
type SearchService struct {
	embedder    port.Embedder // nil until an embedding provider is configured
	lore        port.LoreStore
	embeddings  port.EmbeddingStore
	cache       *cache.ContextCache
	logger      *slog.Logger
	concurrency int
}

// SearchOptions configures a SearchService.
type SearchOptions struct {
	Embedder    port.Embedder
	Lore        port.LoreStore
	Embeddings  port.EmbeddingStore
	Cache       *cache.ContextCache
	Logger      *slog.Logger
	Concurrency int // parallel embedding calls during reindex
}

// NewSearchService constructs a search service. Embedder may be nil, in
// which case Search fails with ErrNotInitialized until one is configured.
func NewSearchService(opts SearchOptions) *SearchService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 4
	}
	return &SearchService{
		embedder:    opts.Embedder,
		lore:        opts.Lore,
		embeddings:  opts.Embeddings,
		cache:       opts.Cache,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Initialized reports whether an embedding provider has been configured.
func (s *SearchService) Initialized() bool {
	return s.embedder != nil
}

// Search returns the best-matching enabled entries for the query, ranked by
// cosine similarity. Results below threshold are dropped; at most limit
// results are returned, best match first. An empty result set is a normal
// outcome, not an error.
//
// Ties are broken by entry priority descending, then entry id ascending, so
// identical inputs always rank identically.
func (s *SearchService) Search(query, scopeID string, limit int, threshold float64) ([]domain.SearchResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrNotInitialized
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1, got %d", limit)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0,1], got %f", threshold)
	}

	vectors, err := s.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedding returned empty result", domain.ErrProviderRequestFailed)
	}
	queryVec := vectors[0]

	candidates, err := s.embeddings.ListCandidates(scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	scored := make([]domain.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if !c.Entry.Enabled {
			continue
		}

		sim, err := similarity.Cosine(queryVec, c.Record.Vector)
		if errors.Is(err, domain.ErrZeroNormVector) {
			// A zero-norm stored vector is a malformed record; skip it
			// rather than letting it corrupt the ranking. A zero-norm
			// query vector trips the same error on every candidate, so
			// attribute it correctly.
			if isZeroVector(queryVec) {
				return nil, fmt.Errorf("query embedding has zero norm: %w", err)
			}
			s.logger.Warn("skipping zero-norm embedding", "entry_id", c.Entry.ID)
			continue
		}
		if err != nil {
			var dm *domain.DimensionMismatchError
			if errors.As(err, &dm) {
				s.logger.Error("embedding dimension mismatch, reindex required",
					"entry_id", c.Entry.ID, "want", dm.Want, "got", dm.Got)
			}
			return nil, fmt.Errorf("similarity for entry %s: %w", c.Entry.ID, err)
		}

		if sim < threshold {
			continue
		}
		scored = append(scored, domain.SearchResult{Entry: c.Entry, Similarity: sim})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		if scored[i].Entry.Priority != scored[j].Entry.Priority {
			return scored[i].Entry.Priority > scored[j].Entry.Priority
		}
		return scored[i].Entry.ID < scored[j].Entry.ID
	})

	if limit < len(scored) {
		scored = scored[:limit]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}

	return scored, nil
}

// ReindexFailure records one entry that could not be reindexed.
type ReindexFailure struct {
	EntryID string
	Err     error
}

// ReindexAll regenerates the embedding of every enabled entry in scope from
// its current content. Entries are processed by a bounded worker pool so the
// provider's rate limits are respected. One entry's failure does not abort
// the batch; failures are logged and reported alongside the success count.
//
// The world-info activation cache is cleared afterwards, since cached
// activations may reference stale embeddings.
func (s *SearchService) ReindexAll(scopeID string, progress func(done, total int)) (int, []ReindexFailure, error) {
	if s.embedder == nil {
		return 0, nil, domain.ErrNotInitialized
	}

	entries, err := s.lore.ListEntries(scopeID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list entries: %w", err)
	}

	var enabled []domain.LoreEntry
	for _, e := range entries {
		if e.Enabled {
			enabled = append(enabled, e)
		}
	}

	var (
		mu       sync.Mutex
		done     int
		success  int
		failures []ReindexFailure
		wg       sync.WaitGroup
	)

	jobs := make(chan domain.LoreEntry)

	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				err := s.reindexEntry(entry)

				mu.Lock()
				done++
				if err != nil {
					s.logger.Warn("reindex failed for entry", "entry_id", entry.ID, "error", err)
					failures = append(failures, ReindexFailure{EntryID: entry.ID, Err: err})
				} else {
					success++
				}
				if progress != nil {
					progress(done, len(enabled))
				}
				mu.Unlock()
			}
		}()
	}

	for _, entry := range enabled {
		jobs <- entry
	}
	close(jobs)
	wg.Wait()

	if s.cache != nil {
		s.cache.Clear()
	}

	return success, failures, nil
}

func (s *SearchService) reindexEntry(entry domain.LoreEntry) error {
	if err := s.embeddings.DeleteEmbeddings(entry.ID); err != nil {
		return fmt.Errorf("failed to delete old embedding: %w", err)
	}

	vectors, err := s.embedder.Embed([]string{entry.Content})
	if err != nil {
		return fmt.Errorf("failed to embed content: %w", err)
	}
	if len(vectors) == 0 {
		return fmt.Errorf("%w: embedding returned empty result", domain.ErrProviderRequestFailed)
	}

	return s.embeddings.UpsertEmbedding(entry.ID, vectors[0], entry.Content)
}

// InvalidateCache drops all cached activation results. Call after mutating
// entries outside the reindex path.
func (s *SearchService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
