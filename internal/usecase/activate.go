package usecase

import (
	"fmt"
	"sort"
	"strings"

	"lorevec/internal/adapter/cache"
	"lorevec/internal/domain"
)

// Activator selects the lore entries to inject for a chat message, merging
// keyword matching with semantic search. Results are cached per
// (scope, message-hash) so repeated activations of the same message skip
// both the keyword scan and the embedding call.
type Activator struct {
	search    *SearchService
	cache     *cache.ContextCache
	limit     int
	threshold float64
}

// NewActivator constructs an activator using the given search service and
// cache. limit and threshold apply to the vector half of activation.
func NewActivator(search *SearchService, c *cache.ContextCache, limit int, threshold float64) *Activator {
	if limit < 1 {
		limit = 5
	}
	return &Activator{
		search:    search,
		cache:     c,
		limit:     limit,
		threshold: threshold,
	}
}

// Activate returns the entries activated by the message for the scope,
// ordered by priority descending then id ascending. Keyword matching is
// case-insensitive; vector search adds entries whose similarity clears the
// threshold. When no embedding provider is configured, activation degrades
// to keyword matching alone.
func (a *Activator) Activate(message, scopeID string) ([]domain.Activation, error) {
	key := cache.WorldInfoKey(scopeID, message)
	if a.cache != nil {
		if cached, ok := a.cache.Get(key); ok {
			return cached.([]domain.Activation), nil
		}
	}

	activations, err := a.activate(message, scopeID)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		a.cache.Set(key, activations)
	}
	return activations, nil
}

func (a *Activator) activate(message, scopeID string) ([]domain.Activation, error) {
	entries, err := a.search.lore.ListEntries(scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	byID := make(map[string]domain.Activation)

	lowered := strings.ToLower(message)
	for _, entry := range entries {
		if !entry.Enabled {
			continue
		}
		for _, k := range entry.Keys {
			if k == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(k)) {
				byID[entry.ID] = domain.Activation{
					Entry:  entry,
					Source: domain.ActivatedByKeyword,
				}
				break
			}
		}
	}

	if a.search.Initialized() {
		results, err := a.search.Search(message, scopeID, a.limit, a.threshold)
		if err != nil {
			return nil, fmt.Errorf("semantic activation failed: %w", err)
		}
		for _, r := range results {
			// Keyword hits keep their source; vector similarity is
			// recorded either way.
			if existing, ok := byID[r.Entry.ID]; ok {
				existing.Similarity = r.Similarity
				byID[r.Entry.ID] = existing
				continue
			}
			byID[r.Entry.ID] = domain.Activation{
				Entry:      r.Entry,
				Source:     domain.ActivatedByVector,
				Similarity: r.Similarity,
			}
		}
	}

	activations := make([]domain.Activation, 0, len(byID))
	for _, act := range byID {
		activations = append(activations, act)
	}

	sort.Slice(activations, func(i, j int) bool {
		if activations[i].Entry.Priority != activations[j].Entry.Priority {
			return activations[i].Entry.Priority > activations[j].Entry.Priority
		}
		return activations[i].Entry.ID < activations[j].Entry.ID
	})

	return activations, nil
}
