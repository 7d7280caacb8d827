package domain

import "time"

// LoreEntry is an author-provided snippet of background text with activation
// metadata. Entries are created and edited by external authoring tools; this
// core reads them and activates them against chat content.
type LoreEntry struct {
	ID       string   `json:"id"`
	ScopeID  string   `json:"scope_id"`
	Content  string   `json:"content"`
	Enabled  bool     `json:"enabled"`
	Priority int      `json:"priority"`
	Keys     []string `json:"keys,omitempty"`
}

// EmbeddingRecord is the current embedding for one LoreEntry. Regenerating an
// embedding atomically replaces the prior record for that entry.
type EmbeddingRecord struct {
	EntryID    string    `json:"entry_id"`
	Vector     []float32 `json:"vector"`
	SourceText string    `json:"source_text"`
	Model      string    `json:"model,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Candidate pairs a stored embedding with its joined LoreEntry, as returned
// by the embedding store for ranking.
type Candidate struct {
	Entry  LoreEntry
	Record EmbeddingRecord
}

// SearchResult is one ranked match. Produced per query, never stored.
type SearchResult struct {
	Entry      LoreEntry `json:"entry"`
	Similarity float64   `json:"similarity"`
	Rank       int       `json:"rank"`
}

// ActivationSource records how an entry was activated.
type ActivationSource string

const (
	ActivatedByKeyword ActivationSource = "keyword"
	ActivatedByVector  ActivationSource = "vector"
)

// Activation is one entry selected for prompt injection, with the signal
// that selected it.
type Activation struct {
	Entry      LoreEntry        `json:"entry"`
	Source     ActivationSource `json:"source"`
	Similarity float64          `json:"similarity,omitempty"`
}
