package port

import "lorevec/internal/domain"

// LoreStore provides read/write access to lore entries.
type LoreStore interface {
	PutEntry(entry domain.LoreEntry) error

	GetEntry(id string) (domain.LoreEntry, error)

	// ListEntries returns all entries, restricted to a scope when scopeID
	// is non-empty. No ordering guarantee.
	ListEntries(scopeID string) ([]domain.LoreEntry, error)

	// DeleteEntry removes an entry and any embedding stored for it.
	DeleteEntry(id string) error

	SetEnabled(id string, enabled bool) error
}

// EmbeddingStore persists one current EmbeddingRecord per lore entry.
type EmbeddingStore interface {
	// UpsertEmbedding replaces any existing record for the entry. The old
	// record is not visible to a concurrent reader after this returns.
	UpsertEmbedding(entryID string, vector []float32, sourceText string) error

	// ListCandidates returns all current embeddings joined with their
	// entries, restricted to a scope when scopeID is non-empty.
	ListCandidates(scopeID string) ([]domain.Candidate, error)

	DeleteEmbeddings(entryID string) error

	// Count returns the number of stored embeddings.
	Count() (int, error)
}
