package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"lorevec/internal/domain"
)

// UpsertEmbedding replaces any existing record for the entry. The disk write
// and the in-memory mirror swap happen under the write lock, so a concurrent
// reader sees either the old record or the new one, never a gap.
func (s *BoltStore) UpsertEmbedding(entryID string, vector []float32, sourceText string) error {
	if entryID == "" {
		return fmt.Errorf("%w: entry id is empty", domain.ErrStorage)
	}

	rec := domain.EmbeddingRecord{
		EntryID:    entryID,
		Vector:     vector,
		SourceText: sourceText,
		CreatedAt:  time.Now(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEmbeddings).Put([]byte(entryID), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	s.vectors[entryID] = rec
	return nil
}

// ListCandidates returns all current embeddings joined with their entries,
// restricted to scopeID when non-empty. Records whose entry no longer exists
// are skipped. No ordering guarantee.
func (s *BoltStore) ListCandidates(scopeID string) ([]domain.Candidate, error) {
	s.mu.RLock()
	records := make([]domain.EmbeddingRecord, 0, len(s.vectors))
	for _, rec := range s.vectors {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	var candidates []domain.Candidate
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		for _, rec := range records {
			data := b.Get([]byte(rec.EntryID))
			if data == nil {
				continue // orphaned embedding
			}
			var entry domain.LoreEntry
			if err := json.Unmarshal(data, &entry); err != nil {
				continue
			}
			if scopeID != "" && entry.ScopeID != scopeID {
				continue
			}
			candidates = append(candidates, domain.Candidate{Entry: entry, Record: rec})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return candidates, nil
}

// DeleteEmbeddings removes the embedding stored for the entry, if any.
func (s *BoltStore) DeleteEmbeddings(entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEmbeddings).Delete([]byte(entryID))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	delete(s.vectors, entryID)
	return nil
}

// Count returns the number of stored embeddings.
func (s *BoltStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}
