package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"

	"lorevec/internal/domain"
)

var (
	bucketEntries    = []byte("entries")
	bucketEmbeddings = []byte("embeddings")
)

// BoltStore persists lore entries and their embeddings in a single BoltDB
// file. It implements both port.LoreStore and port.EmbeddingStore.
//
// Embeddings are mirrored in memory for fast candidate scans; the mirror is
// swapped under the write lock inside the same critical section as the disk
// write, so readers never observe a half-applied replace.
type BoltStore struct {
	db *bbolt.DB

	mu      sync.RWMutex
	vectors map[string]domain.EmbeddingRecord
}

// NewBoltStore opens (creating if needed) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bolt db: %v", domain.ErrStorage, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketEntries, bucketEmbeddings} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	s := &BoltStore{
		db:      db,
		vectors: make(map[string]domain.EmbeddingRecord),
	}

	if err := s.loadEmbeddings(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *BoltStore) loadEmbeddings() error {
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEmbeddings)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec domain.EmbeddingRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil // skip corrupted entries
			}
			s.vectors[string(k)] = rec
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("%w: failed to load embeddings: %v", domain.ErrStorage, err)
	}
	return nil
}

// PutEntry stores or replaces a lore entry.
func (s *BoltStore) PutEntry(entry domain.LoreEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: entry id is empty", domain.ErrStorage)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(entry.ID), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

// GetEntry returns the entry with the given id, or ErrNotFound.
func (s *BoltStore) GetEntry(id string) (domain.LoreEntry, error) {
	var entry domain.LoreEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEntries).Get([]byte(id))
		if data == nil {
			return domain.ErrNotFound
		}
		return json.Unmarshal(data, &entry)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.LoreEntry{}, err
	}
	if err != nil {
		return domain.LoreEntry{}, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return entry, nil
}

// ListEntries returns all entries, restricted to scopeID when non-empty.
func (s *BoltStore) ListEntries(scopeID string) ([]domain.LoreEntry, error) {
	var entries []domain.LoreEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).ForEach(func(k, v []byte) error {
			var entry domain.LoreEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil // skip corrupted entries
			}
			if scopeID != "" && entry.ScopeID != scopeID {
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return entries, nil
}

// DeleteEntry removes an entry and any embedding stored for it in one
// transaction.
func (s *BoltStore) DeleteEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketEntries).Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(bucketEmbeddings).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	delete(s.vectors, id)
	return nil
}

// SetEnabled flips the enabled flag on an entry.
func (s *BoltStore) SetEnabled(id string, enabled bool) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		data := b.Get([]byte(id))
		if data == nil {
			return domain.ErrNotFound
		}
		var entry domain.LoreEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		entry.Enabled = enabled
		updated, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), updated)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
