package store

import (
	"errors"
	"path/filepath"
	"testing"

	"lorevec/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "lore.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetEntry(t *testing.T) {
	s := newTestStore(t)

	entry := domain.LoreEntry{
		ID:       "e1",
		ScopeID:  "char-alice",
		Content:  "Alice grew up in the mountain village of Kelm.",
		Enabled:  true,
		Priority: 10,
		Keys:     []string{"Kelm", "village"},
	}
	if err := s.PutEntry(entry); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEntry("e1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != entry.Content || got.Priority != 10 || len(got.Keys) != 2 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestGetEntryNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetEntry("missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListEntriesByScope(t *testing.T) {
	s := newTestStore(t)

	for _, e := range []domain.LoreEntry{
		{ID: "a", ScopeID: "char-1", Content: "x", Enabled: true},
		{ID: "b", ScopeID: "char-1", Content: "y", Enabled: true},
		{ID: "c", ScopeID: "char-2", Content: "z", Enabled: true},
	} {
		if err := s.PutEntry(e); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListEntries("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 entries, got %d", len(all))
	}

	scoped, err := s.ListEntries("char-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 2 {
		t.Errorf("expected 2 scoped entries, got %d", len(scoped))
	}
}

func TestSetEnabled(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutEntry(domain.LoreEntry{ID: "e1", Content: "x", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetEnabled("e1", false); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEntry("e1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Enabled {
		t.Error("expected entry to be disabled")
	}

	if err := s.SetEnabled("missing", true); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertEmbeddingReplaces(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutEntry(domain.LoreEntry{ID: "e1", Content: "old", Enabled: true}); err != nil {
		t.Fatal(err)
	}

	if err := s.UpsertEmbedding("e1", []float32{1, 0}, "old"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEmbedding("e1", []float32{0, 1}, "new"); err != nil {
		t.Fatal(err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 embedding after replace, got %d", n)
	}

	candidates, err := s.ListCandidates("")
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Record.SourceText != "new" || candidates[0].Record.Vector[1] != 1 {
		t.Errorf("old record still visible: %+v", candidates[0].Record)
	}
}

func TestListCandidatesSkipsOrphans(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutEntry(domain.LoreEntry{ID: "e1", ScopeID: "c1", Content: "x", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEmbedding("e1", []float32{1, 2}, "x"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEmbedding("ghost", []float32{3, 4}, "no entry"); err != nil {
		t.Fatal(err)
	}

	candidates, err := s.ListCandidates("")
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].Entry.ID != "e1" {
		t.Errorf("expected only e1, got %+v", candidates)
	}
}

func TestDeleteEntryDropsEmbedding(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutEntry(domain.LoreEntry{ID: "e1", Content: "x", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEmbedding("e1", []float32{1}, "x"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteEntry("e1"); err != nil {
		t.Fatal(err)
	}

	n, _ := s.Count()
	if n != 0 {
		t.Errorf("expected 0 embeddings after entry delete, got %d", n)
	}
	if _, err := s.GetEntry("e1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEmbeddingsPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lore.db")

	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutEntry(domain.LoreEntry{ID: "e1", Content: "x", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEmbedding("e1", []float32{0.5, 0.25}, "x"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	candidates, err := s2.ListCandidates("")
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].Record.Vector[0] != 0.5 {
		t.Errorf("embedding not reloaded: %+v", candidates)
	}
}
