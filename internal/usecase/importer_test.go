package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"lorevec/internal/adapter/store"
)

func newTestImporter(t *testing.T) (*Importer, *store.BoltStore) {
	t.Helper()
	st, err := store.NewBoltStore(filepath.Join(t.TempDir(), "lore.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return NewImporter(st), st
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestImportJSONLorebook(t *testing.T) {
	im, st := newTestImporter(t)
	dir := t.TempDir()

	writeFile(t, dir, "alice.json", `{
		"scope_id": "char-alice",
		"entries": [
			{"id": "kelm", "content": "Kelm is a mountain village.", "keys": ["Kelm"], "priority": 3},
			{"content": "Alice fears deep water.", "keys": ["water", "swim"]}
		]
	}`)

	result, err := im.Import(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesImported != 1 || result.EntriesImported != 2 {
		t.Fatalf("expected 1 file / 2 entries, got %d / %d", result.FilesImported, result.EntriesImported)
	}

	entries, err := st.ListEntries("char-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 stored entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.ID == "" {
			t.Error("blank id should have been assigned a UUID")
		}
		if !e.Enabled {
			t.Errorf("entry %s should default to enabled", e.ID)
		}
	}
}

func TestImportYAMLLorebook(t *testing.T) {
	im, st := newTestImporter(t)
	dir := t.TempDir()

	writeFile(t, dir, "world.yaml", `
scope_id: char-bob
entries:
  - id: harbor
    content: The harbor district smells of tar.
    keys: [harbor, docks]
    disabled: true
`)

	result, err := im.Import(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.EntriesImported != 1 {
		t.Fatalf("expected 1 entry, got %d", result.EntriesImported)
	}

	entry, err := st.GetEntry("harbor")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Enabled {
		t.Error("disabled: true should import as not enabled")
	}
	if entry.ScopeID != "char-bob" {
		t.Errorf("expected scope char-bob, got %s", entry.ScopeID)
	}
}

func TestImportSkipsBadFiles(t *testing.T) {
	im, _ := newTestImporter(t)
	dir := t.TempDir()

	writeFile(t, dir, "good.json", `{"scope_id": "s", "entries": [{"id": "e1", "content": "x"}]}`)
	writeFile(t, dir, "bad.json", `{not json`)

	result, err := im.Import(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesImported != 1 {
		t.Errorf("expected 1 file imported, got %d", result.FilesImported)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 file error, got %v", result.Errors)
	}
}

func TestImportGlobPatterns(t *testing.T) {
	im, _ := newTestImporter(t)
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "books"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, filepath.Join("books", "a.json"), `{"scope_id": "s", "entries": [{"id": "a", "content": "x"}]}`)
	writeFile(t, dir, "skip.json", `{"scope_id": "s", "entries": [{"id": "b", "content": "y"}]}`)

	result, err := im.Import(dir, []string{"books/**/*.json"})
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesImported != 1 || result.EntriesImported != 1 {
		t.Errorf("expected only books/ imported, got %+v", result)
	}
}

func TestImportSkipsEmptyContent(t *testing.T) {
	im, st := newTestImporter(t)
	dir := t.TempDir()

	writeFile(t, dir, "a.json", `{"scope_id": "s", "entries": [
		{"id": "blank", "content": "   "},
		{"id": "real", "content": "actual lore"}
	]}`)

	result, err := im.Import(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.EntriesImported != 1 {
		t.Errorf("expected 1 entry, got %d", result.EntriesImported)
	}
	entries, _ := st.ListEntries("")
	if len(entries) != 1 || entries[0].ID != "real" {
		t.Errorf("expected only the real entry stored, got %+v", entries)
	}
}
