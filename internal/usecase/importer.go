package usecase

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"lorevec/internal/domain"
	"lorevec/internal/port"
)

// Lorebook is the on-disk authoring format: a scope plus its entries.
// JSON and YAML are both accepted.
type Lorebook struct {
	ScopeID string          `json:"scope_id" yaml:"scope_id"`
	Entries []LorebookEntry `json:"entries" yaml:"entries"`
}

// LorebookEntry mirrors domain.LoreEntry but with authoring defaults: a
// blank id gets a generated UUID, and enabled defaults to true unless
// explicitly disabled.
type LorebookEntry struct {
	ID       string   `json:"id" yaml:"id"`
	Content  string   `json:"content" yaml:"content"`
	Keys     []string `json:"keys" yaml:"keys"`
	Priority int      `json:"priority" yaml:"priority"`
	Disabled bool     `json:"disabled" yaml:"disabled"`
}

// Importer loads lorebook files from disk into the lore store.
type Importer struct {
	store port.LoreStore
}

func NewImporter(store port.LoreStore) *Importer {
	return &Importer{store: store}
}

// ImportResult reports what an import did.
type ImportResult struct {
	FilesImported   int
	EntriesImported int
	Errors          []string
}

// Import loads every lorebook file under root matching the glob patterns
// and upserts its entries. Per-file failures are recorded and do not abort
// the rest of the import. Embeddings are not generated here; run a reindex
// afterwards.
func (im *Importer) Import(root string, patterns []string) (*ImportResult, error) {
	if len(patterns) == 0 {
		patterns = []string{"**/*.json", "**/*.yaml", "**/*.yml"}
	}

	result := &ImportResult{}
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}

		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			n, err := im.importFile(path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
				continue
			}
			result.FilesImported++
			result.EntriesImported += n
		}
	}

	return result, nil
}

func (im *Importer) importFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	var book Lorebook
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &book); err != nil {
			return 0, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &book); err != nil {
			return 0, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return 0, fmt.Errorf("unsupported file extension")
	}

	if len(book.Entries) == 0 {
		return 0, fmt.Errorf("lorebook has no entries")
	}

	count := 0
	for _, be := range book.Entries {
		if strings.TrimSpace(be.Content) == "" {
			continue
		}

		id := be.ID
		if id == "" {
			id = uuid.NewString()
		}

		entry := domain.LoreEntry{
			ID:       id,
			ScopeID:  book.ScopeID,
			Content:  be.Content,
			Enabled:  !be.Disabled,
			Priority: be.Priority,
			Keys:     be.Keys,
		}
		if err := im.store.PutEntry(entry); err != nil {
			return count, fmt.Errorf("failed to store entry %s: %w", id, err)
		}
		count++
	}

	return count, nil
}
