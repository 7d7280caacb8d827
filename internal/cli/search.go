package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	searchQuery     string
	searchScope     string
	searchLimit     int
	searchThreshold float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Rank lore entries against a query",
	Long: `Embed the query and rank enabled lore entries by cosine similarity,
returning the best matches above the threshold.

Examples:
  lorevec search -q "the ancient dragon"
  lorevec search -q "harbor district" --scope char-bob --limit 3 --json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "query text (required)")
	searchCmd.Flags().StringVar(&searchScope, "scope", "", "restrict to a scope (character) id")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "max results (default from config)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", -1, "minimum similarity (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	limit := searchLimit
	if limit == 0 {
		limit = cfg.Retrieve.Limit
	}
	threshold := searchThreshold
	if threshold < 0 {
		threshold = cfg.Retrieve.Threshold
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := newSearchService(cfg, st, nil)
	if err != nil {
		return err
	}

	results, err := svc.Search(searchQuery, searchScope, limit, threshold)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No entries above threshold.")
		return nil
	}

	for _, r := range results {
		content := r.Entry.Content
		if len(content) > 70 {
			content = content[:70] + "..."
		}
		fmt.Printf("%2d. [%.4f] %-20s %s\n", r.Rank, r.Similarity, r.Entry.ID, content)
	}

	return nil
}
