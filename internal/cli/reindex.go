package cli

import (
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var reindexScope string

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Regenerate embeddings for all enabled entries",
	Long: `Delete and regenerate the embedding of every enabled lore entry from
its current content. Per-entry failures are reported but do not abort the
batch.

Examples:
  lorevec reindex
  lorevec reindex --scope char-alice`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
	reindexCmd.Flags().StringVar(&reindexScope, "scope", "", "restrict to a scope (character) id")
}

func runReindex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc, err := newSearchService(cfg, st, nil)
	if err != nil {
		return err
	}
	if !svc.Initialized() {
		return fmt.Errorf("embeddings are disabled; enable them in lorevec.yaml first")
	}

	var (
		bar         *progressbar.ProgressBar
		barMu       sync.Mutex
		initialized bool
	)

	progress := func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if !initialized {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Reindexing[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
			initialized = true
		}
		bar.Set(done)
	}

	count, failures, err := svc.ReindexAll(reindexScope, progress)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Printf("\nReindex complete:\n")
	fmt.Printf("  Embeddings updated: %d\n", count)
	fmt.Printf("  Failures:           %d\n", len(failures))
	for _, f := range failures {
		fmt.Printf("    %s: %v\n", f.EntryID, f.Err)
	}

	return nil
}
