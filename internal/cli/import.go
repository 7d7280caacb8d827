package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"lorevec/internal/usecase"
)

var importPatterns []string

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import lorebook files",
	Long: `Load lorebook files (JSON or YAML) from the given directory into the
lore database. Entries without ids get generated UUIDs. Embeddings are not
generated here; run 'lorevec reindex' afterwards.

Examples:
  lorevec import ./lorebooks
  lorevec import ./books --pattern "alice/**/*.yaml"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringSliceVar(&importPatterns, "pattern", nil, "glob patterns relative to the import path (default JSON and YAML files)")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	importer := usecase.NewImporter(st)
	result, err := importer.Import(path, importPatterns)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Import complete:\n")
	fmt.Printf("  Files imported:   %d\n", result.FilesImported)
	fmt.Printf("  Entries imported: %d\n", result.EntriesImported)
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors:\n")
		for _, e := range result.Errors {
			fmt.Printf("    %s\n", e)
		}
	}

	return nil
}
