package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lorevec/config"
	"lorevec/internal/adapter/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the data directory and default config",
	Long: `Create the .lorevec data directory, an empty lore database, and a
lorevec.yaml with default settings (if one does not exist).`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := GetRootDir()

	if err := config.EnsureDataDir(dir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.NewBoltStore(config.DBPath(dir))
	if err != nil {
		return fmt.Errorf("failed to create lore database: %w", err)
	}
	st.Close()

	cfgPath := filepath.Join(dir, "lorevec.yaml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.DefaultConfig().Save(cfgPath); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", cfgPath)
	}

	fmt.Printf("Initialized lore database at %s\n", config.DBPath(dir))
	return nil
}
