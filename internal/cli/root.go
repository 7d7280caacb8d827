package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lorevec/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "lorevec",
	Short: "World info retrieval - match chat content against lore entries",
	Long: `lorevec maintains a library of world-info lore entries with vector
embeddings and retrieves the most relevant entries for a chat message via
keyword matching and cosine similarity.

Example usage:
  lorevec init                      # Write default config and data dir
  lorevec import ./lorebooks        # Load lorebook files
  lorevec reindex                   # Generate embeddings for all entries
  lorevec search -q "the dragon"    # Rank entries against a query
  lorevec serve                     # Run the admin HTTP server`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./lorevec.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
