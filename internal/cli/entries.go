package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var (
	entriesScope string
	entriesJSON  bool
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List lore entries",
	Long: `List lore entries in the database, optionally restricted to a scope.

Examples:
  lorevec entries
  lorevec entries --scope char-alice --json`,
	Args: cobra.NoArgs,
	RunE: runEntries,
}

var enableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a lore entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a lore entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	entriesCmd.Flags().StringVar(&entriesScope, "scope", "", "restrict to a scope (character) id")
	entriesCmd.Flags().BoolVar(&entriesJSON, "json", false, "output as JSON")
}

func runEntries(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.ListEntries(entriesScope)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	if entriesJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No entries.")
		return nil
	}

	for _, e := range entries {
		state := "enabled"
		if !e.Enabled {
			state = "disabled"
		}
		content := e.Content
		if len(content) > 60 {
			content = content[:60] + "..."
		}
		fmt.Printf("%-20s scope=%-15s prio=%-3d %-8s %s\n", e.ID, e.ScopeID, e.Priority, state, content)
	}

	return nil
}

func setEnabled(id string, enabled bool) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SetEnabled(id, enabled); err != nil {
		return err
	}

	state := "enabled"
	if !enabled {
		state = "disabled"
	}
	fmt.Printf("Entry %s %s\n", id, state)
	return nil
}
