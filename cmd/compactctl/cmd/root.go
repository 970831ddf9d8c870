package cmd

import (
	"github.com/spf13/cobra"
)

// configPathFlag names the TOML tunables file every subcommand reads and
// (for extfrag-threshold set) writes.
var configPathFlag string

var rootCmd = &cobra.Command{
	Use:   "compactctl",
	Short: "Trigger and tune the compaction engine",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "path to a tunables TOML file (defaults built in if unset)")
	rootCmd.AddCommand(triggerCmd)
	rootCmd.AddCommand(extfragCmd)
}

// Execute runs the compactctl command tree.
func Execute() error {
	return rootCmd.Execute()
}
