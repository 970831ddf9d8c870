package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/pageframe-os/compactd/config"
)

var extfragCmd = &cobra.Command{
	Use:   "extfrag-threshold",
	Short: "Read or adjust the fragmentation-index threshold",
}

var extfragGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current extfrag_threshold",
	Args:  cobra.NoArgs,
	RunE:  runExtfragGet,
}

var extfragSetCmd = &cobra.Command{
	Use:   "set VALUE",
	Short: "Set extfrag_threshold, clamped to [0, 1000]",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtfragSet,
}

func init() {
	extfragCmd.AddCommand(extfragGetCmd)
	extfragCmd.AddCommand(extfragSetCmd)
}

func runExtfragGet(cmd *cobra.Command, args []string) error {
	t := config.Defaults()
	if configPathFlag != "" {
		loaded, err := config.Load(configPathFlag)
		if err != nil {
			return err
		}
		t = loaded
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.ExtfragThreshold)
	return nil
}

func runExtfragSet(cmd *cobra.Command, args []string) error {
	if configPathFlag == "" {
		return fmt.Errorf("extfrag-threshold set requires --config")
	}
	value, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid threshold %q: %w", args[0], err)
	}

	t := config.Defaults()
	if _, statErr := os.Stat(configPathFlag); statErr == nil {
		loaded, err := config.Load(configPathFlag)
		if err != nil {
			return err
		}
		t = loaded
	}
	t.ExtfragThreshold = value
	t.Clamp()

	data, err := toml.Marshal(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPathFlag, data, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.ExtfragThreshold)
	return nil
}
