package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pageframe-os/compactd/compact"
	"github.com/pageframe-os/compactd/config"
	"github.com/pageframe-os/compactd/demo"
	"github.com/pageframe-os/compactd/zone"
)

var (
	triggerOrderFlag   int
	triggerSyncFlag    bool
	triggerBlocksFlag  int
	triggerCaptureFlag bool
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Run one compaction pass against a synthetic zone and report the outcome",
	Args:  cobra.NoArgs,
	RunE:  runTrigger,
}

func init() {
	triggerCmd.Flags().IntVar(&triggerOrderFlag, "order", -1, "requested allocation order (-1 compacts everything)")
	triggerCmd.Flags().BoolVar(&triggerSyncFlag, "sync", false, "run synchronous (MIGRATE_SYNC_LIGHT) instead of async")
	triggerCmd.Flags().IntVar(&triggerBlocksFlag, "blocks", 4, "number of page-blocks in the synthetic demo zone")
	triggerCmd.Flags().BoolVar(&triggerCaptureFlag, "capture", false, "enable the capture path")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	tunables := config.Defaults()
	if configPathFlag != "" {
		loaded, err := config.Load(configPathFlag)
		if err != nil {
			return err
		}
		tunables = loaded
	}

	node := demo.SampleNode(0, triggerBlocksFlag)
	result, err := compact.CompactNodes(
		context.Background(),
		[]*compact.Node_t{node},
		triggerOrderFlag,
		zone.Movable,
		triggerSyncFlag,
		tunables.ExtfragThreshold,
		triggerCaptureFlag,
		tunables.MaxParallelNodes,
	)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tZONE\tSTATUS\tISOLATED\tMIGRATED\tFAILED\tCAPTURE")
	for _, pgdat := range result {
		for _, zr := range pgdat.Zones {
			capture := "-"
			if zr.Capture != zone.NilPfn {
				capture = fmt.Sprintf("%d", zr.Capture)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%s\n",
				pgdat.NodeID, zr.Zone.Name, zr.Status, zr.PagesIsolated, zr.PagesMigrated, zr.PagesFailed, capture)
		}
	}
	return w.Flush()
}
