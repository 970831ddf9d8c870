// compactctl is the operator-facing CLI: trigger a
// compaction pass against a demo node and read or adjust the
// extfrag_threshold tunable, laid out the way dh-cli structures its own
// cobra command tree (internal/cmd package, one file per subcommand
// group, a root command built in main.go).
package main

import (
	"fmt"
	"os"

	"github.com/pageframe-os/compactd/cmd/compactctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
