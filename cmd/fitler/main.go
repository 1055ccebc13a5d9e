// Command fitler reconciles fitness activities across providers: a manual
// spreadsheet ledger, Strava, RideWithGPS and local GPX files.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "fitler",
		Short:         "Reconcile fitness activities across providers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSyncCommand())
	root.AddCommand(newShowCommand())
	root.AddCommand(newServeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
