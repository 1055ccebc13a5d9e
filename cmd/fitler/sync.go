package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ckdake/fitler/internal/domain"
	"github.com/ckdake/fitler/internal/render"
)

func newSyncCommand() *cobra.Command {
	var refetch bool

	cmd := &cobra.Command{
		Use:   "sync <YYYY-MM>",
		Short: "Fetch, cache and reconcile one month of activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := domain.ParseMonth(args[0])
			if err != nil {
				return err
			}

			a, err := newApp("sync")
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.syncer.SyncMonth(cmd.Context(), month, refetch)
			if err != nil {
				return err
			}

			if len(res.Clusters) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No activities found for %s\n", month)
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), render.Clusters(res, a.priority))
			fmt.Fprint(cmd.OutOrStdout(), render.Changes(res.Changes))
			if res.Skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d malformed record(s); see log for details.\n", res.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refetch, "refetch", false, "drop cached records for the month and re-fetch from providers")
	return cmd
}
