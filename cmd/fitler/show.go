package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ckdake/fitler/internal/domain"
	"github.com/ckdake/fitler/internal/render"
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <YYYY-MM>",
		Short: "Reconcile a month from cached records without fetching",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := domain.ParseMonth(args[0])
			if err != nil {
				return err
			}

			a, err := newApp("show")
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.syncer.ShowMonth(cmd.Context(), month)
			if err != nil {
				return err
			}

			if len(res.Clusters) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No cached activities for %s; run `fitler sync %s` first.\n", month, month)
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), render.Clusters(res, a.priority))
			fmt.Fprint(cmd.OutOrStdout(), render.Changes(res.Changes))
			return nil
		},
	}
}
