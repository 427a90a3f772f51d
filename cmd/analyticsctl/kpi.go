package main

import (
	"github.com/spf13/cobra"
	"github.com/staffpulse/analytics-api/internal/app"
)

func newKPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Manage stored KPI snapshots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "recalculate",
		Short: "Replace the KPI snapshot of the latest week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(services *app.Services) error {
				result, err := services.Analytics.RecalculateKPIs(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	})
	return cmd
}
