package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/washline/washline/jobs"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Re-sum invoices and repair drifted order ledgers in-process",
		Example: `  # Report drift without writing
  washline audit --dry-run

  # Repair at most 50 orders
  washline audit --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			limit, _ := cmd.Flags().GetInt("limit")

			d, err := loadDeps(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer d.Close()

			job := jobs.NewReconcileAuditJob(d.services(nil).invoices, d.logger, nil)
			report, err := job.Run(cmd.Context(), jobs.ReconcileAuditPayload{Limit: limit, DryRun: dryRun})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().Bool("dry-run", false, "Report drifted orders without repairing them")
	cmd.Flags().Int("limit", 0, "Maximum number of orders to inspect (default 500)")
	return cmd
}
