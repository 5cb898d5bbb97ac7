package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "washline",
		Short: "Laundry order and invoice ledger service",
		Long: `washline tracks laundry orders, their invoices and the payment ledger
that keeps every order's paid amount and status in step with its invoices.

Configuration is read from the environment (APP_ADDR, PG_DSN, REDIS_ADDR,
SEQUENCE_BACKEND, ...).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newWorkerCmd(),
		newMigrateCmd(),
		newJobsCmd(),
		newAuditCmd(),
	)
	return root
}
