package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/washline/washline/internal/platform/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer d.Close()
			if err := db.Migrate(d.pool); err != nil {
				return err
			}
			d.logger.Info("migrations applied", slog.String("dsn_host", d.pool.Config().ConnConfig.Host))
			return nil
		},
	}
}
