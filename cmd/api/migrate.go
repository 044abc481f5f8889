package main

import (
	"fmt"

	"storefront/internal/config"
	"storefront/internal/infra/db"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg)

			gormDB, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := gormDB.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := db.Migrate(gormDB); err != nil {
				return err
			}
			logger.Info("migration completed")
			return nil
		},
	}
}
