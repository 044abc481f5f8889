package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/seed"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories, products and banners from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()

			catalog, err := seed.Parse(f)
			if err != nil {
				return err
			}

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

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			_, err = seed.Load(ctx, catalog, seed.Repos{
				Categories: infraRepo.NewCategoryGormRepository(gormDB),
				Products:   infraRepo.NewProductGormRepository(gormDB),
				Banners:    infraRepo.NewBannerGormRepository(gormDB),
			}, logger)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "Seed file path (YAML)")
	return cmd
}
