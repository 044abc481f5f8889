package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/events"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/metrics"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Run AutoMigrate before serving")
	return cmd
}

func runServe(ctx context.Context, autoMigrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			return err
		}
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	//注文イベント（NATS_URLが空なら送らない）
	publisher, closePublisher, err := events.Connect(cfg.NATSURL, cfg.NATSOrderSubject, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	m := metrics.New()

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	bannerRepo := infraRepo.NewBannerGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	checkoutUC := usecase.NewCheckoutUsecase(txManager, productRepo, orderRepo,
		usecase.WithOrderEventPublisher(publisher),
		usecase.WithCheckoutMetrics(m),
		usecase.WithCheckoutLogger(logger),
	)
	productUC := usecase.NewProductUsecase(txManager, productRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productRepo)
	bannerUC := usecase.NewBannerUsecase(bannerRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)
	adminAuthUC := usecase.NewAdminAuthUsecase(cfg)

	//Handler生成
	e := server.New(server.Deps{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Admin:   adminAuthUC,
		Handlers: server.Handlers{
			Checkout:     handler.NewCheckoutHandler(checkoutUC),
			Product:      handler.NewProductHandler(productUC),
			Category:     handler.NewCategoryHandler(categoryUC),
			Banner:       handler.NewBannerHandler(bannerUC),
			AdminProduct: handler.NewAdminProductHandler(productUC),
			AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
			AdminAuth:    handler.NewAdminAuthHandler(adminAuthUC, cfg.CookieSecure),
			AuditLog:     handler.NewAuditLogHandler(auditUC),
		},
		Ping: sqlDB.PingContext,
	})

	//Server起動
	return server.Run(ctx, e, cfg.Addr(), logger)
}
