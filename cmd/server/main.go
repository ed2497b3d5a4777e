// Command server runs the bakery route-seller backend.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"breadroute/internal/domain/catalogs/product"
	"breadroute/internal/domain/catalogs/seller"
	"breadroute/internal/domain/inventory"
	"breadroute/internal/domain/reports"
	"breadroute/internal/domain/settlement"
	"breadroute/internal/infrastructure/excel"
	v1 "breadroute/internal/infrastructure/http/v1"
	"breadroute/internal/infrastructure/storage/postgres"
	catalogrepo "breadroute/internal/infrastructure/storage/postgres/catalog_repo"
	inventoryrepo "breadroute/internal/infrastructure/storage/postgres/inventory_repo"
	invoicerepo "breadroute/internal/infrastructure/storage/postgres/invoice_repo"
	reportrepo "breadroute/internal/infrastructure/storage/postgres/report_repo"
	"breadroute/pkg/logger"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustEnv(ctx context.Context, key string) string {
	v := os.Getenv(key)
	if v == "" {
		logger.Fatal(ctx, "required environment variable is not set", "key", key)
	}
	return v
}

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "production") == "development",
	})
	if err != nil {
		logger.Fatal(ctx, "failed to build logger", "error", err)
	}
	ctx = logger.WithLogger(ctx, log)

	dsn := mustEnv(ctx, "DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	audit, err := postgres.NewAuditLog(txManager)
	if err != nil {
		logger.Fatal(ctx, "failed to create audit log", "error", err)
	}

	sellerRepo := catalogrepo.NewSellerRepo(txManager)
	productRepo := catalogrepo.NewProductRepo(txManager)
	stateRepo := inventoryrepo.NewStateRepo(txManager)
	invoiceRepo := invoicerepo.NewInvoiceRepo(txManager)
	reportRepo := reportrepo.NewReportRepo(txManager)

	deps := v1.Dependencies{
		Logger:      log,
		Pool:        pool,
		Sellers:     seller.NewService(sellerRepo, txManager, stateRepo, audit),
		Products:    product.NewService(productRepo, txManager, stateRepo, audit),
		Inventory:   inventory.NewService(stateRepo, txManager, audit),
		Settlements: settlement.NewService(invoiceRepo, stateRepo, txManager, audit),
		Reports:     reports.NewService(reportRepo),
		Exporter:    excel.NewExporter(),
		Audit:       audit,
	}

	if getEnv("APP_ENV", "production") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:              ":" + getEnv("HTTP_PORT", "8080"),
		Handler:           v1.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "graceful shutdown failed", "error", err)
	}
	logger.Info(ctx, "server stopped")
}
