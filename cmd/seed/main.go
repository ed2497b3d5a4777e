// Command seed loads an initial catalog so a fresh installation is usable:
// a default product list and a couple of route sellers, with inventory
// state materialized for every pair.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"breadroute/internal/core/apperror"
	"breadroute/internal/domain/catalogs/product"
	"breadroute/internal/domain/catalogs/seller"
	"breadroute/internal/infrastructure/storage/postgres"
	catalogrepo "breadroute/internal/infrastructure/storage/postgres/catalog_repo"
	inventoryrepo "breadroute/internal/infrastructure/storage/postgres/inventory_repo"
	"breadroute/pkg/logger"
)

type seedProduct struct {
	name   string
	price  int64
	exempt bool
}

var products = []seedProduct{
	{"White loaf", 120, false},
	{"Whole grain loaf", 150, false},
	{"Baguette", 100, false},
	{"Croissant", 90, false},
	{"Cinnamon roll", 110, false},
	{"Day-old bread", 60, true},
}

var sellers = []string{
	"North route",
	"South route",
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		os.Exit(1)
	}
	ctx = logger.WithLogger(ctx, log)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal(ctx, "DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	stateRepo := inventoryrepo.NewStateRepo(txManager)

	sellerRepo := catalogrepo.NewSellerRepo(txManager)
	productRepo := catalogrepo.NewProductRepo(txManager)

	sellerSvc := seller.NewService(sellerRepo, txManager, stateRepo, nopAuditor{})
	productSvc := product.NewService(productRepo, txManager, stateRepo, nopAuditor{})

	for _, p := range products {
		created, err := productSvc.CreateNew(ctx, p.name, p.price, p.exempt)
		if apperror.IsCode(err, apperror.CodeDuplicate) {
			logger.Info(ctx, "product already seeded", "name", p.name)
			continue
		}
		if err != nil {
			logger.Fatal(ctx, "failed to seed product", "name", p.name, "error", err)
		}
		logger.Info(ctx, "product seeded", "name", created.Name, "sort_order", created.SortOrder)
	}

	for _, name := range sellers {
		created, err := sellerSvc.CreateNamed(ctx, name)
		if apperror.IsCode(err, apperror.CodeDuplicate) {
			logger.Info(ctx, "seller already seeded", "name", name)
			continue
		}
		if err != nil {
			logger.Fatal(ctx, "failed to seed seller", "name", name, "error", err)
		}
		logger.Info(ctx, "seller seeded", "name", created.Name, "id", created.ID)
	}

	logger.Info(ctx, "seed complete")
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, string, string, string, any) error { return nil }
