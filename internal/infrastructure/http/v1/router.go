// Package v1 wires the HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"

	"breadroute/internal/domain/catalogs/product"
	"breadroute/internal/domain/catalogs/seller"
	"breadroute/internal/domain/inventory"
	"breadroute/internal/domain/reports"
	"breadroute/internal/domain/settlement"
	"breadroute/internal/infrastructure/excel"
	"breadroute/internal/infrastructure/http/v1/handlers"
	"breadroute/internal/infrastructure/http/v1/middleware"
	"breadroute/internal/infrastructure/storage/postgres"
	"breadroute/pkg/logger"
)

// Dependencies holds everything the router needs.
type Dependencies struct {
	Logger      *logger.Logger
	Pool        *postgres.Pool
	Sellers     *seller.Service
	Products    *product.Service
	Inventory   *inventory.Service
	Settlements *settlement.Service
	Reports     *reports.Service
	Exporter    *excel.Exporter
	Audit       *postgres.AuditLog
}

// NewRouter builds the gin engine with the full middleware chain and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.Trace(),
		middleware.RequestLogger(deps.Logger),
		middleware.ErrorHandler(),
	)

	health := handlers.NewHealthHandler(deps.Pool)
	router.GET("/health/live", health.Live)
	router.GET("/health/ready", health.Ready)

	sellerHandler := handlers.NewSellerHandler(deps.Sellers)
	productHandler := handlers.NewProductHandler(deps.Products)
	inventoryHandler := handlers.NewInventoryHandler(deps.Inventory)
	settlementHandler := handlers.NewSettlementHandler(deps.Settlements)
	reportsHandler := handlers.NewReportsHandler(deps.Reports, deps.Settlements, deps.Exporter)
	auditHandler := handlers.NewAuditHandler(deps.Audit)

	api := router.Group("/api/v1")
	{
		sellers := api.Group("/sellers")
		{
			sellers.GET("", sellerHandler.List)
			sellers.POST("", sellerHandler.Create)
			sellers.GET("/:id", sellerHandler.Get)
			sellers.PUT("/:id", sellerHandler.Update)
			sellers.PATCH("/:id/active", sellerHandler.SetActive)

			sellers.GET("/:id/inventory", inventoryHandler.Get)
			sellers.PUT("/:id/inventory", inventoryHandler.Adjust)
			sellers.POST("/:id/recharges", inventoryHandler.Recharge)
			sellers.POST("/:id/settlements", settlementHandler.Commit)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("", productHandler.Create)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", productHandler.Update)
		}

		invoices := api.Group("/invoices")
		{
			invoices.GET("", settlementHandler.ListInvoices)
			invoices.GET("/:id", settlementHandler.GetInvoice)
		}

		rep := api.Group("/reports")
		{
			rep.GET("/summary", reportsHandler.Summary)
			rep.GET("/products", reportsHandler.Products)
			rep.GET("/sellers", reportsHandler.Sellers)
			rep.GET("/export/summary.xlsx", reportsHandler.ExportSummary)
			rep.GET("/export/products.xlsx", reportsHandler.ExportProducts)
			rep.GET("/export/sellers.xlsx", reportsHandler.ExportSellers)
			rep.GET("/export/invoices.xlsx", reportsHandler.ExportInvoices)
		}

		api.GET("/audit", auditHandler.List)
	}

	return router
}
