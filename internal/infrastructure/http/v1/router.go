// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"bookkeeper/internal/app"
	"bookkeeper/internal/domain/accounts"
	"bookkeeper/internal/domain/catalogs/category"
	"bookkeeper/internal/domain/catalogs/product"
	"bookkeeper/internal/domain/catalogs/supplier"
	"bookkeeper/internal/domain/documents/expense"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/documents/purchase_return"
	"bookkeeper/internal/domain/documents/sale"
	"bookkeeper/internal/domain/documents/sales_return"
	"bookkeeper/internal/domain/documents/supplier_payment"
	"bookkeeper/internal/infrastructure/http/v1/dto"
	"bookkeeper/internal/infrastructure/http/v1/handlers"
	"bookkeeper/internal/infrastructure/http/v1/middleware"
	"bookkeeper/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// App is the assembled application.
	App *app.App

	// Logger for request logging
	Logger *logger.Logger

	// StorageDriver and Version are reported by /health/info.
	StorageDriver string
	Version       string

	// Debug switches gin to debug mode.
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.App.Repos.Health, cfg.StorageDriver, cfg.Version)
	healthHandler.RegisterRoutes(router.Group("/health"))

	api := router.Group("/api")
	api.Use(middleware.Idempotency(cfg.App.Repos.Idempotency))

	base := handlers.NewBaseHandler()
	registerCatalogRoutes(api, base, cfg.App)
	registerDocumentRoutes(api, base, cfg.App)
	registerLedgerRoutes(api, base, cfg.App)

	return router
}

// Handler wraps the router with response compression.
func Handler(router *gin.Engine) http.Handler {
	return gzhttp.GzipHandler(router)
}

// registerCatalogRoutes registers catalog endpoints and the chart of accounts.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*category.Category, dto.CategoryRequest]{
		Service: a.Categories,
		Apply:   dto.CategoryRequest.Apply,
	}).RegisterRoutes(rg.Group("/categories"))

	handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*product.Product, dto.ProductRequest]{
		Service: a.Products,
		Apply:   dto.ProductRequest.Apply,
	}).RegisterRoutes(rg.Group("/products"))

	suppliers := rg.Group("/suppliers")
	{
		payments := handlers.NewDocumentHandler(base, handlers.DocumentHandlerConfig[*supplier_payment.Payment, dto.SupplierPaymentRequest]{
			Service:  a.SupplierPayments,
			ToDomain: dto.SupplierPaymentRequest.ToDomain,
		})
		suppliers.POST("/pay-amount", payments.Create)
		payments.RegisterRoutes(suppliers.Group("/payments"))

		handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*supplier.Supplier, dto.SupplierRequest]{
			Service: a.Suppliers,
			Apply:   dto.SupplierRequest.Apply,
		}).RegisterRoutes(suppliers)
	}

	handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*accounts.Group, dto.GroupRequest]{
		Service: a.AccountGroups,
		Apply:   dto.GroupRequest.Apply,
	}).RegisterRoutes(rg.Group("/account-groups"))

	handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*accounts.Account, dto.AccountRequest]{
		Service: a.Accounts,
		Apply:   dto.AccountRequest.Apply,
	}).RegisterRoutes(rg.Group("/ledger-accounts"))
}

// registerDocumentRoutes registers the posting documents.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	handlers.NewDocumentHandler(base, handlers.DocumentHandlerConfig[*purchase.Purchase, dto.PurchaseRequest]{
		Service:  a.Purchases,
		ToDomain: dto.PurchaseRequest.ToDomain,
	}).RegisterRoutes(rg.Group("/purchases"))

	handlers.NewDocumentHandler(base, handlers.DocumentHandlerConfig[*purchase_return.PurchaseReturn, dto.PurchaseReturnRequest]{
		Service:  a.PurchaseReturns,
		ToDomain: dto.PurchaseReturnRequest.ToDomain,
	}).RegisterRoutes(rg.Group("/purchase-returns"))

	sales := rg.Group("/sales")
	{
		handlers.NewReceivableHandler(base, a.Sales).RegisterRoutes(sales.Group("/receivable"))
		handlers.NewDocumentHandler(base, handlers.DocumentHandlerConfig[*sale.Sale, dto.SaleRequest]{
			Service:  a.Sales,
			ToDomain: dto.SaleRequest.ToDomain,
		}).RegisterRoutes(sales)
	}

	handlers.NewDocumentHandler(base, handlers.DocumentHandlerConfig[*sales_return.SalesReturn, dto.SalesReturnRequest]{
		Service:  a.SalesReturns,
		ToDomain: dto.SalesReturnRequest.ToDomain,
	}).RegisterRoutes(rg.Group("/sales-returns"))

	handlers.NewDocumentHandler(base, handlers.DocumentHandlerConfig[*expense.Expense, dto.ExpenseRequest]{
		Service:  a.Expenses,
		ToDomain: dto.ExpenseRequest.ToDomain,
	}).RegisterRoutes(rg.Group("/expenses"))
}

// registerLedgerRoutes registers the journal and reports.
func registerLedgerRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	handlers.NewTransactionHandler(base, a.Engine.Recorder(), a.ManualEntries).
		RegisterRoutes(rg.Group("/transactions"))

	handlers.NewReportsHandler(base, a.Reports).RegisterRoutes(rg.Group("/reports"))
}
