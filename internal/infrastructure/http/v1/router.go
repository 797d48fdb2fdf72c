// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"daftar/internal/domain/catalogs/cashaccount"
	"daftar/internal/domain/catalogs/item"
	"daftar/internal/domain/catalogs/partner"
	"daftar/internal/domain/documents"
	"daftar/internal/domain/periods"
	"daftar/internal/domain/registers/stock"
	"daftar/internal/infrastructure/http/v1/handlers"
	"daftar/internal/infrastructure/http/v1/middleware"
	"daftar/internal/infrastructure/storage/postgres"
	"daftar/pkg/logger"
)

// RouterConfig carries the assembled services the router exposes.
type RouterConfig struct {
	Pool    *postgres.Pool
	Logger  *logger.Logger
	Version string

	// TokenValidator validates bearer tokens. Nil disables token auth
	// and installs a development actor instead.
	TokenValidator middleware.TokenValidator

	// TenantResolver validates the X-Tenant-ID header. Nil trusts the
	// header (gateway already validated the tenant).
	TenantResolver middleware.TenantResolver

	// IdempotencyStore enables replay protection on mutating routes
	// when set.
	IdempotencyStore *postgres.IdempotencyStore

	// Catalogs
	Items        *item.Service
	Partners     *partner.Service
	CashAccounts *cashaccount.Service

	// Documents, one binding per kind
	SalesInvoices    *documents.Binding
	SalesReturns     *documents.Binding
	PurchaseInvoices *documents.Binding
	PurchaseReturns  *documents.Binding

	// Periods and registers
	Periods   *periods.Service
	Stock     *stock.Service
	StockRepo stock.Repository
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth, no tenant required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1: tenant scope first, then auth, then idempotency.
	api := router.Group("/api/v1")
	api.Use(middleware.TenantScope(cfg.TenantResolver))
	if cfg.TokenValidator != nil {
		api.Use(middleware.Auth(cfg.TokenValidator))
	} else {
		api.Use(middleware.DevActor())
	}
	if cfg.IdempotencyStore != nil {
		api.Use(middleware.Idempotency(cfg.IdempotencyStore))
	}

	registerCatalogRoutes(api, cfg)
	registerDocumentRoutes(api, cfg)
	registerPeriodRoutes(api, cfg)
	registerRegisterRoutes(api, cfg)

	return router
}

func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	RegisterCatalogRoutes(catalogs.Group("/items"), handlers.NewItemHandler(baseHandler, cfg.Items))
	RegisterCatalogRoutes(catalogs.Group("/partners"), handlers.NewPartnerHandler(baseHandler, cfg.Partners))
	RegisterCatalogRoutes(catalogs.Group("/cash-accounts"), handlers.NewCashAccountHandler(baseHandler, cfg.CashAccounts))
}

func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docs := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	kinds := []struct {
		path    string
		binding *documents.Binding
	}{
		{"/sales-invoice", cfg.SalesInvoices},
		{"/sales-return", cfg.SalesReturns},
		{"/purchase-invoice", cfg.PurchaseInvoices},
		{"/purchase-return", cfg.PurchaseReturns},
	}

	for _, k := range kinds {
		handler := handlers.NewTradeDocumentHandler(baseHandler, k.binding)
		RegisterDocumentRoutes(docs.Group(k.path), handler)
	}
}

func registerPeriodRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewPeriodHandler(baseHandler, cfg.Periods)

	periods := rg.Group("/periods")
	periods.GET("", middleware.RequireRead(), handler.List)
	periods.GET("/:id", middleware.RequireRead(), handler.Get)
	periods.POST("", middleware.RequireAdmin(), handler.Create)
	periods.POST("/:id/close", middleware.RequireAdmin(), handler.Close)
	periods.POST("/:id/reopen", middleware.RequireAdmin(), handler.Reopen)
}

func registerRegisterRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewStockHandler(baseHandler, cfg.Stock, cfg.StockRepo)

	stockGroup := rg.Group("/registers/stock")
	stockGroup.GET("/balances", middleware.RequireRead(), handler.GetBalances)
	stockGroup.GET("/movements", middleware.RequireRead(), handler.GetMovements)
	stockGroup.GET("/availability/:itemId", middleware.RequireRead(), handler.GetItemAvailability)
	stockGroup.POST("/recalculate", middleware.RequireAdmin(), handler.Recalculate)
}
