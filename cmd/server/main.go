// Package main is the entry point for the daftar API server.
// All tenants share one database; rows are scoped by tenant_id.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daftar/internal/core/security"
	"daftar/internal/core/types"
	"daftar/internal/domain/catalogs/cashaccount"
	"daftar/internal/domain/catalogs/item"
	"daftar/internal/domain/catalogs/partner"
	"daftar/internal/domain/documents/purchase_invoice"
	"daftar/internal/domain/documents/purchase_return"
	"daftar/internal/domain/documents/sales_invoice"
	"daftar/internal/domain/documents/sales_return"
	"daftar/internal/domain/periods"
	"daftar/internal/domain/registers/stock"
	"daftar/internal/domain/trade"
	v1 "daftar/internal/infrastructure/http/v1"
	"daftar/internal/infrastructure/http/v1/middleware"
	"daftar/internal/infrastructure/storage/postgres"
	"daftar/internal/infrastructure/storage/postgres/catalog_repo"
	"daftar/internal/infrastructure/storage/postgres/document_repo"
	"daftar/internal/infrastructure/storage/postgres/period_repo"
	"daftar/internal/infrastructure/storage/postgres/register_repo"
	"daftar/pkg/logger"
	"daftar/pkg/numerator"
)

const version = "0.1.0"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Info("starting daftar server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	numeratorService := numerator.New(txManager)

	// --- Repositories ---
	itemRepo := catalog_repo.NewItemRepo(txManager)
	partnerRepo := catalog_repo.NewPartnerRepo(txManager)
	cashAccountRepo := catalog_repo.NewCashAccountRepo(txManager)
	tradeRepo := document_repo.NewTradeRepo(txManager)
	stockRepo := register_repo.NewStockRepo(txManager)
	periodRepo := period_repo.NewPeriodRepo(txManager)

	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit store", "error", err)
	}

	// --- Services ---
	itemService := item.NewService(itemRepo, numeratorService, txManager)
	partnerService := partner.NewService(partnerRepo, numeratorService, txManager)
	cashAccountService := cashaccount.NewService(cashAccountRepo, numeratorService, txManager)
	periodService := periods.NewService(periodRepo)
	stockService := stock.NewService(stockRepo)

	// --- Posting orchestrator ---
	policy, err := buildPostingPolicy()
	if err != nil {
		log.Fatalw("invalid posting policy", "error", err)
	}

	orchestrator := trade.NewOrchestrator(trade.Config{
		Repo:      tradeRepo,
		Stock:     stockService,
		Periods:   periodService,
		Items:     itemService,
		Impact:    trade.NewImpactEngine(cashAccountService, partnerService),
		Safes:     cashAccountService,
		Policy:    policy,
		Numerator: numeratorService,
		TxManager: txManager,
		Audit:     auditStore,
		Tax:       buildTaxPolicy(),
	})

	salesInvoices := sales_invoice.NewService(orchestrator, partnerService)
	salesReturns := sales_return.NewService(orchestrator, partnerService)
	purchaseInvoices := purchase_invoice.NewService(orchestrator, partnerService)
	purchaseReturns := purchase_return.NewService(orchestrator, partnerService)

	// --- Auth ---
	var tokenValidator middleware.TokenValidator
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		tokenValidator = security.NewTokenService(security.DefaultTokenConfig(secret))
	} else {
		log.Warn("JWT_SECRET not set, token auth disabled (development mode)")
	}

	// --- Idempotency ---
	var idempotencyStore *postgres.IdempotencyStore
	if getEnv("IDEMPOTENCY_ENABLED", "true") == "true" {
		ttl := getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour)
		idempotencyStore = postgres.NewIdempotencyStore(txManager, ttl)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		Version:          version,
		TokenValidator:   tokenValidator,
		IdempotencyStore: idempotencyStore,
		Items:            itemService,
		Partners:         partnerService,
		CashAccounts:     cashAccountService,
		SalesInvoices:    salesInvoices.Binding,
		SalesReturns:     salesReturns.Binding,
		PurchaseInvoices: purchaseInvoices.Binding,
		PurchaseReturns:  purchaseReturns.Binding,
		Periods:          periodService,
		Stock:            stockService,
		StockRepo:        stockRepo,
	})

	// --- HTTP server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// buildTaxPolicy reads the tenant-wide tax settings from environment.
func buildTaxPolicy() trade.TaxPolicy {
	if getEnv("TAX_ENABLED", "false") != "true" {
		return trade.NoTax
	}

	rate, err := types.MoneyFromString(getEnv("TAX_RATE", "0.15"))
	if err != nil {
		return trade.NoTax
	}
	return trade.TaxPolicy{
		Enabled:   true,
		Rate:      rate,
		Inclusive: getEnv("TAX_INCLUSIVE", "false") == "true",
	}
}

// buildPostingPolicy compiles the optional CEL posting policy.
func buildPostingPolicy() (security.PostingPolicy, error) {
	expr := os.Getenv("POSTING_POLICY")
	if expr == "" {
		return security.OpenPolicy{}, nil
	}
	return security.NewExpressionPolicy(expr)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
