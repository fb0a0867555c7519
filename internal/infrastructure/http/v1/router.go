// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockpoint/internal/core/invoice"
	"stockpoint/internal/domain"
	"stockpoint/internal/domain/adjustments"
	"stockpoint/internal/domain/audit"
	"stockpoint/internal/domain/auth"
	"stockpoint/internal/domain/catalogs/product"
	"stockpoint/internal/domain/catalogs/supplier"
	"stockpoint/internal/domain/orders"
	"stockpoint/internal/domain/reports"
	"stockpoint/internal/domain/stock"
	"stockpoint/internal/infrastructure/http/v1/handlers"
	"stockpoint/internal/infrastructure/http/v1/middleware"
	"stockpoint/internal/infrastructure/storage/postgres"
	"stockpoint/internal/infrastructure/storage/postgres/catalog_repo"
	"stockpoint/internal/infrastructure/storage/postgres/document_repo"
	"stockpoint/internal/infrastructure/storage/postgres/register_repo"
	"stockpoint/internal/infrastructure/storage/postgres/report_repo"
	"stockpoint/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (used for health checks)
	Pool *postgres.Pool

	// TxManager drives all transactional work
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Audit is the optional audit trail recorder
	Audit *postgres.AuditService

	// IdempotencyEnabled enables the X-Idempotency-Key middleware
	IdempotencyEnabled bool

	// IdempotencyTTL bounds key retention (default 10 minutes)
	IdempotencyTTL time.Duration
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	healthHandler.RegisterRoutes(router.Group("/health"))

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		if cfg.IdempotencyEnabled {
			ttl := cfg.IdempotencyTTL
			if ttl == 0 {
				ttl = 10 * time.Minute
			}
			store := postgres.NewIdempotencyStore(cfg.TxManager, ttl)
			protected.Use(middleware.Idempotency(store))
		}

		registerCatalogRoutes(protected, cfg)
		registerOrderRoutes(protected, cfg)
		registerAdjustmentRoutes(protected, cfg)
		registerStockRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	publicAuth := rg.Group("/auth")

	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers product and supplier endpoints.
// Reads are open to every authenticated user; writes need manager tier.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	writeGuard := middleware.RequireRole(auth.RoleManager)

	// --- PRODUCTS ---
	{
		repo := catalog_repo.NewProductRepo(cfg.TxManager)
		service := product.NewService(repo, cfg.TxManager)
		registerAuditHooks(service.Hooks(), cfg.Audit, "product")

		handler := handlers.NewProductHandler(baseHandler, service)
		handler.RegisterRoutes(rg.Group("/products"), writeGuard)
	}

	// --- SUPPLIERS ---
	{
		repo := catalog_repo.NewSupplierRepo(cfg.TxManager)
		service := supplier.NewService(repo, cfg.TxManager)
		registerAuditHooks(service.Hooks(), cfg.Audit, "supplier")

		handler := handlers.NewSupplierHandler(baseHandler, service)
		handler.RegisterRoutes(rg.Group("/suppliers"), writeGuard)
	}
}

// registerOrderRoutes registers sale and purchase order endpoints.
// Sales are open to cashiers; purchases need manager tier.
func registerOrderRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	service := newOrderService(cfg)
	registerOrderAuditHooks(service, cfg.Audit)

	handler := handlers.NewOrderHandler(baseHandler, service)
	handler.RegisterRoutes(rg.Group("/orders"), middleware.RequireRole(auth.RoleManager))
}

// registerAdjustmentRoutes registers stock adjustment endpoints.
// Adjustments bypass the order flow, so the whole group needs manager tier.
func registerAdjustmentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	stockService := stock.NewService(register_repo.NewStockRepo(cfg.TxManager))

	service := adjustments.NewService(
		document_repo.NewAdjustmentRepo(cfg.TxManager),
		productRepo,
		stockService,
		newInvoiceGenerator(cfg),
		cfg.TxManager,
	)

	handler := handlers.NewAdjustmentHandler(baseHandler, service)

	group := rg.Group("/adjustments")
	group.Use(middleware.RequireRole(auth.RoleManager))
	handler.RegisterRoutes(group)
}

// registerStockRoutes registers stock balance and ledger endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	service := stock.NewService(register_repo.NewStockRepo(cfg.TxManager))
	handler := handlers.NewStockHandler(baseHandler, service)
	handler.RegisterRoutes(rg.Group("/stock"))
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	service := reports.NewService(report_repo.NewReportRepo(cfg.TxManager))
	handler := handlers.NewReportsHandler(baseHandler, service)
	handler.RegisterRoutes(rg.Group("/reports"))
}

// newOrderService wires the transaction coordinator with its collaborators.
func newOrderService(cfg RouterConfig) *orders.Service {
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)
	validator := orders.NewValidator(productRepo, supplierRepo)
	stockService := stock.NewService(register_repo.NewStockRepo(cfg.TxManager))

	return orders.NewService(
		document_repo.NewOrderRepo(cfg.TxManager),
		validator,
		stockService,
		newInvoiceGenerator(cfg),
		cfg.TxManager,
	)
}

func newInvoiceGenerator(cfg RouterConfig) invoice.Generator {
	return postgres.NewSequenceGenerator(cfg.TxManager)
}

// registerAuditHooks attaches create/update/delete trail hooks to a catalog
// service. No-op when auditing is disabled.
func registerAuditHooks[T audit.Identifiable](hooks *domain.HookRegistry[T], rec *postgres.AuditService, entityType string) {
	if rec == nil {
		return
	}

	hooks.OnAfterCreate(audit.Hook[T](rec, entityType, audit.ActionCreate, nil))
	hooks.OnAfterUpdate(audit.Hook[T](rec, entityType, audit.ActionUpdate, nil))
	hooks.OnAfterDelete(audit.Hook[T](rec, entityType, audit.ActionDelete, nil))
}

// registerOrderAuditHooks records order creation and status transitions.
func registerOrderAuditHooks(service *orders.Service, rec *postgres.AuditService) {
	if rec == nil {
		return
	}

	snapshot := func(o *orders.Order) map[string]any {
		return map[string]any{
			"kind":           o.Kind,
			"number":         o.Number,
			"payment_status": o.PaymentStatus,
			"status":         o.Status,
			"total_amount":   o.TotalAmount,
		}
	}

	service.Hooks().OnAfterCreate(audit.Hook(rec, "order", audit.ActionCreate, snapshot))
	service.Hooks().OnAfterUpdate(audit.Hook(rec, "order", audit.ActionUpdate, snapshot))
}
