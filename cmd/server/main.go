package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"distribution-backend/internal/alerts"
	"distribution-backend/internal/apperror"
	"distribution-backend/internal/audit"
	"distribution-backend/internal/auth"
	"distribution-backend/internal/config"
	"distribution-backend/internal/dashboard"
	"distribution-backend/internal/database"
	"distribution-backend/internal/fulfillment"
	"distribution-backend/internal/inventory"
	"distribution-backend/internal/logger"
	"distribution-backend/internal/metrics"
	"distribution-backend/internal/models"
	"distribution-backend/internal/notify"
	"distribution-backend/internal/pricing"
	"distribution-backend/internal/production"
	"distribution-backend/internal/schedule"
	"distribution-backend/internal/seed"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("starting", cfg.LogFields()...)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slot, closeSlot, err := database.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSlot(); err != nil {
			log.Warn("closing storage failed", zap.Error(err))
		}
	}()

	s, err := store.Open(ctx, slot, log.Named("store"))
	if err != nil {
		return err
	}
	if _, err := seed.Apply(ctx, s, cfg.SeedFile, log.Named("seed")); err != nil {
		return err
	}

	// Services
	m := metrics.New(cfg.MetricsPrefix)
	center := notify.NewCenter(s)
	sink := notify.Fanout(center, notify.NewLogSink(log.Named("notify")), m)

	inv := inventory.NewService(s, sink, log)
	resolver := pricing.NewResolver(s)
	producer := production.NewEngine(s, sink, log)
	fulfil := fulfillment.NewEngine(s, resolver, sink, log)
	router := schedule.NewRouter(s, schedule.NewSessions(s.Now),
		schedule.NewOSRMClient(cfg.RoutingURL, cfg.RoutingTimeout), log)
	reports := dashboard.NewReports(s, resolver)
	checker := alerts.NewChecker(s, center, sink, alerts.Thresholds{
		LowStock:          decimal.NewFromInt(int64(cfg.LowStockThreshold)),
		ExpiryWarningDays: cfg.ExpiryWarningDays,
		PendingOrderDays:  cfg.PendingOrderDays,
	}, log)
	m.WatchStore(cfg.MetricsPrefix, s, inv)

	app := fiber.New(fiber.Config{
		AppName: cfg.ServiceName,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(apperror.ToFiber(err), &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			logger.FromCtx(c, log).Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(logger.RequestID(log), logger.Middleware(log), m.Middleware())

	// Outside the store lock: the stock collector takes it itself.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.ServiceName})
	})
	app.Get("/metrics", m.Handler())

	api := app.Group("/api", store.Serialize(s))

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg, s))

	// Protected
	protected := api.Group("", auth.JWTMiddleware(cfg), auth.ActingUser(s))
	protected.Get("/auth/me", auth.MeHandler(s))

	registerCatalog(protected, s, resolver, fulfil)

	// Inventory
	protected.Post("/purchase-orders/:id/receive", auth.RequireRole(models.RoleInventory), inventory.ReceivePurchaseOrderHandler(inv))
	protected.Post("/purchase-orders/:id/receive/xlsx", auth.RequireRole(models.RoleInventory), inventory.ImportReceiptHandler(s, inv))
	protected.Get("/inventory/expiring", inventory.NearingExpiryHandler(inv))
	protected.Get("/inventory/low-stock-components", inventory.LowStockComponentsHandler(inv))
	protected.Get("/inventory/summary", inventory.SummaryHandler(inv))

	// Production and traceability
	protected.Post("/production-orders", auth.RequireRole(models.RoleInventory), production.ProduceHandler(producer))
	protected.Get("/traceability/:lot", production.TraceHandler(producer))

	// Pricing
	protected.Get("/orders/:id/totals", pricing.OrderTotalsHandler(s, resolver))
	protected.Get("/products/:id/price", pricing.PriceHandler(s, resolver))

	// Fulfillment
	protected.Post("/orders/:id/complete", fulfillment.CompleteOrderHandler(fulfil))
	protected.Post("/orders/:id/ship", fulfillment.ShipOrderHandler(fulfil))
	protected.Post("/orders/:id/deliver", fulfillment.DeliverOrderHandler(fulfil))
	protected.Post("/orders/:id/cancel", fulfillment.CancelOrderHandler(fulfil))
	protected.Post("/orders/:id/returns", fulfillment.ReturnHandler(fulfil))
	protected.Post("/orders/:id/invoice", auth.RequireRole(models.RoleFinance), fulfillment.GenerateInvoiceHandler(fulfil))
	protected.Post("/invoices/:id/pay", auth.RequireRole(models.RoleFinance), fulfillment.MarkInvoicePaidHandler(fulfil))
	protected.Post("/leads/:id/convert", auth.RequireRole(models.RoleSales), fulfillment.ConvertLeadHandler(fulfil))
	protected.Post("/quotes/:id/convert", auth.RequireRole(models.RoleSales), fulfillment.ConvertQuoteHandler(fulfil))

	// Agent schedule and routing
	protected.Get("/agents/:id/schedule", schedule.ScheduleHandler(router))
	protected.Get("/agents/:id/route", schedule.RemainingRouteHandler(router))
	protected.Post("/agents/:id/visits/:customerId/toggle", schedule.ToggleVisitHandler(router))
	protected.Post("/agents/:id/next-stop", schedule.NextStopHandler(router))
	protected.Put("/agents/:id/position", schedule.MovePositionHandler(router))
	protected.Get("/agents/:id/route-geometry", schedule.RouteGeometryHandler(router))

	// Dashboard
	protected.Get("/dashboard/sales-summary", dashboard.SalesSummaryHandler(reports))
	protected.Get("/dashboard/top/:kind", dashboard.TopHandler(reports))
	protected.Get("/dashboard/receivables-aging", auth.RequireRole(models.RoleFinance), dashboard.ReceivablesAgingHandler(reports))
	protected.Get("/dashboard/inventory", dashboard.InventoryOverviewHandler(reports))
	protected.Get("/dashboard/recent-orders", dashboard.RecentOrdersHandler(reports))
	protected.Get("/dashboard/sales-chart", dashboard.SalesChartHandler(reports))

	// Notifications
	protected.Get("/notifications", notify.ListNotificationsHandler(center))
	protected.Post("/notifications/read-all", notify.MarkAllReadHandler(s, center))
	protected.Post("/notifications/:id/read", notify.MarkReadHandler(s, center))
	protected.Delete("/notifications", notify.ClearHandler(s, center))

	// Audit logs; the trail is fixed once seeding is done
	protected.Get("/audit-logs", auth.RequireRole(models.RoleFinance), audit.ListAuditLogsHandler(s.Trail()))

	go checker.Run(ctx, cfg.AlertInterval)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.HTTPPort))
		errCh <- app.Listen(":" + cfg.HTTPPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()
	return s.Save(shutdownCtx)
}

// registerCatalog mounts the generic CRUD routes for every collection.
func registerCatalog(r fiber.Router, s *store.Store, resolver *pricing.Resolver, fulfil *fulfillment.Engine) {
	store.RegisterCRUD(r, "/agents", s, s.Agents, store.Hooks[models.Agent, *models.Agent]{})
	store.RegisterCRUD(r, "/leads", s, s.Leads, store.Hooks[models.Lead, *models.Lead]{})
	store.RegisterCRUD(r, "/quotes", s, s.Quotes, store.Hooks[models.Quote, *models.Quote]{})
	store.RegisterCRUD(r, "/customers", s, s.Customers, store.Hooks[models.Customer, *models.Customer]{})
	store.RegisterCRUD(r, "/customer-contracts", s, s.CustomerContracts, store.Hooks[models.CustomerContract, *models.CustomerContract]{
		Validate: resolver.CheckContract,
		Create:   resolver.AddContract,
	})
	store.RegisterCRUD(r, "/suppliers", s, s.Suppliers, store.Hooks[models.Supplier, *models.Supplier]{})
	store.RegisterCRUD(r, "/components", s, s.Components, store.Hooks[models.Component, *models.Component]{})
	store.RegisterCRUD(r, "/products", s, s.Products, store.Hooks[models.Product, *models.Product]{
		Validate: production.ValidateProduct,
	})
	store.RegisterCRUD(r, "/orders", s, s.Orders, store.Hooks[models.Order, *models.Order]{
		Validate: fulfillment.ValidateOrder,
		Create:   fulfil.CreateOrder,
		Update:   fulfillment.GuardOrderUpdate,
	})
	store.RegisterReadOnly(r, "/invoices", s.Invoices)
	store.RegisterReadOnly(r, "/credit-notes", s.CreditNotes)
	store.RegisterCRUD(r, "/purchase-orders", s, s.PurchaseOrders, store.Hooks[models.PurchaseOrder, *models.PurchaseOrder]{})
	store.RegisterReadOnly(r, "/production-orders", s.ProductionOrders)
	store.RegisterCRUD(r, "/tax-rates", s, s.TaxRates, store.Hooks[models.TaxRate, *models.TaxRate]{})
	store.RegisterCurrencies(r, s)

	users := r.Group("/users", auth.RequireRole(models.RoleAdmin))
	store.RegisterCRUD(users, "", s, s.Users, store.Hooks[models.User, *models.User]{
		Validate: auth.ValidateUser,
		Create:   auth.CreateUser(s),
	})
}
