package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"retailapi/docs"
	"retailapi/internal/config"
	"retailapi/internal/database"
	"retailapi/internal/database/migration"
	"retailapi/internal/event"
	handlers "retailapi/internal/http/handler"
	"retailapi/internal/http/middleware"
	"retailapi/internal/logger"
	"retailapi/internal/observer"
	tracing "retailapi/internal/otel"
	"retailapi/internal/service"
	"retailapi/internal/storage"
)

// @title Retail Back-Office API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server_failed", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	repos, db, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if db != nil {
		reg.MustRegister(collectors.NewDBStatsCollector(db, cfg.Database.Name))
	}

	metrics, err := event.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register dispatcher metrics: %w", err)
	}
	dispatcher := event.NewDispatcher(
		event.WithLogger(log.With(zap.String("component", "dispatcher"))),
		event.WithTracer(otel.Tracer("retailapi/internal/event")),
		event.WithMetrics(metrics),
		event.WithObserverTimeout(cfg.ObserverTimeout),
	)

	receipts, err := registerObservers(ctx, cfg, log, dispatcher, repos)
	if err != nil {
		return err
	}

	deps := handlers.Dependencies{
		Transactions:  service.NewTransactionService(nil, repos.transactions, repos.products, dispatcher),
		Payments:      service.NewPaymentService(nil, repos.payments, repos.transactions, dispatcher),
		Products:      service.NewProductService(repos.products),
		Customers:     service.NewCustomerService(repos.customers),
		Suppliers:     service.NewSupplierService(repos.suppliers, repos.products, repos.supplierLogs, dispatcher),
		Audit:         service.NewAuditService(repos.auditLogs),
		ReceiptExpiry: cfg.MinIO.ReceiptURLExpiry,
		Gatherer:      reg,
	}
	if db != nil {
		deps.DB = db
	}
	if receipts != nil {
		deps.Receipts = receipts
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg, "/healthz")
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(recover.New())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting",
			zap.String("addr", addr),
			zap.String("store_driver", cfg.StoreDriver),
			zap.Int("observers", dispatcher.Len()),
		)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("server_stopping", zap.Duration("timeout", cfg.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil {
		log.Warn("listener_closed", zap.Error(err))
	}
	log.Info("server_stopped")
	return nil
}

// registerObservers wires the built-in observers. The receipt archiver is only registered when object storage is
// configured and reachable; it is returned so the receipt route can presign links.
func registerObservers(
	ctx context.Context,
	cfg *config.AppConfig,
	log *zap.Logger,
	d *event.Dispatcher,
	repos repositories,
) (*observer.ReceiptArchiver, error) {
	builtin := []struct {
		name string
		obs  any
	}{
		{"stock", observer.NewStockAdjuster(repos.products, d)},
		{"audit", observer.NewAuditLogger(repos.auditLogs)},
		{"supplier_log", observer.NewSupplierTransactionLogger(repos.supplierLogs)},
	}
	for _, b := range builtin {
		if err := d.Register(b.name, b.obs); err != nil {
			return nil, fmt.Errorf("register observer %s: %w", b.name, err)
		}
	}

	if !cfg.MinIO.Enabled() {
		log.Info("receipt_archiving_disabled")
		return nil, nil
	}
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Error("receipt_archiving_unavailable", zap.Error(err))
		return nil, nil
	}
	archiver := observer.NewReceiptArchiver(objStore)
	if err := d.Register("receipts", archiver); err != nil {
		return nil, fmt.Errorf("register observer receipts: %w", err)
	}
	log.Info("receipt_archiving_enabled", zap.String("bucket", cfg.MinIO.Bucket))
	return archiver, nil
}

func openStores(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (repositories, *sql.DB, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return memoryRepositories(), nil, nil
	case config.StoreDriverPostgres:
		// Initialize PostgreSQL connection (with pooling via database/sql)
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			db.Close()
			return repositories{}, nil, fmt.Errorf("migrate database: %w", err)
		}
		return postgresRepositories(db), db, nil
	default:
		return repositories{}, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
