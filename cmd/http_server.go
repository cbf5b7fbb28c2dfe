package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dhakamart/commerce/internal"
	"github.com/dhakamart/commerce/internal/auth"
	authpg "github.com/dhakamart/commerce/internal/auth/postgres"
	"github.com/dhakamart/commerce/internal/catalog"
	catalogpg "github.com/dhakamart/commerce/internal/catalog/postgres"
	"github.com/dhakamart/commerce/internal/checkout"
	checkoutpg "github.com/dhakamart/commerce/internal/checkout/postgres"
	"github.com/dhakamart/commerce/internal/core/events"
	"github.com/dhakamart/commerce/internal/gateway/bkash"
	"github.com/dhakamart/commerce/internal/gateway/sslcommerz"
	"github.com/dhakamart/commerce/internal/order"
	orderpg "github.com/dhakamart/commerce/internal/order/postgres"
	"github.com/dhakamart/commerce/internal/payment"
	"github.com/dhakamart/commerce/internal/settings"
	settingspg "github.com/dhakamart/commerce/internal/settings/postgres"
	"github.com/dhakamart/commerce/internal/transport/rest"
	"github.com/dhakamart/commerce/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	RBAC     *auth.RBACAuthorization
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.RBAC, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the already-open pgx connection pool.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(log)
	registerEventHandlers(eventBus, log)

	settingsRepo := settingspg.NewSettingsRepository(gormDB)
	settingsService := settings.NewService(settingsRepo, log)

	catalogRepo := catalogpg.NewCatalogRepository(gormDB)
	catalogService := catalog.NewService(catalogRepo, log)

	checkoutRepo := checkoutpg.NewCheckoutRepository(gormDB)
	checkoutService := checkout.NewService(checkoutRepo, catalogService, eventBus, log)

	orderRepo := orderpg.NewOrderRepository(gormDB)
	orderService := order.NewService(orderRepo, eventBus, log)

	gatewayConfig := bkash.Config{
		Timeout:        config.Payment.GatewayTimeout,
		RetryAttempts:  config.Payment.RetryAttempts,
		RetryBaseDelay: config.Payment.RetryBaseDelay,
	}
	bkashClient := bkash.NewClient(gatewayConfig, log)
	sslClient := sslcommerz.NewClient(sslcommerz.Config{
		Timeout:        config.Payment.GatewayTimeout,
		RetryAttempts:  config.Payment.RetryAttempts,
		RetryBaseDelay: config.Payment.RetryBaseDelay,
	}, log)

	paymentService := payment.NewService(
		settingsService,
		checkoutService,
		orderService,
		bkashClient,
		sslClient,
		eventBus,
		config.Payment.PublicBaseURL,
		log,
	)

	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
	)
	authRepo := authpg.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGenerator, config.Security.BCryptCost, log)

	handlers := rest.Handlers{
		Auth:     auth.NewHandler(authService, log),
		Catalog:  catalog.NewHandler(catalogService, log),
		Checkout: checkout.NewHandler(checkoutService, log),
		Payment:  payment.NewHandler(paymentService, log),
		Order:    order.NewHandler(orderService, log),
		Settings: settings.NewHandler(settingsService, log),
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		RBAC:     auth.NewRBACAuthorization(log),
		Logger:   log,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// registerEventHandlers wires the in-process listeners. Fulfillment is a
// hand-off log entry for now; downstream systems tail these lines.
func registerEventHandlers(eventBus *events.EventBus, log *slog.Logger) {
	eventBus.Subscribe(events.EventTypeOrderCreated, func(ctx context.Context, event events.Event) error {
		log.Info("order ready for fulfillment", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})

	eventBus.Subscribe(events.EventTypePaymentFailed, func(ctx context.Context, event events.Event) error {
		log.Warn("payment failed", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})
}
