package cmd

import (
	"context"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/core/events"
	"github.com/frahmantamala/payment-integration/internal/culqi"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/gatewayconfig"
	gatewayconfigpg "github.com/frahmantamala/payment-integration/internal/gatewayconfig/postgres"
	"github.com/frahmantamala/payment-integration/internal/idempotency"
	"github.com/frahmantamala/payment-integration/internal/izipay"
	"github.com/frahmantamala/payment-integration/internal/paymentrequest"
	paymentrequestpg "github.com/frahmantamala/payment-integration/internal/paymentrequest/postgres"
	"github.com/frahmantamala/payment-integration/internal/requestlog"
	requestlogpg "github.com/frahmantamala/payment-integration/internal/requestlog/postgres"
	"github.com/frahmantamala/payment-integration/internal/secrets"
	"github.com/frahmantamala/payment-integration/internal/stripe"
	"github.com/frahmantamala/payment-integration/internal/transport/rest"
	"github.com/frahmantamala/payment-integration/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle checkout, payment request and gateway admin requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config         *internal.Config
	DB             *sqlx.DB
	Router         *chi.Mux
	Registry       *gateway.Registry
	IzipayHandler  *izipay.Handler
	CulqiHandler   *culqi.Handler
	GatewayHandler *gatewayconfig.Handler
	RequestHandler *paymentrequest.Handler
	LogHandler     *requestlog.Handler
	AdminKey       *rsa.PublicKey
	Idempotency    *idempotency.RedisStore
	Logger         *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if deps.Idempotency != nil {
			if err := deps.Idempotency.Close(); err != nil {
				deps.Logger.Error("Redis close error", "error", err)
			}
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Registry,
		deps.IzipayHandler, deps.CulqiHandler, deps.GatewayHandler,
		deps.RequestHandler, deps.LogHandler, deps.AdminKey, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	adminKey, err := config.Security.GetPublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to load admin token key: %w", err)
	}

	secretStore, err := secrets.NewFromConfig(config.Secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secret store: %w", err)
	}

	// The duplicate charge guard is optional; without redis every attempt
	// goes straight to the provider.
	var redisStore *idempotency.RedisStore
	var guard idempotency.Guard
	if config.Redis.Enabled() {
		redisStore = idempotency.NewRedisStore(config.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisStore.Ping(pingCtx); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		guard = redisStore
	} else {
		log.Warn("redis not configured, duplicate charge guard disabled")
	}

	registry := gateway.NewRegistry()
	hooks := gateway.NewHookRunner()
	eventBus := events.NewEventBus(log)
	subscribePaymentObservers(eventBus, log)

	stripeClient := stripe.NewClient(config.Stripe, log)
	culqiClient := culqi.NewClient(config.Culqi.APIBase, config.Culqi.Timeout, log)

	requestLogRepo := requestlogpg.NewRequestLogRepository(gormDB)
	requestLogService := requestlog.NewService(requestLogRepo, log)

	izipayService := izipay.NewService(stripeClient, requestLogService, secretStore, hooks, guard, eventBus, log)
	culqiService := culqi.NewService(culqiClient, requestLogService, secretStore, hooks, guard, eventBus, log)

	adapters := []gatewayconfig.ProviderAdapter{
		izipay.NewAdapter(stripeClient),
		culqi.NewAdapter(culqiClient),
	}
	gatewayRepo := gatewayconfigpg.NewGatewayConfigRepository(gormDB)
	gatewayService := gatewayconfig.NewService(gatewayRepo, secretStore, registry, adapters, eventBus, log)

	requestRepo := paymentrequestpg.NewPaymentRequestRepository(gormDB)
	requestService := paymentrequest.NewService(requestRepo, registry, log)
	hooks.RegisterDoctype(paymentrequest.Doctype, requestService)

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := gatewayService.LoadAll(loadCtx); err != nil {
		return nil, fmt.Errorf("failed to load gateway configurations: %w", err)
	}

	return &Dependencies{
		Config:         config,
		Logger:         log,
		DB:             db,
		Router:         chi.NewRouter(),
		Registry:       registry,
		IzipayHandler:  izipay.NewHandler(izipayService, registry),
		CulqiHandler:   culqi.NewHandler(culqiService, registry),
		GatewayHandler: gatewayconfig.NewHandler(gatewayService),
		RequestHandler: paymentrequest.NewHandler(requestService),
		LogHandler:     requestlog.NewHandler(requestLogService),
		AdminKey:       adminKey,
		Idempotency:    redisStore,
	}, nil
}

// initDB initializes the database connection
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

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
