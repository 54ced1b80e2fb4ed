package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	bookingapp "github.com/adbook/backend/internal/application/booking"
	eventapp "github.com/adbook/backend/internal/application/event"
	notificationapp "github.com/adbook/backend/internal/application/notification"
	"github.com/adbook/backend/internal/domain/notification"
	"github.com/adbook/backend/internal/infrastructure/auth"
	"github.com/adbook/backend/internal/infrastructure/cache"
	"github.com/adbook/backend/internal/infrastructure/config"
	"github.com/adbook/backend/internal/infrastructure/event"
	"github.com/adbook/backend/internal/infrastructure/logger"
	"github.com/adbook/backend/internal/infrastructure/persistence"
	"github.com/adbook/backend/internal/infrastructure/printing"
	"github.com/adbook/backend/internal/infrastructure/scheduler"
	"github.com/adbook/backend/internal/infrastructure/storage"
	"github.com/adbook/backend/internal/infrastructure/telemetry"
	"github.com/adbook/backend/internal/interfaces/http/handler"
	"github.com/adbook/backend/internal/interfaces/http/middleware"
	"github.com/adbook/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/adbook/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

//	@title			Ad Booking Backend API
//	@version		1.0
//	@description	Work orders, release order approvals, invoicing and deployment tracking for advertising slots

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.IsEnabled() {
		log = providers.Logs.Bridge(log, logger.ParseLevel(cfg.Log.Level))
	}

	log.Info("Starting adbook backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	if providers.Meter.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB", zap.Error(err))
		}
		dbMetrics, err := telemetry.NewDBMetrics(providers.Meter.Meter("database"), sqlDB, dbTracing.SlowQueryThresh, log)
		if err == nil {
			err = dbMetrics.Instrument(db.DB)
			defer func() { _ = dbMetrics.Close() }()
		}
		if err != nil {
			log.Warn("Database metrics disabled", zap.Error(err))
		}
	}

	// Redis backs the idempotency keys and the live notification channel
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-process fallbacks", zap.Error(err))
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
		}
	}
	idempotency, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateStore(ctx, redisClient)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotency.Close() }()

	var publisher notification.Publisher
	if redisClient != nil {
		publisher = cache.NewRedisNotificationPublisher(redisClient, log)
	} else {
		publisher = cache.NewInMemoryNotificationPublisher(log)
	}

	// Events: aggregates write to the outbox, the processor relays to the bus
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	eventBus := event.NewInMemoryEventBus(log)

	// Object storage
	fileStorage, err := newFileStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Application services
	repos := persistence.NewGormRepositories(db.DB, outboxPublisher)
	txScope := persistence.NewGormTransactionScope(db.DB, outboxPublisher)
	policy := bookingapp.Policy{
		DeployRequiresPayment: cfg.Workflow.DeployRequiresPayment,
		GSTRate:               cfg.Workflow.GSTRate,
		ProformaDueDays:       cfg.Workflow.ProformaDueDays,
	}

	slotService := bookingapp.NewSlotService(repos, log)
	workOrderService := bookingapp.NewWorkOrderService(txScope, repos, log)
	workOrderService.SetFileStorage(fileStorage)
	releaseOrderService := bookingapp.NewReleaseOrderService(txScope, repos, log)
	invoiceService := bookingapp.NewInvoiceService(txScope, repos, policy, log)
	deploymentService := bookingapp.NewDeploymentService(txScope, repos, policy, log)

	if cfg.Printing.Enabled {
		renderer := printing.NewChromedpRenderer(cfg.Printing, log)
		defer func() { _ = renderer.Close() }()
		invoiceService.SetInvoiceDocuments(printing.NewInvoiceDocumentGenerator(renderer, fileStorage,
			printing.WithCurrency(cfg.Workflow.Currency),
			printing.WithGeneratorLogger(log),
		))
	}

	userDirectory := persistence.NewGormUserRepository(db.DB)
	inboxService := notificationapp.NewInboxService(persistence.NewGormNotificationRepository(db.DB), publisher, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Fan-out is delivered at least once; the wrapper drops redeliveries
	fanOut := notificationapp.NewFanOutHandler(userDirectory, inboxService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(fanOut, idempotency, log, event.WithHandlerName("notification-fanout")))

	processorConfig := event.OutboxProcessorConfig{
		BatchSize:        cfg.Event.BatchSize,
		PollInterval:     cfg.Event.PollInterval,
		CleanupEnabled:   cfg.Event.CleanupEnabled,
		CleanupRetention: cfg.Event.CleanupRetention,
		CleanupInterval:  time.Hour,
	}
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, processorConfig, log)

	if providers.Meter.IsEnabled() {
		workflowMetrics, err := telemetry.NewWorkflowMetrics(providers.Meter.Meter("workflow"))
		if err != nil {
			log.Warn("Workflow metrics disabled", zap.Error(err))
		} else {
			eventBus.Subscribe(workflowMetrics)
			outboxProcessor.SetObserver(workflowMetrics)
		}
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	}

	jobs := scheduler.NewScheduler(log)
	if cfg.Scheduler.Enabled {
		if err := jobs.Register(scheduler.NewDeploymentExpiryJob(deploymentService, cfg.Scheduler, log)); err != nil {
			log.Fatal("Failed to register expiry job", zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.App.IsProduction()

	engine.Use(
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: providers.Meter,
			Enabled:       cfg.Telemetry.Enabled,
			Logger:        log,
		}),
		middleware.CORSWithConfig(corsConfig),
		middleware.SecureWithConfig(securityConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, healthChecks(db, redisClient))
	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.HTTP.SwaggerEnabled,
			RequireAuth: cfg.App.IsProduction(),
			AllowedIPs:  cfg.HTTP.SwaggerAllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine)
	r.Use(jwtMiddleware, middleware.TracingAttributeInjector())
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		r.Use(middleware.RateLimit(limiter))
	}

	r.Register(router.BookingRoutes(router.Handlers{
		System:          systemHandler,
		Slots:           handler.NewSlotHandler(slotService),
		WorkOrders:      handler.NewWorkOrderHandler(workOrderService),
		Invoices:        handler.NewInvoiceHandler(invoiceService),
		PaymentCallback: handler.NewPaymentCallbackHandler(invoiceService, idempotency, cfg.Workflow.CallbackToken, log),
		ReleaseOrders:   handler.NewReleaseOrderHandler(releaseOrderService),
		Deployments:     handler.NewDeploymentHandler(deploymentService),
		Notifications:   handler.NewNotificationHandler(inboxService),
		Outbox:          handler.NewOutboxHandler(outboxService),
	}, middleware.Timeout(cfg.HTTP.RequestTimeout))...)
	r.Setup()

	// Request contexts are cancelled on shutdown so open notification
	// streams return instead of holding Shutdown until its deadline.
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
		BaseContext:    func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelRequests)

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Warn("Scheduler stop", zap.Error(err))
	}
	if err := outboxProcessor.Stop(shutdownCtx); err != nil {
		log.Warn("Outbox processor stop", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus stop", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newFileStorage returns S3 storage, or the in-memory stub for development
func newFileStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (bookingapp.FileStorage, error) {
	if cfg.Stub {
		log.Warn("Using in-memory object storage; uploads are lost on restart")
		return storage.NewStubObjectStorage(cfg.BaseURL, cfg.MaxUploadSize), nil
	}
	return storage.NewS3ObjectStorage(ctx, &cfg, storage.WithLogger(log))
}

// healthChecks lists the dependencies probed by /health
func healthChecks(db *persistence.Database, redisClient *redis.Client) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
