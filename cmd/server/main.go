package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickmemo/backend/docs"
	printingapp "github.com/quickmemo/backend/internal/application/printing"
	"github.com/quickmemo/backend/internal/application/profile"
	"github.com/quickmemo/backend/internal/domain/shared"
	"github.com/quickmemo/backend/internal/infrastructure/cache"
	"github.com/quickmemo/backend/internal/infrastructure/config"
	"github.com/quickmemo/backend/internal/infrastructure/event"
	"github.com/quickmemo/backend/internal/infrastructure/logger"
	"github.com/quickmemo/backend/internal/infrastructure/migration"
	"github.com/quickmemo/backend/internal/infrastructure/persistence"
	"github.com/quickmemo/backend/internal/infrastructure/printing"
	"github.com/quickmemo/backend/internal/infrastructure/scheduler"
	"github.com/quickmemo/backend/internal/infrastructure/storage"
	"github.com/quickmemo/backend/internal/infrastructure/telemetry"
	"github.com/quickmemo/backend/internal/interfaces/http/handler"
	"github.com/quickmemo/backend/internal/interfaces/http/middleware"
	"github.com/quickmemo/backend/internal/interfaces/http/router"
	"github.com/quickmemo/backend/migrations"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

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
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry: logs bridge first so later startup messages are exported too
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             cfg.Telemetry.LogsLevel,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log = logProvider.Bridge(log)
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting QuickMemo",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	renderMetrics, err := telemetry.NewRenderMetrics(meterProvider.Meter("quickmemo.render"))
	if err != nil {
		log.Fatal("Failed to register render metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeURL,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	db, err := openDatabase(cfg, log)
	if err != nil {
		log.Fatal("Failed to prepare database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	printJobRepo := persistence.NewGormPrintJobRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	builtins, err := printing.BuiltinTemplates(cfg.Render.TemplateDir)
	if err != nil {
		log.Fatal("Failed to load built-in templates", zap.Error(err))
	}
	// Cache and storage
	kvStore, err := cache.NewKVStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(cfg.Cache.Driver)
	if err != nil {
		log.Fatal("Failed to create cache", zap.Error(err))
	}

	pdfStorage, err := storage.NewPDFStorage(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to create PDF storage", zap.Error(err))
	}

	// Renderers
	htmlRenderer, err := printing.NewHTMLRenderer(&printing.HTMLRendererConfig{
		TemplateDir: cfg.Render.TemplateDir,
		Logger:      log,
	})
	if err != nil {
		log.Fatal("Failed to load memo template", zap.Error(err))
	}

	pdfRenderer, closeRenderer, err := newPDFRenderer(cfg.Render, htmlRenderer, log)
	if err != nil {
		log.Fatal("Failed to create PDF renderer", zap.Error(err))
	}

	// Print job events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(printingapp.NewJobEventHandler(renderMetrics, log))

	// Application services
	profileService := profile.NewService(kvStore, log)
	registry := printingapp.NewTemplateRegistry(templateRepo, kvStore, cfg.Cache.TemplateTTL, log)
	if _, err := registry.Seed(ctx, builtins); err != nil {
		log.Fatal("Failed to seed built-in templates", zap.Error(err))
	}
	documentService := printingapp.NewDocumentService(registry, htmlRenderer, pdfRenderer,
		printingapp.WithJobs(printJobRepo),
		printingapp.WithStorage(pdfStorage),
		printingapp.WithOrders(orderRepo, profileService),
		printingapp.WithRecorder(renderMetrics),
		printingapp.WithEvents(eventBus),
		printingapp.WithServiceLogger(log),
	)

	retention := scheduler.NewRetentionScheduler(pdfStorage, log, scheduler.RetentionConfig{
		RetentionDays: cfg.Storage.RetentionDays,
		CleanupHour:   scheduler.DefaultRetentionConfig().CleanupHour,
	})
	if err := retention.Start(ctx); err != nil {
		log.Fatal("Failed to start PDF retention scheduler", zap.Error(err))
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log, "/health", "/api/v1/system/ping"),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanAttributes(),
		middleware.HTTPMetrics(meterProvider),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	tenant := middleware.Tenant(middleware.TenantConfig{Required: true, Logger: log})

	memoHandler := handler.NewMemoHandler(documentService)
	templateHandler := handler.NewTemplateHandler(registry)
	printJobHandler := handler.NewPrintJobHandler(documentService)
	profileHandler := handler.NewProfileHandler(profileService)
	fileHandler := handler.NewFileHandler(pdfStorage)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, healthChecks(db, kvStore))

	r := router.NewRouter(engine)
	r.Register(handler.MemoRoutes(memoHandler, tenant)).
		Register(handler.OrderRoutes(memoHandler, tenant)).
		Register(handler.TemplateRoutes(templateHandler)).
		Register(handler.PrintJobRoutes(printJobHandler, tenant)).
		Register(handler.ProfileRoutes(profileHandler, tenant)).
		Register(handler.SystemRoutes(systemHandler)).
		Mount(handler.FileRoutes(fileHandler, tenant))
	r.Setup()

	engine.GET("/health", systemHandler.Health)
	docs.Register(engine)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if limiter != nil {
		limiter.Stop()
	}
	if err := retention.Stop(shutdownCtx); err != nil {
		log.Warn("PDF retention scheduler did not stop", zap.Error(err))
	}
	if err := closeRenderer(); err != nil {
		log.Warn("Error closing PDF renderer", zap.Error(err))
	}
	if closer, ok := kvStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warn("Error closing cache", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error flushing metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error flushing traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error flushing logs", zap.Error(err))
	}
}

// openDatabase connects, installs query tracing and brings the schema up to date.
// PostgreSQL runs the embedded SQL migrations; SQLite is migrated from the models.
func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		return nil, err
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)
	if err := tracing.RegisterOtelGorm(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	migrator, err := migration.NewEmbedded(sqlDB, migrations.FS, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrator.Up(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newPDFRenderer builds the configured PDF engine and a func that releases it
func newPDFRenderer(cfg config.RenderConfig, html *printing.HTMLRenderer, log *zap.Logger) (printing.PDFRenderer, func() error, error) {
	if cfg.Engine == "chromedp" {
		renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Timeout,
			RemoteURL:      cfg.ChromeRemoteURL,
			ExecPath:       cfg.ChromeExecPath,
			NoSandbox:      cfg.ChromeNoSandbox,
			Logger:         log,
		}, html)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using headless Chrome PDF renderer")
		return renderer, renderer.Close, nil
	}

	renderer, err := printing.NewGofpdfRenderer(&printing.GofpdfConfig{
		Compress:     true,
		FontPath:     cfg.FontPath,
		BoldFontPath: cfg.BoldFontPath,
		Logger:       log,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("Using gofpdf PDF renderer")
	return renderer, renderer.Close, nil
}

// healthChecks pings the database and, when the cache is Redis, the cache
func healthChecks(db *persistence.Database, kv shared.KVStore) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if pinger, ok := kv.(interface{ Ping(context.Context) error }); ok {
		checks["redis"] = pinger.Ping
	}
	return checks
}
