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
	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/application/orderdetail"
	"github.com/b2bportal/backend/internal/application/reorder"
	"github.com/b2bportal/backend/internal/infrastructure/cache"
	"github.com/b2bportal/backend/internal/infrastructure/config"
	"github.com/b2bportal/backend/internal/infrastructure/logger"
	"github.com/b2bportal/backend/internal/infrastructure/platform"
	"github.com/b2bportal/backend/internal/infrastructure/telemetry"
	"github.com/b2bportal/backend/internal/interfaces/http/handler"
	"github.com/b2bportal/backend/internal/interfaces/http/middleware"
	"github.com/b2bportal/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting B2B buyer portal",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize tracing (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	// Commerce platform clients. The native client always exists: statuses,
	// variant constraints, cart, and shopping lists only live on the native
	// API. Order reads switch to the B2B gateway when it is enabled.
	nativeClient, err := platform.NewNativeClient(platform.Config{
		BaseURL:        cfg.Platform.BaseURL,
		TimeoutSeconds: cfg.Platform.TimeoutSeconds,
	}, cfg.Platform.AuthToken, log)
	if err != nil {
		log.Fatal("Failed to initialize platform client", zap.Error(err))
	}

	var orderSource orderdetail.OrderSource = nativeClient
	if cfg.B2B.Enabled {
		b2bClient, err := platform.NewB2BClient(platform.B2BConfig{
			Config: platform.Config{
				BaseURL:        cfg.B2B.BaseURL,
				TimeoutSeconds: cfg.Platform.TimeoutSeconds,
			},
			StoreHash:    cfg.B2B.StoreHash,
			AppSecret:    cfg.B2B.AppSecret,
			TokenTTLSecs: cfg.B2B.TokenTTLSecs,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize B2B gateway client", zap.Error(err))
		}
		orderSource = b2bClient
		log.Info("Order reads routed through B2B gateway", zap.String("store_hash", cfg.B2B.StoreHash))
	}

	// Status label cache: Redis when configured, in-memory otherwise
	statusCache, err := cache.NewStatusCacheFactory(
		cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		cfg.Cache.StatusTTL,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.Cache.RequireRedis),
	).CreateCache()
	if err != nil {
		log.Fatal("Failed to initialize status cache", zap.Error(err))
	}

	// Application services
	assembler := orderdetail.NewAssembler(nil, cfg.Display.ShowInclusiveTax)
	viewer := orderdetail.NewViewer(orderSource, assembler, log)
	statusDirectory := orderdetail.NewStatusDirectory(platform.NewStatusService(nativeClient), statusCache, nil)
	reconciler := reorder.NewReconciler(
		platform.NewVariantService(nativeClient),
		platform.NewCartService(nativeClient),
		platform.NewShoppingListService(nativeClient),
		log,
	)

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(),
	)

	// Routes
	handler.NewSystemHandler(cfg.App.Name).RegisterRoutes(engine)
	router.NewRouter(engine).
		Register(
			handler.NewOrderHandler(viewer, log),
			handler.NewReorderHandler(reconciler, log),
			handler.NewStatusHandler(statusDirectory, log),
		).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer provider shutdown error", zap.Error(err))
	}
	log.Info("Server stopped")
}
