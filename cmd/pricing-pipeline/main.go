package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/richxcame/pricing-pipeline/internal/changetracker"
	"github.com/richxcame/pricing-pipeline/internal/forecastengine"
	"github.com/richxcame/pricing-pipeline/internal/ingestion"
	"github.com/richxcame/pricing-pipeline/internal/pipeline"
	"github.com/richxcame/pricing-pipeline/internal/strategy"
	"github.com/richxcame/pricing-pipeline/pkg/cache"
	"github.com/richxcame/pricing-pipeline/pkg/config"
	"github.com/richxcame/pricing-pipeline/pkg/database"
	"github.com/richxcame/pricing-pipeline/pkg/errors"
	"github.com/richxcame/pricing-pipeline/pkg/eventbus"
	"github.com/richxcame/pricing-pipeline/pkg/health"
	"github.com/richxcame/pricing-pipeline/pkg/logger"
	"github.com/richxcame/pricing-pipeline/pkg/middleware"
	"github.com/richxcame/pricing-pipeline/pkg/ratelimit"
	redisclient "github.com/richxcame/pricing-pipeline/pkg/redis"
)

const (
	serviceName = "pricing-pipeline"
	version     = "1.0.0"
)

func main() {
	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8095")
	}
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("starting pricing pipeline service",
		zap.String("service", serviceName),
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
	)

	sentryConfig := errors.DefaultSentryConfig()
	sentryConfig.ServerName = serviceName
	sentryConfig.Release = version
	if err := errors.InitSentry(sentryConfig); err != nil {
		logger.Warn("failed to initialize Sentry, continuing without error tracking", zap.Error(err))
	} else {
		defer errors.Flush(2 * time.Second)
	}

	db, err := database.NewPostgresPool(&cfg.Database, cfg.Timeout.DatabaseQueryTimeout)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("connected to database")

	var statusCache *pipeline.StatusCache
	var limiter *ratelimit.Limiter
	var redisConn *redisclient.Client
	if redisConn, err = redisclient.NewRedisClient(&cfg.Redis); err != nil {
		logger.Warn("failed to connect to redis, pipeline status cache and rate limiting disabled", zap.Error(err))
	} else {
		statusCache = pipeline.NewStatusCache(cache.NewCache(redisConn.Client))
		limiter = ratelimit.NewLimiter(redisConn.Client, cfg.RateLimit)
		defer redisConn.Close()
	}

	tracker := changetracker.New()
	aggregator := ingestion.NewAggregator()
	forecastRepo := forecastengine.NewRepository(db)
	strategyRepo := strategy.NewRepository(db)
	runRepo := pipeline.NewPostgresRepository(db)

	var retrainer forecastengine.Retrainer
	if cfg.Pipeline.TrainingServiceURL != "" {
		retrainer = pipeline.NewHTTPRetrainer(cfg.Pipeline.TrainingServiceURL, "/api/v1/retrain")
	}

	orchestrator := pipeline.New(
		cfg.Pipeline,
		tracker,
		forecastRepo,
		nil, // Model: ForecastEngine falls back to its seasonal-naive path
		retrainer,
		aggregator,
		strategyRepo,
		runRepo,
	)
	if statusCache != nil {
		orchestrator = orchestrator.WithStatusCache(statusCache)
	}

	var bus *eventbus.Bus
	if cfg.NATS.Enabled && cfg.NATS.URL != "" {
		bus, err = eventbus.New(eventbus.Config{
			URL:        cfg.NATS.URL,
			Name:       serviceName,
			StreamName: cfg.NATS.StreamName,
		})
		if err != nil {
			logger.Warn("failed to connect to NATS, ingestion listener disabled", zap.Error(err))
		} else {
			defer bus.Close()
			ingestionRepo := ingestion.NewRepository(db)
			listener := ingestion.NewListener(bus, ingestionRepo, aggregator, tracker)
			if err := listener.Start(rootCtx); err != nil {
				logger.Warn("failed to start ingestion listener", zap.Error(err))
			} else {
				logger.Info("ingestion listener subscribed to upstream collections")
			}
		}
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryWithSentry())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestTimeout(cfg.Timeout.DefaultRequestTimeoutDuration()))
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.CORS())
	router.Use(middleware.SanitizeRequest())
	router.Use(middleware.RateLimit(limiter, cfg.RateLimit))
	router.Use(middleware.ErrorHandler())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName, "version": version})
	})
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive", "service": serviceName, "version": version})
	})

	healthChecks := make(map[string]health.Checker)
	healthChecks["database"] = func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return db.Ping(ctx)
	}
	if redisConn != nil {
		healthChecks["redis"] = health.RedisChecker(redisConn.Client)
	}
	router.GET("/health/ready", func(c *gin.Context) {
		for name, check := range healthChecks {
			if err := check(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not ready", "service": serviceName,
					"failed_check": name, "error": err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": serviceName, "version": version})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": serviceName, "version": version})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := pipeline.NewHandler(orchestrator)
	api := router.Group("/api/v1/pipeline")
	handler.Register(api)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	go runScheduler(rootCtx, orchestrator, cfg.Pipeline)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down pricing pipeline service")
	cancelRoot()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// runScheduler drives the periodic, non-forced trigger at the configured
// cadence, plus an optional run on startup. A forced manual trigger never
// originates here; it only ever comes from the HTTP control surface.
func runScheduler(ctx context.Context, o *pipeline.Orchestrator, cfg config.PipelineConfig) {
	if cfg.RunOnStartup {
		result := o.Trigger(ctx, true)
		logger.Info("startup pipeline run requested", zap.String("status", result.Status))
	}

	ticker := time.NewTicker(cfg.ScheduleCadence)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result := o.Trigger(ctx, false)
			logger.Info("scheduled pipeline run requested", zap.String("status", result.Status))
		case <-ctx.Done():
			logger.Info("pipeline scheduler stopped")
			return
		}
	}
}
