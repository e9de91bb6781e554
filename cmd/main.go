package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/duynhne/form-service/config"
	database "github.com/duynhne/form-service/internal/core"
	"github.com/duynhne/form-service/internal/core/domain"
	"github.com/duynhne/form-service/internal/core/repository/memory"
	"github.com/duynhne/form-service/internal/core/repository/mongodb"
	"github.com/duynhne/form-service/internal/core/repository/psql"
	logicv1 "github.com/duynhne/form-service/internal/logic/v1"
	v1 "github.com/duynhne/form-service/internal/web/v1"
	"github.com/duynhne/form-service/middleware"
)

const (
	readinessPingTimeout = 2 * time.Second
	schemaRetryInterval  = 5 * time.Second
)

func main() {
	// Load configuration from environment variables (with .env file support for local dev)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	logger, err := middleware.NewLogger(cfg.Logging)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	logger.Info("Service starting",
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version),
		zap.String("env", cfg.Service.Env),
		zap.String("port", cfg.Service.Port),
		zap.String("store_driver", cfg.Store.Driver),
	)

	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		provider, err := middleware.InitTracing(cfg)
		if err != nil {
			logger.Warn("Failed to initialize tracing", zap.Error(err))
		} else {
			tp = provider
			logger.Info("Tracing initialized",
				zap.String("endpoint", cfg.Tracing.Endpoint),
				zap.Float64("sample_rate", cfg.Tracing.SampleRate),
			)
		}
	}

	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg, logger); err != nil {
			logger.Warn("Failed to initialize profiling", zap.Error(err))
		} else {
			logger.Info("Profiling initialized", zap.String("endpoint", cfg.Profiling.Endpoint))
			defer middleware.StopProfiling()
		}
	}

	repo, closeStore, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up form store", zap.Error(err))
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	var isShuttingDown atomic.Bool

	// Tracing middleware (must be first for context propagation)
	if tp != nil {
		r.Use(middleware.TracingMiddleware(cfg.Metrics.Path))
	}
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(middleware.PrometheusMiddleware(cfg.Metrics.Path))
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	service := logicv1.NewFormService(repo)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: 503 once shutdown has started or while the store is unreachable
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessPingTimeout)
		defer cancel()
		if err := service.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store_unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1.NewFormHandler(service, cfg.IsDevelopment()).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Service.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server running", zap.String("port", cfg.Service.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Fail readiness first and wait for propagation
	isShuttingDown.Store(true)
	if drainDelay := cfg.GetReadinessDrainDelayDuration(); drainDelay > 0 {
		logger.Info("Readiness drain delay started", zap.Duration("delay", drainDelay))
		time.Sleep(drainDelay)
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server...", zap.Duration("timeout", shutdownTimeout))

	// Order: HTTP Server → Store → Tracer
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.Info("HTTP server shutdown complete")
	}

	closeStore(shutdownCtx)
	logger.Info("Form store closed")

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Tracer shutdown error", zap.Error(err))
		} else {
			logger.Info("Tracer shutdown complete")
		}
	}

	logger.Info("Graceful shutdown complete")
}

// openStore builds the repository for the configured driver. An unreachable
// store is logged and the service starts anyway; only configuration errors
// are returned.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.FormRepository, func(context.Context), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, coll, err := database.ConnectMongo(ctx, cfg.Store)
		if client == nil {
			return nil, nil, err
		}
		if err != nil {
			logger.Error("Connection error", zap.Error(err))
		} else {
			logger.Info("Connected to MongoDB",
				zap.String("database", cfg.Store.MongoDatabase),
				zap.String("collection", cfg.Store.MongoCollection),
			)
		}
		closeFn := func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				logger.Error("MongoDB disconnect error", zap.Error(err))
			}
		}
		return mongodb.NewFormRepository(coll), closeFn, nil

	case config.DriverPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.Store)
		if pool == nil {
			return nil, nil, err
		}
		if err != nil {
			logger.Error("Connection error", zap.Error(err))
		}
		repo := psql.NewFormRepository(pool)
		schemaCtx, cancel := context.WithCancel(ctx)
		go ensureSchema(schemaCtx, repo, logger)
		closeFn := func(context.Context) {
			cancel()
			pool.Close()
		}
		return repo, closeFn, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory form store; data is lost on restart")
		return memory.NewFormRepository(), func(context.Context) {}, nil
	}

	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

// ensureSchema creates the forms table, retrying until the database answers
func ensureSchema(ctx context.Context, repo *psql.FormRepository, logger *zap.Logger) {
	ticker := time.NewTicker(schemaRetryInterval)
	defer ticker.Stop()

	for {
		err := repo.EnsureSchema(ctx)
		if err == nil {
			logger.Info("Connected to PostgreSQL, forms table ready")
			return
		}
		logger.Warn("Forms table not ready, retrying", zap.Error(err), zap.Duration("retry_in", schemaRetryInterval))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
