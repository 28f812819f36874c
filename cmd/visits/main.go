package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/visits/internal/application/monitor"
	"github.com/aescanero/visits/internal/application/visits"
	"github.com/aescanero/visits/internal/config"
	"github.com/aescanero/visits/internal/ports"
	"github.com/aescanero/visits/pkg/adapters/events/memory"
	"github.com/aescanero/visits/pkg/adapters/metrics/prometheus"
	redisstorage "github.com/aescanero/visits/pkg/adapters/storage/redis"
	"github.com/aescanero/visits/pkg/api/http"
	"github.com/aescanero/visits/pkg/api/websocket"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting visit counter",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize Redis client
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           config.RedisDB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	// Probe once; an unreachable store is served around, not retried
	ctx := context.Background()
	conn := visits.Connect(ctx, redisstorage.NewCounterStore(redisClient, logger), logger)
	logger.Info("counter store connection",
		zap.String("addr", cfg.Redis.Addr()),
		zap.String("state", string(conn.State())))

	// Initialize adapters
	metricsCollector := prometheus.NewCollector()

	eventBus := memory.NewInMemoryEventBus(memory.DefaultBufferSize)
	eventBus.OnDrop(func(ports.VisitEvent) {
		metricsCollector.RecordEventDropped()
	})

	// Initialize application components
	visitService := visits.NewService(conn, metricsCollector, eventBus, logger)

	var storeMonitor *monitor.StoreMonitor
	store, connected := conn.Store()
	metricsCollector.SetStoreUp(connected)
	if connected {
		storeMonitor = monitor.NewStoreMonitor(store, metricsCollector, cfg.Monitor.Interval, logger)
		storeMonitor.Start()
	}

	// Initialize API server
	httpServer := http.NewServer(&http.Config{
		Addr:    cfg.GetHTTPAddr(),
		Visits:  visitService,
		Metrics: metricsCollector,
		Logger:  logger,
	})

	// Add WebSocket handler to HTTP server
	httpServer.SetupWebSocket(websocket.NewHandler(eventBus, logger))

	// Start server
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("visit counter started",
		zap.String("http_addr", cfg.GetHTTPAddr()),
		zap.String("store_state", string(conn.State())))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	// Close live feeds first so open WebSocket handlers return
	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if storeMonitor != nil {
		storeMonitor.Stop()
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}

	logger.Info("visit counter shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
