// cmd/storelink-server/main.go
package main

import (
	// Standard libraries
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Go files
	"github.com/Niutaq/Storelink/pkg/clicks"
	"github.com/Niutaq/Storelink/pkg/config"
	"github.com/Niutaq/Storelink/pkg/logging"
	"github.com/Niutaq/Storelink/pkg/region"

	// External libraries
	redistrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/redis/go-redis.v9"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// main loads the configuration, connects the optional backends and serves the API until interrupted.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Launching Storelink server...", zap.String("addr", cfg.Server.Addr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tracer.Start(tracer.WithService(cfg.Tracing.Service))
		defer tracer.Stop()
	}

	app := &AppState{
		TTL:    cfg.Links.CacheTTL,
		Tag:    cfg.Links.Tag,
		Logger: logger,
	}
	app.Stats = clicks.NewStats()
	sinks := []clicks.Sink{app.Stats}

	if cfg.Storage.RedisURL != "" {
		rdb, err := region.ConnectRedis(ctx, cfg.Storage.RedisURL)
		if err != nil {
			logger.Fatal("Can't connect to caching client", zap.Error(err))
		}
		defer rdb.Close()
		if cfg.Tracing.Enabled {
			redistrace.WrapClient(rdb)
		}
		app.Cache = rdb
		logger.Info("Successfully connected to Redis.")
	}

	if cfg.Storage.DatabaseURL != "" {
		dbpool, err := clicks.ConnectDB(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			logger.Fatal("Can't connect to database", zap.Error(err))
		}
		defer dbpool.Close()
		if err := clicks.InitSchema(ctx, dbpool); err != nil {
			logger.Fatal("Can't initialize database schema", zap.Error(err))
		}
		app.DB = dbpool
		sinks = append(sinks, clicks.NewArchive(dbpool))
		logger.Info("Successfully connected to database.")
	}

	if cfg.Storage.NatsURL != "" {
		nc, err := clicks.ConnectNATS(cfg.Storage.NatsURL)
		if err != nil {
			logger.Fatal("Can't connect to NATS", zap.Error(err))
		}
		defer nc.Drain()
		sinks = append(sinks, clicks.NewPublisher(nc))
		logger.Info("Successfully connected to NATS.")
	}

	app.Clicks = clicks.NewRecorder(logger, sinks...)

	gin.SetMode(gin.ReleaseMode)
	var middleware []gin.HandlerFunc
	if cfg.Tracing.Enabled {
		middleware = append(middleware, gintrace.Middleware(cfg.Tracing.Service))
	}
	r := newRouter(app, middleware...)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Gin API listens", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	app.Clicks.Wait()
}
