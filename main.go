package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devblog/contentd/internal/app"
	"github.com/devblog/contentd/internal/config"
	"github.com/devblog/contentd/pkg/logger"
	"github.com/devblog/contentd/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL is read before config so config loading itself can be traced
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: backend=%s collections=%d redis=%v", cfg.Content.Backend, len(cfg.Content.Collections), cfg.Redis.Host != "")

	ctx := context.Background()
	repo, err := app.NewRepository(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open content backend: %v", err)
	}
	services := app.NewServices(cfg, repo, app.NewRenderer(cfg.Markdown))
	for _, svc := range services {
		if err := svc.Ping(ctx); err != nil {
			// served anyway: the directory may be created after startup
			logger.Warnf("collection %s not readable yet: %v", svc.Name(), err)
		}
	}

	redisClient := app.NewRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := app.NewRouter(cfg, app.Options{
		Services: services,
		Redis:    redisClient,
		Registry: prometheus.DefaultGatherer,
		Started:  startTime,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting content service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
