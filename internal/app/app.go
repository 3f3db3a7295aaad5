// Package app wires configuration into the content services and HTTP router.
package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/devblog/contentd/handlers"
	"github.com/devblog/contentd/internal/config"
	"github.com/devblog/contentd/internal/document/handler"
	"github.com/devblog/contentd/internal/document/repository"
	"github.com/devblog/contentd/internal/document/service"
	"github.com/devblog/contentd/internal/markdown"
	"github.com/devblog/contentd/internal/storage"
	"github.com/devblog/contentd/pkg/logger"
	"github.com/devblog/contentd/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// NewRepository opens the configured content backend.
func NewRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	switch cfg.Content.Backend {
	case config.BackendMinIO:
		store, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("open minio backend: %w", err)
		}
		logger.Infof("content backend: minio bucket=%s endpoint=%s", cfg.MinIO.Bucket, cfg.MinIO.Endpoint)
		return repository.NewObjectRepo(store, cfg.Content.Extension), nil
	default:
		logger.Infof("content backend: fs root=%s", cfg.Content.Root)
		return repository.NewFileRepo(cfg.Content.Root, cfg.Content.Extension), nil
	}
}

// NewRenderer builds the markdown renderer shared by every collection.
func NewRenderer(cfg config.MarkdownConfig) markdown.Renderer {
	return markdown.NewGoldmarkRenderer(markdown.Options{
		Extensions: cfg.Extensions,
		UnsafeHTML: cfg.UnsafeHTML,
		HardWraps:  cfg.HardWraps,
	})
}

// NewServices creates one service per configured collection, in config order.
func NewServices(cfg *config.Config, repo repository.Repository, renderer markdown.Renderer) []*service.Service {
	out := make([]*service.Service, 0, len(cfg.Content.Collections))
	for _, col := range cfg.Content.Collections {
		out = append(out, service.New(col.Name, col.Dir, repo, renderer))
	}
	return out
}

// NewRedis returns a connected client, or nil when Redis is not configured or
// unreachable.
func NewRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		_ = client.Close()
		return nil
	}
	logger.Infof("connected to Redis: %s", addr)
	return client
}

// Options carries the runtime pieces NewRouter needs besides the config.
type Options struct {
	Services []*service.Service
	Redis    *redis.Client
	Registry prometheus.Gatherer
	Started  time.Time
}

// NewRouter builds the gin engine: global middleware, collection routes,
// health, swagger and metrics.
func NewRouter(cfg *config.Config, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && opts.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(opts.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter: redis rps=%.1f burst=%d window=%s", cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter: memory rps=%.1f burst=%d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	checks := make(map[string]handlers.Check, len(opts.Services)+1)
	names := make([]string, 0, len(opts.Services))
	for _, svc := range opts.Services {
		handler.RegisterCollectionRoutes(r, svc, cfg.Preview.MaxWords)
		checks["collection:"+svc.Name()] = svc.Ping
		names = append(names, svc.Name())
	}
	if cfg.RateLimit.UseRedis && opts.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return opts.Redis.Ping(ctx).Err() }
	}

	started := opts.Started
	if started.IsZero() {
		started = time.Now()
	}
	handlers.RegisterHealth(r, started, checks)
	handlers.RegisterSwagger(r, names)

	gatherer := opts.Registry
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return r
}
