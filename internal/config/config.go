package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/devblog/contentd/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Content   ContentConfig
	Markdown  MarkdownConfig
	Preview   PreviewConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	MinIO     storage.MinIOConfig
	LogLevel  string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	BackendFS    = "fs"
	BackendMinIO = "minio"
)

type ContentConfig struct {
	Backend     string
	Root        string
	Extension   string
	Collections []Collection
}

// Collection maps a public collection name to its directory.
type Collection struct {
	Name string
	Dir  string
}

type MarkdownConfig struct {
	Extensions []string
	UnsafeHTML bool
	HardWraps  bool
}

type PreviewConfig struct {
	MaxWords int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVER_PORT", "5172")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", 30)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("CONTENT_BACKEND", BackendFS)
	viper.SetDefault("CONTENT_ROOT", ".")
	viper.SetDefault("CONTENT_EXTENSION", ".md")
	viper.SetDefault("CONTENT_COLLECTIONS", "articles:articles,blogs:blog")
	viper.SetDefault("MARKDOWN_EXTENSIONS", "table,strikethrough")
	viper.SetDefault("MARKDOWN_UNSAFE_HTML", false)
	viper.SetDefault("MARKDOWN_HARD_WRAPS", false)
	viper.SetDefault("PREVIEW_MAX_WORDS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_USE_REDIS", false)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("MINIO_BUCKET", "content")

	collections, err := ParseCollections(viper.GetString("CONTENT_COLLECTIONS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel: viper.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(viper.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Content: ContentConfig{
			Backend:     strings.ToLower(strings.TrimSpace(viper.GetString("CONTENT_BACKEND"))),
			Root:        viper.GetString("CONTENT_ROOT"),
			Extension:   normalizeExt(viper.GetString("CONTENT_EXTENSION")),
			Collections: collections,
		},
		Markdown: MarkdownConfig{
			Extensions: splitList(viper.GetString("MARKDOWN_EXTENSIONS")),
			UnsafeHTML: viper.GetBool("MARKDOWN_UNSAFE_HTML"),
			HardWraps:  viper.GetBool("MARKDOWN_HARD_WRAPS"),
		},
		Preview: PreviewConfig{
			MaxWords: viper.GetInt("PREVIEW_MAX_WORDS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		MinIO: storage.MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
	}

	switch cfg.Content.Backend {
	case BackendFS:
	case BackendMinIO:
		if err := cfg.MinIO.Validate(); err != nil {
			return nil, fmt.Errorf("CONTENT_BACKEND=minio: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown CONTENT_BACKEND %q (want %q or %q)", cfg.Content.Backend, BackendFS, BackendMinIO)
	}
	if cfg.Preview.MaxWords <= 0 {
		return nil, fmt.Errorf("PREVIEW_MAX_WORDS must be positive, got %d", cfg.Preview.MaxWords)
	}

	return cfg, nil
}

// ParseCollections parses "name[:dir],..." into collections. A missing dir
// defaults to the name.
func ParseCollections(s string) ([]Collection, error) {
	var out []Collection
	seen := map[string]bool{}
	for _, item := range splitList(s) {
		name, dir, _ := strings.Cut(item, ":")
		name, dir = strings.TrimSpace(name), strings.TrimSpace(dir)
		if name == "" || strings.ContainsAny(name, "/ ") {
			return nil, fmt.Errorf("invalid collection %q", item)
		}
		if dir == "" {
			dir = name
		}
		if seen[name] {
			return nil, fmt.Errorf("collection %q listed twice", name)
		}
		seen[name] = true
		out = append(out, Collection{Name: name, Dir: dir})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no collections configured")
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
