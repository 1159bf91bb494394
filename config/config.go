package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CONCIERGE_"

type Config struct {
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Auth      AuthConfig      `koanf:"auth"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	BodyLimit       int64         `koanf:"body_limit"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	SlowThreshold   time.Duration `koanf:"slow_threshold"`
}

type CacheConfig struct {
	Driver      string        `koanf:"driver"`
	TTL         time.Duration `koanf:"ttl"`
	RedisURL    string        `koanf:"redis_url"`
	RedisPrefix string        `koanf:"redis_prefix"`
}

type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// AuthConfig drives the optional auth scaffolding. Auth is disabled when both
// the API key hash and the JWT secret are empty.
type AuthConfig struct {
	APIKeyHash string        `koanf:"api_key_hash"`
	JWTSecret  string        `koanf:"jwt_secret"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
}

// Enabled reports whether requests must authenticate
func (a AuthConfig) Enabled() bool {
	return a.APIKeyHash != "" || a.JWTSecret != ""
}

// IsDevelopment reports whether verbose error output is allowed
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Defaults returns the configuration used when nothing else is set
func Defaults() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://localhost:3001",
			},
			BodyLimit: 10 << 20,
		},
		Database: DatabaseConfig{
			URL:             "./data/compliance.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			SlowThreshold:   time.Second,
		},
		Cache: CacheConfig{
			Driver:      "database",
			TTL:         time.Minute,
			RedisPrefix: "concierge:metrics:",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 10,
			Burst:             100,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
	}
}

// LoadEnv loads environment variables from .env file
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// process environment, in that order of precedence.
func Load() (*Config, error) {
	LoadEnv()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	path := GetEnv("CONCIERGE_CONFIG", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Names the original deployment used
	if err := k.Load(env.Provider("", ".", legacyKey), nil); err != nil {
		return nil, fmt.Errorf("loading legacy environment variables: %w", err)
	}

	// CONCIERGE_SERVER__READ_TIMEOUT -> server.read_timeout
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "database", "redis", "none":
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	if c.Cache.Driver == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache driver redis requires cache.redis_url")
	}
	if c.Auth.APIKeyHash != "" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.api_key_hash requires auth.jwt_secret to sign access tokens")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// GetEnv gets an environment variable or returns a default value if not present
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func legacyKey(s string) string {
	switch s {
	case "PORT":
		return "server.port"
	case "DATABASE_URL":
		return "database.url"
	case "NODE_ENV", "APP_ENV":
		return "environment"
	case "LOG_LEVEL":
		return "log_level"
	case "REDIS_URL":
		return "cache.redis_url"
	case "JWT_SECRET":
		return "auth.jwt_secret"
	}
	return ""
}
