package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Retention RetentionConfig
	App       AppConfig
}

type ServerConfig struct {
	Port            string
	CORSOrigin      string
	RateLimitWindow time.Duration
	RateLimitMax    int

	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the socket address is the client.
	TrustedProxies []string
}

type DatabaseConfig struct {
	Driver       string // postgres (lib/pq), pgx, sqlite
	DSN          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
}

type StorageConfig struct {
	Backend string // sql, redis
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	Provider                string // jwt, firebase
	JWTSecret               string
	FirebaseCredentialsPath string
}

type RetentionConfig struct {
	Keep     int
	Schedule string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"

	BackendSQL   = "sql"
	BackendRedis = "redis"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	env := getEnv("APP_ENV", "development")
	defaultLimit := 1000
	defaultOrigin := "*"
	if env == "production" {
		defaultLimit = 100
		defaultOrigin = ""
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			CORSOrigin:      getEnv("CORS_ORIGIN", defaultOrigin),
			RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", defaultLimit),
			TrustedProxies:  getEnvAsList("TRUSTED_PROXIES"),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", DriverPostgres),
			DSN:          getEnv("DB_DSN", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "golden_age"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			SQLitePath:   getEnv("SQLITE_PATH", "golden_age.db"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		},
		Storage: StorageConfig{
			Backend: getEnv("SNAPSHOT_BACKEND", BackendSQL),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Provider:                getEnv("AUTH_PROVIDER", AuthJWT),
			JWTSecret:               getEnv("JWT_ACCESS_SECRET", ""),
			FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Retention: RetentionConfig{
			Keep:     getEnvAsInt("RETENTION_KEEP", 0),
			Schedule: getEnv("RETENTION_SCHEDULE", "0 0 3 * * *"),
		},
		App: AppConfig{
			Environment: env,
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverPgx:
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_HOST or DB_DSN is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Storage.Backend != BackendSQL && c.Storage.Backend != BackendRedis {
		return fmt.Errorf("unsupported SNAPSHOT_BACKEND %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required for the redis backend")
	}

	switch c.Auth.Provider {
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_ACCESS_SECRET is required for the jwt auth provider")
		}
	case AuthFirebase:
		if c.Auth.FirebaseCredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required for the firebase auth provider")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.Auth.Provider)
	}

	if c.Retention.Keep < 0 {
		return fmt.Errorf("RETENTION_KEEP must not be negative")
	}
	if c.Server.RateLimitMax <= 0 || c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	for _, proxy := range c.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy)
			}
		}
	}

	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
