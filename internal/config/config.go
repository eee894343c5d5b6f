package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	Port          string
	GinMode       string
	LogLevel      string
	SessionSecret string
	SessionStore  string
	RedisHost     string
	RedisPort     string

	// AllowAnonymousReaders opens read-only routes to callers without a session
	AllowAnonymousReaders bool

	// AuthUserHeader and AuthNameHeader carry the identity asserted by the
	// upstream auth proxy on the callback route. The callback trusts them
	// blindly, so the server must only be reachable through that proxy
	// unless AuthProxySecret is set.
	AuthUserHeader string
	AuthNameHeader string

	// AuthProxySecret, when set, must arrive in AuthSecretHeader on every
	// callback. The proxy injects it; direct clients cannot.
	AuthSecretHeader string
	AuthProxySecret  string
}

// Load reads the optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment only")
	}

	return &Config{
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "5432"),
		DBUser:                getEnv("DB_USER", "snacks"),
		DBPassword:            getEnv("DB_PASSWORD", "snacks"),
		DBName:                getEnv("DB_NAME", "snacks_development"),
		DBSSLMode:             getEnv("DB_SSLMODE", "disable"),
		Port:                  getEnv("PORT", "8080"),
		GinMode:               getEnv("GIN_MODE", "debug"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		SessionSecret:         getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		SessionStore:          getEnv("SESSION_STORE", "cookie"),
		RedisHost:             getEnv("REDIS_HOST", "localhost"),
		RedisPort:             getEnv("REDIS_PORT", "6379"),
		AllowAnonymousReaders: getEnvBool("ALLOW_ANONYMOUS_READERS", false),
		AuthUserHeader:        getEnv("AUTH_USER_HEADER", "X-Forwarded-User"),
		AuthNameHeader:        getEnv("AUTH_NAME_HEADER", "X-Forwarded-Preferred-Username"),
		AuthSecretHeader:      getEnv("AUTH_SECRET_HEADER", "X-Auth-Proxy-Secret"),
		AuthProxySecret:       getEnv("AUTH_PROXY_SECRET", ""),
	}
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSSLMode,
	)
}

// SlogLevel maps LogLevel onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
