package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ClerkConfig holds session token verification configuration.
type ClerkConfig struct {
	Issuer            string   // e.g., "https://clerk.industrain.io"
	JWKSURL           string   // defaults to <Issuer>/.well-known/jwks.json
	AuthorizedParties []string // allowed azp values; empty disables the check
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
}

// RedisConfig holds the optional course listing cache configuration.
// An empty Addr disables the cache.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	CourseCacheTTL time.Duration
}

type Config struct {
	Port           string
	Environment    string
	LogMode        string
	MigrationsPath string
	Database       DatabaseConfig
	Clerk          ClerkConfig
	Redis          RedisConfig
}

// Load reads configuration from environment variables, with an optional
// app.env file in the working directory as a fallback source.
// It fails fast with clear errors for missing required values.
func Load() (*Config, error) {
	return load(".")
}

// newViper returns a viper instance over the environment and an optional
// app.env file in path.
func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read app.env: %w", err)
		}
	}
	return v, nil
}

// MigrationConfig is the subset of configuration the migration tool needs.
type MigrationConfig struct {
	Database       DatabaseConfig
	MigrationsPath string
}

// LoadMigration reads only the database settings, so schema changes can run
// without identity provider configuration.
func LoadMigration() (*MigrationConfig, error) {
	return loadMigration(".")
}

func loadMigration(path string) (*MigrationConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	databaseURL := getString(v, "DATABASE_URL", "")
	if databaseURL == "" {
		return nil, fmt.Errorf("missing required environment variables: %v", []string{"DATABASE_URL"})
	}
	if err := validateDatabaseURL(databaseURL); err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	return &MigrationConfig{
		Database: DatabaseConfig{
			URL:          databaseURL,
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		MigrationsPath: getString(v, "MIGRATIONS_PATH", ""),
	}, nil
}

func load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var missing []string

	port := getString(v, "PORT", "8080")

	env := getString(v, "ENV", "development")
	if env != "development" && env != "staging" && env != "production" {
		return nil, fmt.Errorf("invalid ENV value %q: must be development, staging, or production", env)
	}

	// Database configuration (required)
	databaseURL := getString(v, "DATABASE_URL", "")
	if databaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	// Identity provider (required)
	issuer := getString(v, "CLERK_ISSUER", "")
	if issuer == "" {
		missing = append(missing, "CLERK_ISSUER")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	if err := validateDatabaseURL(databaseURL); err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	issuer, err = normalizeIssuer(issuer)
	if err != nil {
		return nil, fmt.Errorf("invalid CLERK_ISSUER: %w", err)
	}

	jwksURL := getString(v, "CLERK_JWKS_URL", issuer+"/.well-known/jwks.json")
	if _, err := url.ParseRequestURI(jwksURL); err != nil {
		return nil, fmt.Errorf("invalid CLERK_JWKS_URL: %w", err)
	}

	logMode := getString(v, "LOG_MODE", "")
	if logMode == "" {
		logMode = "dev"
		if env == "production" {
			logMode = "prod"
		}
	}

	return &Config{
		Port:           port,
		Environment:    env,
		LogMode:        logMode,
		MigrationsPath: getString(v, "MIGRATIONS_PATH", ""),
		Database: DatabaseConfig{
			URL:             databaseURL,
			MaxOpenConns:    getInt(v, "DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt(v, "DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getInt(v, "DB_CONN_MAX_LIFETIME", 300),
		},
		Clerk: ClerkConfig{
			Issuer:            issuer,
			JWKSURL:           jwksURL,
			AuthorizedParties: splitList(getString(v, "CLERK_AUTHORIZED_PARTIES", "")),
		},
		Redis: RedisConfig{
			Addr:           getString(v, "REDIS_ADDR", ""),
			Password:       getString(v, "REDIS_PASSWORD", ""),
			DB:             getInt(v, "REDIS_DB", 0),
			CourseCacheTTL: time.Duration(getInt(v, "COURSE_CACHE_TTL", 600)) * time.Second,
		},
	}, nil
}

// normalizeIssuer ensures the issuer is an absolute http(s) URL and strips
// any trailing slash so it compares equal to the iss claim.
func normalizeIssuer(issuer string) (string, error) {
	issuer = strings.TrimSpace(issuer)
	parsed, err := url.Parse(issuer)
	if err != nil {
		return "", fmt.Errorf("malformed URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return "", fmt.Errorf("URL must use http or https scheme, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}
	return strings.TrimRight(issuer, "/"), nil
}

// validateDatabaseURL ensures the database URL is a valid PostgreSQL connection string.
func validateDatabaseURL(dbURL string) error {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}

	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return fmt.Errorf("URL must use postgres or postgresql scheme, got %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host")
	}

	return nil
}

func getString(v *viper.Viper, key, defaultVal string) string {
	val := strings.TrimSpace(v.GetString(key))
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt reads a value as an integer with a default fallback.
func getInt(v *viper.Viper, key string, defaultVal int) int {
	val := strings.TrimSpace(v.GetString(key))
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
