package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"golang.org/x/crypto/bcrypt"
)

// Credential store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Session store backends.
const (
	SessionStoreDatabase = "database"
	SessionStoreRedis    = "redis"
)

type Config struct {
	DatabaseDriver string // Optional: credential store driver (sqlite, postgres) (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth.db)
	DatabaseURL    string // Required for postgres: connection string

	SessionStore        string        // Optional: session store (database, redis) (default: database)
	SessionTTL          time.Duration // Optional: session lifetime (default: 24h)
	SessionCookie       string        // Optional: session cookie name (default: doorman_sid)
	SessionCookieSecure bool          // Optional: mark the cookie Secure (default: false)

	RedisAddr     string // Optional: redis address (default: localhost:6379)
	RedisPassword string // Optional: redis password
	RedisDB       int    // Optional: redis database number (default: 0)
	RedisTLS      bool   // Optional: connect to redis over TLS (default: false)

	PasswordHasher    string // Optional: hashing algorithm for new passwords (argon2id, bcrypt) (default: argon2id)
	BcryptCost        int    // Optional: bcrypt cost (default: 12)
	Argon2MemoryKiB   int    // Optional: argon2id memory in KiB (default: 19456)
	Argon2Iterations  int    // Optional: argon2id iterations (default: 2)
	Argon2Parallelism int    // Optional: argon2id threads (default: 1)
	PepperFile        string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		DatabaseDriver: getEnvOrDefault("AUTH_DATABASE_DRIVER", DriverSQLite),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("AUTH_DATABASE_URL"),

		SessionStore:        getEnvOrDefault("AUTH_SESSION_STORE", SessionStoreDatabase),
		SessionTTL:          getEnvDurationOrDefault("AUTH_SESSION_TTL", 24*time.Hour),
		SessionCookie:       getEnvOrDefault("AUTH_SESSION_COOKIE", "doorman_sid"),
		SessionCookieSecure: getEnvBoolOrDefault("AUTH_SESSION_COOKIE_SECURE", false),

		RedisAddr:     getEnvOrDefault("AUTH_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("AUTH_REDIS_DB", 0),
		RedisTLS:      getEnvBoolOrDefault("AUTH_REDIS_TLS", false),

		PasswordHasher:    getEnvOrDefault("AUTH_PASSWORD_HASHER", cryptox.AlgorithmArgon2id),
		BcryptCost:        getEnvIntOrDefault("AUTH_BCRYPT_COST", cryptox.DefaultBcryptCost),
		Argon2MemoryKiB:   getEnvIntOrDefault("AUTH_ARGON2_MEMORY_KIB", int(cryptox.DefaultArgon2Params.Memory)),
		Argon2Iterations:  getEnvIntOrDefault("AUTH_ARGON2_ITERATIONS", int(cryptox.DefaultArgon2Params.Iterations)),
		Argon2Parallelism: getEnvIntOrDefault("AUTH_ARGON2_PARALLELISM", int(cryptox.DefaultArgon2Params.Parallelism)),
		PepperFile:        getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_FILE must not be empty"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	switch c.SessionStore {
	case SessionStoreDatabase, SessionStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_SESSION_STORE %q", c.SessionStore))
	}

	switch c.PasswordHasher {
	case cryptox.AlgorithmArgon2id:
	case cryptox.AlgorithmBcrypt:
		if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
			errs = append(errs, fmt.Errorf("AUTH_BCRYPT_COST %d out of range %d-%d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_PASSWORD_HASHER %q", c.PasswordHasher))
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("AUTH_SESSION_TTL must be positive"))
	}
	if c.SessionCookie == "" {
		errs = append(errs, errors.New("AUTH_SESSION_COOKIE must not be empty"))
	}
	if c.Argon2Parallelism < 1 || c.Argon2Parallelism > 255 {
		errs = append(errs, fmt.Errorf("AUTH_ARGON2_PARALLELISM %d out of range 1-255", c.Argon2Parallelism))
	}
	if c.Argon2MemoryKiB < 1 || c.Argon2Iterations < 1 {
		errs = append(errs, errors.New("AUTH_ARGON2_MEMORY_KIB and AUTH_ARGON2_ITERATIONS must be positive"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
