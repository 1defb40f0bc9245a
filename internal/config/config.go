package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Scheduling   SchedulingConfig
	RateLimit    RateLimitConfig
	Cache        CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string // json or console
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	BootstrapAdmin        BootstrapAdminConfig
}

// BootstrapAdminConfig seeds the first administrator.
type BootstrapAdminConfig struct {
	Name     string
	Email    string
	Password string
}

// NotificationConfig holds event fan-out settings.
type NotificationConfig struct {
	EmailFrom   string
	WebhookURL  string
	EventStream string
}

// SchedulingConfig controls how technician availability is evaluated.
type SchedulingConfig struct {
	Timezone            string
	PendingSweepSeconds int
}

// RateLimitConfig bounds request throughput per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// CacheConfig tunes in-process caches.
type CacheConfig struct {
	CategoryTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	timezone := getEnv("SCHEDULING_TIMEZONE", "Local")
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULING_TIMEZONE: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "servicedesk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 8),
			BootstrapAdmin: BootstrapAdminConfig{
				Name:     getEnv("AUTH_BOOTSTRAP_ADMIN_NAME", "Administrator"),
				Email:    os.Getenv("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
				Password: os.Getenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),
			},
		},
		Notification: NotificationConfig{
			EmailFrom:   getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL:  getEnv("NOTIFY_WEBHOOK_URL", ""),
			EventStream: getEnv("REDIS_EVENT_STREAM", "servicedesk:events"),
		},
		Scheduling: SchedulingConfig{
			Timezone:            timezone,
			PendingSweepSeconds: getEnvAsInt("SCHEDULING_PENDING_SWEEP_SECONDS", 60),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: rps,
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Cache: CacheConfig{
			CategoryTTLSeconds: getEnvAsInt("CATEGORY_CACHE_TTL_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Location resolves the scheduling timezone. Load already validated it.
func (s SchedulingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Enabled reports whether an administrator should be seeded at startup. Both
// the e-mail and the password are required.
func (b BootstrapAdminConfig) Enabled() bool {
	return b.Email != "" && b.Password != ""
}

// PendingSweepInterval is how often pendent tickets are retried. Zero disables
// the sweep.
func (s SchedulingConfig) PendingSweepInterval() time.Duration {
	if s.PendingSweepSeconds <= 0 {
		return 0
	}
	return time.Duration(s.PendingSweepSeconds) * time.Second
}

// CategoryTTL returns the category cache expiration.
func (c CacheConfig) CategoryTTL() time.Duration {
	if c.CategoryTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CategoryTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
