package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	ServiceName string
	Version     string
	LogLevel    string
	LogFormat   string
	LogDir      string

	// Internal API key shared with the platform gateway
	APIKey         string
	TrustedProxies []string

	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	DBMaxConns    int
	DBMaxIdleTime time.Duration
	DBMaxLifetime time.Duration

	// Payment provider (mobile money collection API)
	ProviderBaseURL         string
	ProviderAPIUser         string
	ProviderAPIKey          string
	ProviderSubscriptionKey string
	Currency                string
	MinCollectionAmount     int64
	TokenRefreshSkew        time.Duration
	PaymentPollInterval     time.Duration
	PaymentPollBudget       time.Duration

	// Odds feed backing collective proposals. When FixturesFile is set it
	// takes precedence over the HTTP feed.
	FixturesURL    string
	FixturesAPIKey string
	FixturesFile   string
	FixturesSchema string

	// Event system
	EventMaxRetries       int
	EventRetryDelay       time.Duration
	EventDeadLetterPath   string
	EventLogRetentionDays int

	// Reconciliation worker
	ReconcileInterval time.Duration
	WorkerCount       int
	WorkerQueueSize   int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "dev"),
		ServiceName: getEnv("SERVICE_NAME", "settlement-engine"),
		Version:     getEnv("VERSION", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		APIKey:      getEnv("API_KEY", ""),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "settlement"),

		ProviderBaseURL:         getEnv("PROVIDER_BASE_URL", ""),
		ProviderAPIUser:         getEnv("PROVIDER_API_USER", ""),
		ProviderAPIKey:          getEnv("PROVIDER_API_KEY", ""),
		ProviderSubscriptionKey: getEnv("PROVIDER_SUBSCRIPTION_KEY", ""),
		Currency:                getEnv("CURRENCY", "GNF"),

		FixturesURL:         getEnv("FIXTURES_URL", ""),
		FixturesAPIKey:      getEnv("FIXTURES_API_KEY", ""),
		FixturesFile:        getEnv("FIXTURES_FILE", ""),
		FixturesSchema:      getEnv("FIXTURES_SCHEMA", "schemas/fixtures.schema.json"),
		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", "logs/event_deadletter.jsonl"),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			cfg.TrustedProxies = append(cfg.TrustedProxies, strings.TrimSpace(p))
		}
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	minAmount, err := getEnvInt("MIN_COLLECTION_AMOUNT", 1000)
	if err != nil {
		return nil, err
	}
	cfg.MinCollectionAmount = int64(minAmount)

	cfg.TokenRefreshSkew, err = getEnvDuration("TOKEN_REFRESH_SKEW", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.PaymentPollInterval, err = getEnvDuration("PAYMENT_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.PaymentPollBudget, err = getEnvDuration("PAYMENT_POLL_BUDGET", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.ReconcileInterval, err = getEnvDuration("RECONCILE_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.WorkerCount, err = getEnvInt("WORKER_COUNT", 2)
	if err != nil {
		return nil, err
	}
	cfg.WorkerQueueSize, err = getEnvInt("WORKER_QUEUE_SIZE", 64)
	if err != nil {
		return nil, err
	}

	cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxIdleTime, err = getEnvDuration("DB_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxLifetime, err = getEnvDuration("DB_MAX_LIFETIME", time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.EventMaxRetries, err = getEnvInt("EVENT_MAX_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	cfg.EventRetryDelay, err = getEnvDuration("EVENT_RETRY_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.EventLogRetentionDays, err = getEnvInt("EVENT_LOG_RETENTION_DAYS", 90)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.MinCollectionAmount <= 0 {
		return fmt.Errorf("MIN_COLLECTION_AMOUNT must be positive")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
