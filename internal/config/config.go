package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "FITNESS_API_"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const sampleSecretKey = "your_secret_key_minimum_32_chars_change_this"

type Config struct {
	// Database
	DBDriver           string
	DBConnectionString string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSSLMode          string
	SQLitePath         string

	// Security
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int
	CORSOrigins              []string

	// Application
	AppEnv       string
	Port         string
	LogLevel     string
	LogFile      string
	DebugLogging bool

	// Rate Limiting
	RateLimitPerUser       int
	RateLimitPerIP         int
	RateLimitWindowSeconds int

	// Rate limit counters are shared through Redis when set
	RedisURL string

	// Metrics
	MetricsNamespace string

	// Tracing
	TracingEnabled     bool
	TracingEndpoint    string
	TracingProtocol    string
	TracingInsecure    bool
	TracingSamplerRate float64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBConnectionString: getEnv("DB_CONNECTION_STRING", ""),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "fitness"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "fitness_db"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		SQLitePath:         getEnv("SQLITE_PATH", "fitness.db"),

		SecretKey:                getEnv("SECRET_KEY", ""),
		Algorithm:                strings.ToUpper(getEnv("ALGORITHM", "HS256")),
		AccessTokenExpireMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		CORSOrigins:              getEnvList("CORS_ORIGINS", []string{"*"}),

		AppEnv:       getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8000"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		DebugLogging: getEnvBool("DEBUG_LOGGING", false),

		RateLimitPerUser:       getEnvInt("RATE_LIMIT_PER_USER", 120),
		RateLimitPerIP:         getEnvInt("RATE_LIMIT_PER_IP", 300),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RedisURL:               getEnv("REDIS_URL", ""),
		MetricsNamespace:       getEnv("METRICS_NAMESPACE", "fitness_api"),

		TracingEnabled:     getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint:    getEnv("TRACING_ENDPOINT", ""),
		TracingProtocol:    strings.ToLower(getEnv("TRACING_PROTOCOL", "grpc")),
		TracingInsecure:    getEnvBool("TRACING_INSECURE", true),
		TracingSamplerRate: getEnvFloat("TRACING_SAMPLER_RATE", 1.0),
	}

	if cfg.DebugLogging {
		cfg.LogLevel = "debug"
	}

	// The connection string scheme wins over DB_DRIVER
	if cfg.DBConnectionString != "" {
		cfg.DBDriver = driverFromConnectionString(cfg.DBConnectionString, cfg.DBDriver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		return fmt.Errorf("FITNESS_API_DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	if c.DBDriver == DriverPostgres && c.DBConnectionString == "" && c.DBPassword == "" {
		return fmt.Errorf("FITNESS_API_DB_PASSWORD is required for postgres")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("FITNESS_API_SECRET_KEY is required")
	}
	if len(c.SecretKey) < 32 {
		return fmt.Errorf("FITNESS_API_SECRET_KEY must be at least 32 characters")
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("FITNESS_API_ALGORITHM must be one of HS256, HS384, HS512")
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("FITNESS_API_ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.RateLimitPerUser <= 0 || c.RateLimitPerIP <= 0 || c.RateLimitWindowSeconds <= 0 {
		return fmt.Errorf("FITNESS_API_RATE_LIMIT_* values must be positive")
	}
	if c.TracingProtocol != "grpc" && c.TracingProtocol != "http" {
		return fmt.Errorf("FITNESS_API_TRACING_PROTOCOL must be grpc or http")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBDriver == DriverPostgres && !strings.Contains(c.GetDSN(), "sslmode=require") {
		return fmt.Errorf("postgres connections must use sslmode=require in production")
	}
	if c.SecretKey == sampleSecretKey {
		return fmt.Errorf("FITNESS_API_SECRET_KEY must be changed from default in production")
	}
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("FITNESS_API_CORS_ORIGINS must list explicit origins in production")
		}
	}

	return nil
}

// GetDSN returns the driver-specific data source name.
func (c *Config) GetDSN() string {
	if c.DBConnectionString != "" {
		if c.DBDriver == DriverSQLite {
			return sqlitePath(c.DBConnectionString)
		}
		return c.DBConnectionString
	}
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// GetDriver returns the effective database driver after connection string detection.
func (c *Config) GetDriver() string {
	return c.DBDriver
}

func (c *Config) GetAccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) GetRateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func driverFromConnectionString(dsn, fallback string) string {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		return DriverSQLite
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.HasPrefix(dsn, "host="):
		return DriverPostgres
	}
	return fallback
}

// sqlitePath accepts sqlite:///relative/path, sqlite:////absolute/path and bare paths.
func sqlitePath(dsn string) string {
	if rest, ok := strings.CutPrefix(dsn, "sqlite:///"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return rest
	}
	return dsn
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(envPrefix + key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(envPrefix + key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(envPrefix + key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
