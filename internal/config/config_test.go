package config

import (
	"os"
	"testing"
	"time"
)

const testSecret = "this_is_a_test_secret_key_with_32_chars_minimum"

func TestLoadConfig(t *testing.T) {
	os.Clearenv()
	os.Setenv("FITNESS_API_SECRET_KEY", testSecret)
	os.Setenv("FITNESS_API_CORS_ORIGINS", "https://a.example, https://b.example")
	defer os.Clearenv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DBDriver != DriverSQLite {
		t.Errorf("DBDriver = %q, want %q", cfg.DBDriver, DriverSQLite)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8000")
	}
	if cfg.Algorithm != "HS256" {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, "HS256")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v, want two trimmed origins", cfg.CORSOrigins)
	}
	if cfg.GetDSN() != "fitness.db" {
		t.Errorf("GetDSN() = %q, want %q", cfg.GetDSN(), "fitness.db")
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
	if cfg.TracingEnabled || cfg.TracingProtocol != "grpc" || cfg.TracingSamplerRate != 1.0 {
		t.Errorf("tracing defaults = %v %q %v, want false grpc 1", cfg.TracingEnabled, cfg.TracingProtocol, cfg.TracingSamplerRate)
	}
}

func TestLoadConfig_Tracing(t *testing.T) {
	os.Clearenv()
	os.Setenv("FITNESS_API_SECRET_KEY", testSecret)
	os.Setenv("FITNESS_API_TRACING_ENABLED", "true")
	os.Setenv("FITNESS_API_TRACING_PROTOCOL", "HTTP")
	os.Setenv("FITNESS_API_TRACING_SAMPLER_RATE", "0.1")
	os.Setenv("FITNESS_API_REDIS_URL", "redis://cache:6379/0")
	defer os.Clearenv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.TracingEnabled || cfg.TracingProtocol != "http" || cfg.TracingSamplerRate != 0.1 {
		t.Errorf("tracing = %v %q %v, want true http 0.1", cfg.TracingEnabled, cfg.TracingProtocol, cfg.TracingSamplerRate)
	}
	if cfg.RedisURL != "redis://cache:6379/0" {
		t.Errorf("RedisURL = %q, want %q", cfg.RedisURL, "redis://cache:6379/0")
	}
}

func TestLoadConfig_DebugLogging(t *testing.T) {
	os.Clearenv()
	os.Setenv("FITNESS_API_SECRET_KEY", testSecret)
	os.Setenv("FITNESS_API_DEBUG_LOGGING", "true")
	defer os.Clearenv()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoadConfig_ConnectionStringSelectsDriver(t *testing.T) {
	tests := []struct {
		name       string
		dsn        string
		wantDriver string
		wantDSN    string
	}{
		{
			name:       "SQLite relative path",
			dsn:        "sqlite:///./test.db",
			wantDriver: DriverSQLite,
			wantDSN:    "./test.db",
		},
		{
			name:       "Postgres URL",
			dsn:        "postgres://u:p@db:5432/fitness?sslmode=require",
			wantDriver: DriverPostgres,
			wantDSN:    "postgres://u:p@db:5432/fitness?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("FITNESS_API_SECRET_KEY", testSecret)
			os.Setenv("FITNESS_API_DB_CONNECTION_STRING", tt.dsn)
			defer os.Clearenv()

			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.GetDriver() != tt.wantDriver {
				t.Errorf("GetDriver() = %q, want %q", cfg.GetDriver(), tt.wantDriver)
			}
			if cfg.GetDSN() != tt.wantDSN {
				t.Errorf("GetDSN() = %q, want %q", cfg.GetDSN(), tt.wantDSN)
			}
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "Missing SECRET_KEY",
			envVars: map[string]string{},
		},
		{
			name: "Unknown driver",
			envVars: map[string]string{
				"FITNESS_API_SECRET_KEY": testSecret,
				"FITNESS_API_DB_DRIVER":  "oracle",
			},
		},
		{
			name: "Postgres without password",
			envVars: map[string]string{
				"FITNESS_API_SECRET_KEY": testSecret,
				"FITNESS_API_DB_DRIVER":  "postgres",
			},
		},
		{
			name: "Unsupported algorithm",
			envVars: map[string]string{
				"FITNESS_API_SECRET_KEY": testSecret,
				"FITNESS_API_ALGORITHM":  "RS256",
			},
		},
		{
			name: "Zero rate limit",
			envVars: map[string]string{
				"FITNESS_API_SECRET_KEY":          testSecret,
				"FITNESS_API_RATE_LIMIT_PER_USER": "0",
			},
		},
		{
			name: "Unknown tracing protocol",
			envVars: map[string]string{
				"FITNESS_API_SECRET_KEY":       testSecret,
				"FITNESS_API_TRACING_PROTOCOL": "udp",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer os.Clearenv()

			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}

func TestValidate_SecretTooShort(t *testing.T) {
	cfg := &Config{
		DBDriver:                 DriverSQLite,
		SecretKey:                "short",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
	}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for short secret, got nil")
	}
}

func TestValidateProductionSecurity(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		shouldErr bool
	}{
		{
			name: "Valid production config",
			cfg: &Config{
				AppEnv:      "production",
				DBDriver:    DriverPostgres,
				DBSSLMode:   "require",
				SecretKey:   "production_secret_key_different_from_default",
				CORSOrigins: []string{"https://app.example"},
			},
			shouldErr: false,
		},
		{
			name: "Development mode - no validation",
			cfg: &Config{
				AppEnv:      "development",
				DBDriver:    DriverPostgres,
				DBSSLMode:   "disable",
				CORSOrigins: []string{"*"},
			},
			shouldErr: false,
		},
		{
			name: "Production without SSL",
			cfg: &Config{
				AppEnv:      "production",
				DBDriver:    DriverPostgres,
				DBSSLMode:   "disable",
				SecretKey:   "production_secret_key_different_from_default",
				CORSOrigins: []string{"https://app.example"},
			},
			shouldErr: true,
		},
		{
			name: "Production with sample secret",
			cfg: &Config{
				AppEnv:      "production",
				DBDriver:    DriverSQLite,
				SecretKey:   sampleSecretKey,
				CORSOrigins: []string{"https://app.example"},
			},
			shouldErr: true,
		},
		{
			name: "Production with wildcard CORS",
			cfg: &Config{
				AppEnv:      "production",
				DBDriver:    DriverSQLite,
				SecretKey:   "production_secret_key_different_from_default",
				CORSOrigins: []string{"*"},
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateProductionSecurity()
			if tt.shouldErr && err == nil {
				t.Error("ValidateProductionSecurity() expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("ValidateProductionSecurity() unexpected error = %v", err)
			}
		})
	}
}

func TestGetDSN_Postgres(t *testing.T) {
	cfg := &Config{
		DBDriver:   DriverPostgres,
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "testuser",
		DBPassword: "testpass",
		DBName:     "testdb",
		DBSSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn := cfg.GetDSN(); dsn != expected {
		t.Errorf("GetDSN() = %q, want %q", dsn, expected)
	}
}

func TestDurations(t *testing.T) {
	cfg := &Config{AccessTokenExpireMinutes: 30, RateLimitWindowSeconds: 60}

	if got := cfg.GetAccessTokenTTL(); got != 30*time.Minute {
		t.Errorf("GetAccessTokenTTL() = %v, want %v", got, 30*time.Minute)
	}
	if got := cfg.GetRateLimitWindow(); got != time.Minute {
		t.Errorf("GetRateLimitWindow() = %v, want %v", got, time.Minute)
	}
}
