package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"

	WizardStoreFile  = "file"
	WizardStoreRedis = "redis"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// Enabled reports whether a Postgres host was configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

type LLMConfig struct {
	Provider        string
	BaseURL         string
	APIKey          string
	Model           string
	GeminiBaseURL   string
	Timeout         time.Duration
	StrictJSON      bool
	RedactPrompts   bool
	CacheTTL        time.Duration
	CleanupInterval time.Duration
}

type WizardConfig struct {
	Store    string
	FilePath string
	Key      string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type AuthConfig struct {
	JWTSecret string
	Optional  bool
}

type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	MetricsAddr    string
	OTLPEndpoint   string
	PprofAddr      string
	LogLevel       string
	LogFormat      string
}

type Config struct {
	Repositories  RepositoriesConfig
	LLM           LLMConfig
	Wizard        WizardConfig
	RateLimit     RateLimitConfig
	Auth          AuthConfig
	Observability ObservabilityConfig
	ServerPort    string
	GinMode       string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     os.Getenv("POSTGRES_HOST"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "ziptrip"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: int32(getIntOrDefault("POSTGRES_MAX_CONNS", 10)),
				MinConns: int32(getIntOrDefault("POSTGRES_MIN_CONNS", 2)),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       getIntOrDefault("REDIS_DB", 0),
			},
		},
		LLM: LLMConfig{
			Provider:        getEnvOrDefault("LLM_PROVIDER", ProviderGateway),
			BaseURL:         getEnvOrDefault("LLM_BASE_URL", "https://ai.gateway.lovable.dev/v1/"),
			APIKey:          getEnvOrDefault("LLM_API_KEY", os.Getenv("LOVABLE_API_KEY")),
			Model:           getEnvOrDefault("LLM_MODEL", "google/gemini-2.5-flash"),
			GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),
			Timeout:         getDurationOrDefault("LLM_TIMEOUT", 0),
			StrictJSON:      getBoolOrDefault("ITINERARY_STRICT_JSON", false),
			RedactPrompts:   getBoolOrDefault("LLM_REDACT_PROMPTS", false),
			CacheTTL:        getDurationOrDefault("ITINERARY_CACHE_TTL", 5*time.Minute),
			CleanupInterval: getDurationOrDefault("ITINERARY_CACHE_CLEANUP", 10*time.Minute),
		},
		Wizard: WizardConfig{
			Store:    getEnvOrDefault("WIZARD_STORE", WizardStoreFile),
			FilePath: getEnvOrDefault("WIZARD_STORE_PATH", "data/wizard.json"),
			Key:      getEnvOrDefault("WIZARD_STORE_KEY", "ziptrip-itinerary"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 1),
			Burst:             getIntOrDefault("RATE_LIMIT_BURST", 5),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			Optional:  getBoolOrDefault("JWT_OPTIONAL", true),
		},
		Observability: ObservabilityConfig{
			ServiceName:    getEnvOrDefault("OTEL_SERVICE_NAME", "ziptrip"),
			ServiceVersion: getEnvOrDefault("OTEL_SERVICE_VERSION", "dev"),
			Environment:    getEnvOrDefault("APP_ENV", "development"),
			MetricsAddr:    getEnvOrDefault("METRICS_ADDR", ":9092"),
			OTLPEndpoint:   getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4318"),
			PprofAddr:      getEnvOrDefault("PPROF_ADDR", ":6060"),
			LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
			LogFormat:      getEnvOrDefault("LOG_FORMAT", "console"),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8091"),
		GinMode:    getEnvOrDefault("GIN_MODE", "release"),
	}

	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY (or LOVABLE_API_KEY) environment variable is required")
	}

	switch cfg.LLM.Provider {
	case ProviderGateway, ProviderGemini:
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLM.Provider)
	}

	switch cfg.Wizard.Store {
	case WizardStoreFile, WizardStoreRedis:
	default:
		return nil, fmt.Errorf("unsupported WIZARD_STORE %q", cfg.Wizard.Store)
	}

	if cfg.Repositories.Postgres.Enabled() && cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required when POSTGRES_HOST is set")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
