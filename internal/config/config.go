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
	Reasoning    ReasoningConfig
	Overseer     OverseerConfig
	DocIndex     DocIndexConfig
	Similarity   SimilarityConfig
	Notification NotificationConfig
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
	Level string
}

// ReasoningConfig configures the external reasoning service client.
type ReasoningConfig struct {
	APIKey             string
	Model              string
	MaxTokens          int
	CallTimeoutSeconds int
}

// OverseerConfig controls retry and collaborator-join behavior per run.
type OverseerConfig struct {
	RetryCap             int
	RetryDelayMillis     int
	LookupTimeoutSeconds int
}

// DocIndexConfig configures the embedded document index.
type DocIndexConfig struct {
	Path       string
	Collection string
	TopK       int
}

// SimilarityConfig configures resolution storage in Redis.
type SimilarityConfig struct {
	ResolutionTTLDays int
	FetchLimit        int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "overseer"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 120),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Reasoning: ReasoningConfig{
			APIKey:             os.Getenv("ANTHROPIC_API_KEY"),
			Model:              getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
			MaxTokens:          getEnvAsInt("ANTHROPIC_MAX_TOKENS", 4096),
			CallTimeoutSeconds: getEnvAsInt("REASONING_CALL_TIMEOUT_SECONDS", 60),
		},
		Overseer: OverseerConfig{
			RetryCap:             getEnvAsInt("OVERSEER_RETRY_CAP", 2),
			RetryDelayMillis:     getEnvAsInt("OVERSEER_RETRY_DELAY_MILLIS", 500),
			LookupTimeoutSeconds: getEnvAsInt("OVERSEER_LOOKUP_TIMEOUT_SECONDS", 5),
		},
		DocIndex: DocIndexConfig{
			Path:       getEnv("DOC_INDEX_PATH", "./data/docindex"),
			Collection: getEnv("DOC_INDEX_COLLECTION", "kb_documents"),
			TopK:       getEnvAsInt("DOC_INDEX_TOP_K", 5),
		},
		Similarity: SimilarityConfig{
			ResolutionTTLDays: getEnvAsInt("SIMILARITY_RESOLUTION_TTL_DAYS", 90),
			FetchLimit:        getEnvAsInt("SIMILARITY_FETCH_LIMIT", 5),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
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

// CallTimeout returns the per-call reasoning service timeout.
func (r ReasoningConfig) CallTimeout() time.Duration {
	if r.CallTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(r.CallTimeoutSeconds) * time.Second
}

// RetryDelay returns the fixed delay between stage attempts.
func (o OverseerConfig) RetryDelay() time.Duration {
	if o.RetryDelayMillis <= 0 {
		return 0
	}
	return time.Duration(o.RetryDelayMillis) * time.Millisecond
}

// LookupTimeout bounds the concurrent collaborator-lookup join.
func (o OverseerConfig) LookupTimeout() time.Duration {
	if o.LookupTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(o.LookupTimeoutSeconds) * time.Second
}

// ResolutionTTL returns the similarity store entry lifetime.
func (s SimilarityConfig) ResolutionTTL() time.Duration {
	days := s.ResolutionTTLDays
	if days <= 0 {
		days = 90
	}
	return time.Duration(days) * 24 * time.Hour
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
