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
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Classifier ClassifierConfig
	Knowledge  KnowledgeConfig
	Pipeline   PipelineConfig
	Review     ReviewConfig
	Notify     NotificationConfig
}

// NotificationConfig controls outbound notification stubs.
type NotificationConfig struct {
	WebhookURL string
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
	Addr          string
	Password      string
	DB            int
	ResultTTLMins int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ClassifierConfig selects and parameterizes the classification backend.
type ClassifierConfig struct {
	Provider      string // "openai" or "keyword"
	APIKey        string
	BaseURL       string
	Model         string
	FastModel     string
	MaxInputChars int
}

// KnowledgeConfig parameterizes the vector knowledge base.
type KnowledgeConfig struct {
	PersistPath string
	SeedOnEmpty bool
}

// PipelineConfig tunes pipeline routing and resource limits.
type PipelineConfig struct {
	StageTimeoutSeconds int
	BatchConcurrency    int
	MaxSolutions        int
	MinSimilarity       float64
	WideMinSimilarity   float64
}

// ReviewConfig parameterizes human-review links.
type ReviewConfig struct {
	TokenSecret     string
	TokenTTLMinutes int
	URLBase         string
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
			Name:                  getEnv("APP_NAME", "ticket-triage-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
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
			Addr:          getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			ResultTTLMins: getEnvAsInt("REDIS_RESULT_TTL_MINUTES", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Classifier: ClassifierConfig{
			Provider:      getEnv("CLASSIFIER_PROVIDER", "keyword"),
			APIKey:        os.Getenv("CLASSIFIER_API_KEY"),
			BaseURL:       os.Getenv("CLASSIFIER_BASE_URL"),
			Model:         getEnv("CLASSIFIER_MODEL", "llama-3.1-8b-instant"),
			FastModel:     getEnv("CLASSIFIER_FAST_MODEL", "llama-3.1-8b-instant"),
			MaxInputChars: getEnvAsInt("CLASSIFIER_MAX_INPUT_CHARS", 1800),
		},
		Knowledge: KnowledgeConfig{
			PersistPath: getEnv("KNOWLEDGE_PERSIST_PATH", ""),
			SeedOnEmpty: getEnvAsBool("KNOWLEDGE_SEED_ON_EMPTY", true),
		},
		Pipeline: PipelineConfig{
			StageTimeoutSeconds: getEnvAsInt("PIPELINE_STAGE_TIMEOUT_SECONDS", 10),
			BatchConcurrency:    getEnvAsInt("PIPELINE_BATCH_CONCURRENCY", 4),
			MaxSolutions:        getEnvAsInt("PIPELINE_MAX_SOLUTIONS", 5),
			MinSimilarity:       getEnvAsFloat("PIPELINE_MIN_SIMILARITY", 0.65),
			WideMinSimilarity:   getEnvAsFloat("PIPELINE_WIDE_MIN_SIMILARITY", 0.35),
		},
		Review: ReviewConfig{
			TokenSecret:     getEnv("REVIEW_TOKEN_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("REVIEW_TOKEN_TTL_MINUTES", 1440),
			URLBase:         getEnv("REVIEW_URL_BASE", "/api/v1/review"),
		},
		Notify: NotificationConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
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

// StageTimeout returns the per-stage external call timeout.
func (p PipelineConfig) StageTimeout() time.Duration {
	if p.StageTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.StageTimeoutSeconds) * time.Second
}

// ResultTTL returns how long completed results stay cached.
func (r RedisConfig) ResultTTL() time.Duration {
	if r.ResultTTLMins <= 0 {
		return time.Hour
	}
	return time.Duration(r.ResultTTLMins) * time.Minute
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

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
