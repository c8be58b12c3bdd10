package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for both the travel backend and the model server
type Config struct {
	PostgreSQL  PostgreSQLConfig
	Server      ServerConfig
	Llama       LlamaConfig
	Offers      OffersConfig
	Ranking     RankingConfig
	ModelServer ModelServerConfig
	OpenAI      OpenAIConfig
	Redis       RedisConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes precedence over the fields below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// LlamaConfig controls how the backend finds and calls the model server
type LlamaConfig struct {
	CandidateURLs     []string
	HealthTimeout     time.Duration
	GenerateTimeout   time.Duration
	DiscoveryCooldown time.Duration
	OllamaModel       string
	Temperature       float64
}

// OffersConfig controls offer generation
type OffersConfig struct {
	FreeMode          bool // deep links only, no scraping
	MaxResults        int
	CheckinOffsetDays int
	ScrapeTimeout     time.Duration
	TripAdvisorBase   string
	DefaultCity       string
}

// RankingConfig holds offer ranking weights
type RankingConfig struct {
	WeightRating float64
	WeightPrice  float64
}

// ModelServerConfig holds configuration of the llama-server process
type ModelServerConfig struct {
	Port           int
	Host           string
	HistoryLimit   int
	ContextEntries int
	HistoryBackend string // "memory" or "redis"
}

// OpenAIConfig holds the OpenAI-compatible upstream used by the model server
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatTopP        float64
	ChatMaxTokens   int
	ChatExtraBody   string // JSON string for extra_body
	Timeout         int
	Enabled         bool
}

// RedisConfig holds Redis connection settings for the history store
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "travel_app"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
			Enabled:            getEnvAsBool("PG_ENABLED", true),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8001),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Llama: LlamaConfig{
			CandidateURLs: getEnvAsList("LLAMA_CANDIDATE_URLS", []string{
				"http://localhost:4891",
				"http://127.0.0.1:11434",
				"http://127.0.0.1:8000",
			}),
			HealthTimeout:     getEnvAsDuration("LLAMA_HEALTH_TIMEOUT", 2*time.Second),
			GenerateTimeout:   getEnvAsDuration("LLAMA_GENERATE_TIMEOUT", 30*time.Second),
			DiscoveryCooldown: getEnvAsDuration("LLAMA_DISCOVERY_COOLDOWN", 30*time.Second),
			OllamaModel:       getEnv("LLAMA_OLLAMA_MODEL", "llama2"),
			Temperature:       getEnvAsFloat("LLAMA_TEMPERATURE", 0.7),
		},
		Offers: OffersConfig{
			FreeMode:          getEnvAsBool("OFFERS_FREE_MODE", true),
			MaxResults:        getEnvAsInt("OFFERS_MAX_RESULTS", 10),
			CheckinOffsetDays: getEnvAsInt("OFFERS_CHECKIN_OFFSET_DAYS", 7),
			ScrapeTimeout:     getEnvAsDuration("OFFERS_SCRAPE_TIMEOUT", 10*time.Second),
			TripAdvisorBase:   getEnv("OFFERS_TRIPADVISOR_BASE", "https://www.tripadvisor.com"),
			DefaultCity:       getEnv("OFFERS_DEFAULT_CITY", "Tunis"),
		},
		Ranking: RankingConfig{
			WeightRating: getEnvAsFloat("RANK_WEIGHT_RATING", 0.6),
			WeightPrice:  getEnvAsFloat("RANK_WEIGHT_PRICE", 0.4),
		},
		ModelServer: ModelServerConfig{
			Port:           getEnvAsInt("MODEL_SERVER_PORT", 8000),
			Host:           getEnv("MODEL_SERVER_HOST", "0.0.0.0"),
			HistoryLimit:   getEnvAsInt("HISTORY_LIMIT", 10),
			ContextEntries: getEnvAsInt("HISTORY_CONTEXT_ENTRIES", 3),
			HistoryBackend: getEnv("HISTORY_BACKEND", "memory"),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         getEnv("OPENAI_API_BASE", ""),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "llama3.2:1b"),
			ChatTemperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.7),
			ChatTopP:        getEnvAsFloat("OPENAI_CHAT_TOP_P", 0.9),
			ChatMaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 150),
			ChatExtraBody:   getEnv("OPENAI_CHAT_EXTRA_BODY", ""),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 60),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "apptravel:history:"),
		},
	}
	// A local upstream (llama.cpp, Ollama /v1) needs no key, only a base URL.
	cfg.OpenAI.Enabled = cfg.OpenAI.APIBase != ""

	if cfg.Offers.MaxResults <= 0 {
		return nil, fmt.Errorf("OFFERS_MAX_RESULTS must be positive, got %d", cfg.Offers.MaxResults)
	}
	if cfg.ModelServer.HistoryLimit <= 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", cfg.ModelServer.HistoryLimit)
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated value, dropping empty items
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, strings.TrimRight(item, "/"))
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
