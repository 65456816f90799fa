package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	Anthropic   AnthropicConfig
	Google      GoogleConfig
	Semrush     SemrushConfig
	Ubersuggest UbersuggestConfig
	Twitter     TwitterConfig

	// Analysis run behavior
	Analysis AnalysisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// AnthropicConfig holds the genre suggester API configuration
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// GoogleConfig holds Google Trends configuration
type GoogleConfig struct {
	APIKey        string
	TrendsBaseURL string
	Geo           string // region code, e.g. "JP"
}

// SemrushConfig holds Semrush API configuration
type SemrushConfig struct {
	APIKey   string
	BaseURL  string
	Database string // regional keyword database, e.g. "jp"
}

// UbersuggestConfig holds Ubersuggest API configuration
type UbersuggestConfig struct {
	APIKey  string
	BaseURL string
	Country string
}

// TwitterConfig holds Twitter/X API v2 configuration
type TwitterConfig struct {
	BearerToken string
	BaseURL     string
}

// AnalysisConfig controls how an analysis run executes
type AnalysisConfig struct {
	Workers       int           // concurrent topics in flight
	FetchTimeout  time.Duration // per-keyword provider fetch timeout
	SocialEnabled bool          // social axis requires explicit opt-in
	SERPFallback  bool          // allow keyless SERP scraping for competition
	WeightsFile   string        // optional scoring weights YAML
	CacheTTL      time.Duration // keyword metric cache TTL
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		Anthropic: AnthropicConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:  getEnv("ANTHROPIC_MODEL", "claude-3-7-sonnet-20250219"),
		},

		Google: GoogleConfig{
			APIKey:        getEnv("GOOGLE_API_KEY", ""),
			TrendsBaseURL: getEnv("GOOGLE_TRENDS_BASE_URL", "https://trends.google.com/trends/api"),
			Geo:           getEnv("GOOGLE_TRENDS_GEO", "JP"),
		},

		Semrush: SemrushConfig{
			APIKey:   getEnv("SEMRUSH_API_KEY", ""),
			BaseURL:  getEnv("SEMRUSH_BASE_URL", "https://api.semrush.com"),
			Database: getEnv("SEMRUSH_DATABASE", "jp"),
		},

		Ubersuggest: UbersuggestConfig{
			APIKey:  getEnv("UBERSUGGEST_API_KEY", ""),
			BaseURL: getEnv("UBERSUGGEST_BASE_URL", "https://api.ubersuggest.com"),
			Country: getEnv("UBERSUGGEST_COUNTRY", "jp"),
		},

		Twitter: TwitterConfig{
			BearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
			BaseURL:     getEnv("TWITTER_BASE_URL", "https://api.twitter.com/2"),
		},

		// Analysis
		Analysis: AnalysisConfig{
			Workers:       getEnvAsInt("ANALYSIS_WORKERS", 4),
			FetchTimeout:  getEnvAsDuration("ANALYSIS_FETCH_TIMEOUT", "10s"),
			SocialEnabled: getEnvAsBool("ANALYSIS_SOCIAL_ENABLED", false),
			SERPFallback:  getEnvAsBool("ANALYSIS_SERP_FALLBACK", false),
			WeightsFile:   getEnv("ANALYSIS_WEIGHTS_FILE", ""),
			CacheTTL:      getEnvAsDuration("ANALYSIS_CACHE_TTL", "6h"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.Workers < 1 {
		return fmt.Errorf("ANALYSIS_WORKERS must be at least 1")
	}

	if c.Analysis.FetchTimeout <= 0 {
		return fmt.Errorf("ANALYSIS_FETCH_TIMEOUT must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
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
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
