// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetEnv() string
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// TextGenConfig provides settings for the text-generation service client.
type TextGenConfig interface {
	GetTextGenAPIKey() string
	GetTextGenModel() string
	GetTextGenFallbackModel() string
	GetTextGenMaxAttempts() int
	GetTextGenBackoff() time.Duration
}

// CatalogConfig provides settings for the product-catalog search client.
type CatalogConfig interface {
	GetCatalogBaseURL() string
	GetCatalogTimeout() time.Duration
	GetCatalogRatePerSec() float64
	IsCatalogEnabled() bool
}

// CacheConfig provides settings for the catalog search cache.
type CacheConfig interface {
	GetRedisAddr() string
	GetCatalogCacheTTL() time.Duration
	IsCacheEnabled() bool
}

// PipelineFileConfig provides the optional pipeline tuning file location.
type PipelineFileConfig interface {
	GetPipelineConfigPath() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	RateLimitRPS         float64
	RateLimitBurst       int
	TextGenAPIKey        string
	TextGenModel         string
	TextGenFallbackModel string
	TextGenMaxAttempts   int
	TextGenBackoff       time.Duration
	CatalogBaseURL       string
	CatalogTimeout       time.Duration
	CatalogRatePerSec    float64
	RedisAddr            string
	CatalogCacheTTL      time.Duration
	PipelineConfigPath   string
}

// Load reads configuration from the environment (and an optional .env file)
// and validates it. The text-generation API key is the single required secret;
// its absence is a fatal configuration error surfaced at startup.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:         mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst:       mustInt(getEnv("RATE_LIMIT_BURST", "20")),
		TextGenAPIKey:        getEnv("GENAI_API_KEY", ""),
		TextGenModel:         getEnv("TEXTGEN_MODEL", "gemini-2.5-flash"),
		TextGenFallbackModel: getEnv("TEXTGEN_FALLBACK_MODEL", "gemini-2.0-flash"),
		TextGenMaxAttempts:   mustInt(getEnv("TEXTGEN_MAX_ATTEMPTS", "3")),
		TextGenBackoff:       mustDuration(getEnv("TEXTGEN_BACKOFF", "500ms")),
		CatalogBaseURL:       strings.TrimRight(getEnv("CATALOG_BASE_URL", ""), "/"),
		CatalogTimeout:       mustDuration(getEnv("CATALOG_TIMEOUT", "10s")),
		CatalogRatePerSec:    mustFloat(getEnv("CATALOG_RATE_PER_SEC", "5")),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		CatalogCacheTTL:      mustDuration(getEnv("CATALOG_CACHE_TTL", "5m")),
		PipelineConfigPath:   getEnv("PIPELINE_CONFIG_PATH", ""),
	}

	if cfg.TextGenAPIKey == "" {
		return nil, fmt.Errorf("GENAI_API_KEY is required")
	}
	if cfg.TextGenMaxAttempts < 1 {
		return nil, fmt.Errorf("TEXTGEN_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

// HTTPConfig implementation
func (c *Config) GetEnv() string           { return c.Env }
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// TextGenConfig implementation
func (c *Config) GetTextGenAPIKey() string         { return c.TextGenAPIKey }
func (c *Config) GetTextGenModel() string          { return c.TextGenModel }
func (c *Config) GetTextGenFallbackModel() string  { return c.TextGenFallbackModel }
func (c *Config) GetTextGenMaxAttempts() int       { return c.TextGenMaxAttempts }
func (c *Config) GetTextGenBackoff() time.Duration { return c.TextGenBackoff }

// CatalogConfig implementation
func (c *Config) GetCatalogBaseURL() string        { return c.CatalogBaseURL }
func (c *Config) GetCatalogTimeout() time.Duration { return c.CatalogTimeout }
func (c *Config) GetCatalogRatePerSec() float64    { return c.CatalogRatePerSec }
func (c *Config) IsCatalogEnabled() bool           { return c.CatalogBaseURL != "" }

// CacheConfig implementation
func (c *Config) GetRedisAddr() string              { return c.RedisAddr }
func (c *Config) GetCatalogCacheTTL() time.Duration { return c.CatalogCacheTTL }
func (c *Config) IsCacheEnabled() bool              { return c.RedisAddr != "" }

// PipelineFileConfig implementation
func (c *Config) GetPipelineConfigPath() string { return c.PipelineConfigPath }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
