package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultSuffix is appended to bare names during normalization.
const DefaultSuffix = ".co.ke"

// allowedSuffixes is the single authoritative list of .ke zones the platform
// registers. Order matters: candidate expansion emits suffixes in this order.
var allowedSuffixes = []string{
	".co.ke",
	".ke",
	".or.ke",
	".ac.ke",
	".sc.ke",
	".go.ke",
	".me.ke",
}

// AllowedSuffixes returns a copy of the supported .ke suffix list.
func AllowedSuffixes() []string {
	out := make([]string, len(allowedSuffixes))
	copy(out, allowedSuffixes)
	return out
}

type Config struct {
	ServerPort  string
	DatabaseURL string
	AdminToken  string
	LogLevel    string

	WhoisHost           string
	WhoisPort           int
	WhoisTimeoutSeconds int
	WhoisRetryCount     int
	WhoisRetryBackoff   string
	WhoisCacheTTLMins   string

	SuggestionConcurrency int
	SuggestionMax         int
	PricingSyncHours      string

	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	CohereAPIKey    string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		WhoisHost:           getEnv("WHOIS_HOST", "whois.kenic.or.ke"),
		WhoisPort:           getEnvInt("WHOIS_PORT", 43),
		WhoisTimeoutSeconds: getEnvInt("WHOIS_TIMEOUT_SECONDS", 10),
		WhoisRetryCount:     getEnvInt("WHOIS_RETRY_COUNT", 3),
		WhoisRetryBackoff:   getEnv("WHOIS_RETRY_BACKOFF_SECONDS", "2"),
		WhoisCacheTTLMins:   getEnv("WHOIS_CACHE_TTL_MINUTES", "60"),

		SuggestionConcurrency: getEnvInt("SUGGESTION_CONCURRENCY", 5),
		SuggestionMax:         getEnvInt("SUGGESTION_MAX", 5),
		PricingSyncHours:      getEnv("PRICING_SYNC_HOURS", "24"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		CohereAPIKey:    getEnv("COHERE_API_KEY", ""),
	}
}

// WhoisAddr returns the host:port dial target for the WHOIS server.
func (c *Config) WhoisAddr() string {
	return fmt.Sprintf("%s:%d", c.WhoisHost, c.WhoisPort)
}

// GetWhoisTimeout returns the per-connection WHOIS timeout.
func (c *Config) GetWhoisTimeout() time.Duration {
	if c.WhoisTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.WhoisTimeoutSeconds) * time.Second
}

// GetWhoisRetryBackoff returns the fixed delay between WHOIS retry attempts.
func (c *Config) GetWhoisRetryBackoff() time.Duration {
	secs, err := strconv.Atoi(c.WhoisRetryBackoff)
	if err != nil || secs < 0 {
		logrus.Warnf("Invalid WHOIS_RETRY_BACKOFF_SECONDS value: %s, using default 2 seconds", c.WhoisRetryBackoff)
		return 2 * time.Second
	}
	return time.Duration(secs) * time.Second
}

// GetWhoisCacheTTL returns how long raw WHOIS responses stay cached.
func (c *Config) GetWhoisCacheTTL() time.Duration {
	mins, err := strconv.Atoi(c.WhoisCacheTTLMins)
	if err != nil || mins <= 0 {
		logrus.Warnf("Invalid WHOIS_CACHE_TTL_MINUTES value: %s, using default 60 minutes", c.WhoisCacheTTLMins)
		return time.Hour
	}
	return time.Duration(mins) * time.Minute
}

// GetPricingSyncInterval returns how often the registrar pricing sync job runs.
func (c *Config) GetPricingSyncInterval() time.Duration {
	hours, err := strconv.Atoi(c.PricingSyncHours)
	if err != nil || hours <= 0 {
		logrus.Warnf("Invalid PRICING_SYNC_HOURS value: %s, using default 24 hours", c.PricingSyncHours)
		return 24 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("Invalid %s value: %s, using default %d", key, value, fallback)
		return fallback
	}
	return n
}
