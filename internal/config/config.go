// Package config handles environment variable configuration loading.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Default values applied when the corresponding environment variable is unset.
const (
	DefaultTable             = "incident"
	DefaultProvider          = "openai"
	DefaultModel             = "gpt-4o"
	DefaultElasticIndex      = "logs"
	DefaultMaxToolIterations = 10
	DefaultRequestTimeout    = 5 * time.Minute
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// ServiceNow connection settings
	ServiceNowInstance string
	ServiceNowUsername string
	ServiceNowPassword string
	ServiceNowAPIToken string
	ServiceNowTable    string

	// LLM provider settings
	AIProvider        string
	AIModel           string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AnthropicAPIKey   string
	MaxToolIterations int
	RequestTimeout    time.Duration

	// GitHub integration (optional, tools registered only when set)
	GitHubToken       string
	GitHubDefaultUser string

	// Elasticsearch integration (optional, tools registered only when set)
	ElasticURL      string
	ElasticIndex    string
	ElasticAPIKey   string
	ElasticUsername string
	ElasticPassword string

	// Metrics endpoint port; empty disables the metrics server
	MetricsPort string

	LogLevel string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error if required fields are missing.
func Load() (*Config, error) {
	cfg := &Config{
		ServiceNowInstance: os.Getenv("SERVICENOW_INSTANCE"),
		ServiceNowUsername: os.Getenv("SERVICENOW_USERNAME"),
		ServiceNowPassword: os.Getenv("SERVICENOW_PASSWORD"),
		ServiceNowAPIToken: os.Getenv("SERVICENOW_API_TOKEN"),
		ServiceNowTable:    getEnvOrDefault("SERVICENOW_TABLE", DefaultTable),
		AIProvider:         getEnvOrDefault("AI_PROVIDER", DefaultProvider),
		AIModel:            getEnvOrDefault("AI_MODEL", DefaultModel),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"), // optional, Azure or compatible endpoints
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		MaxToolIterations:  getEnvInt("AI_MAX_TOOL_ITERATIONS", DefaultMaxToolIterations),
		RequestTimeout:     getEnvDuration("AI_REQUEST_TIMEOUT", DefaultRequestTimeout),
		GitHubToken:        os.Getenv("GITHUB_TOKEN"),
		GitHubDefaultUser:  os.Getenv("GITHUB_DEFAULT_USER"),
		ElasticURL:         os.Getenv("ELASTICSEARCH_URL"),
		ElasticIndex:       getEnvOrDefault("ELASTICSEARCH_INDEX", DefaultElasticIndex),
		ElasticAPIKey:      os.Getenv("ELASTICSEARCH_API_KEY"),
		ElasticUsername:    os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticPassword:    os.Getenv("ELASTICSEARCH_PASSWORD"),
		MetricsPort:        os.Getenv("METRICS_PORT"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.ServiceNowInstance == "" {
		return errors.New("SERVICENOW_INSTANCE is required")
	}
	if c.ServiceNowAPIToken == "" && (c.ServiceNowUsername == "" || c.ServiceNowPassword == "") {
		return errors.New("SERVICENOW_USERNAME and SERVICENOW_PASSWORD (or SERVICENOW_API_TOKEN) are required")
	}
	switch c.AIProvider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required when AI_PROVIDER is anthropic")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required")
		}
	default:
		return errors.New("AI_PROVIDER must be openai or anthropic")
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable parsed as an int, or the default
// when unset or unparseable.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration returns the environment variable parsed as a duration, or the
// default when unset or unparseable.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
