package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Oracle      OracleConfig
	Matching    MatchingConfig
	Preferences PreferencesConfig
	Cache       CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OracleConfig holds the adjudication API configuration. An empty API key
// is valid and switches matching to the local fallback oracle.
type OracleConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// MatchingConfig holds match acceptance configuration
type MatchingConfig struct {
	ConfidenceThreshold int `mapstructure:"confidence_threshold"`
}

// PreferencesConfig holds the brand preference table location
type PreferencesConfig struct {
	TablePath string `mapstructure:"table_path"`
}

// CacheConfig holds normalization cache configuration
type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shelfmatch/")

	// Environment variable settings
	v.SetEnvPrefix("SHELFMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Oracle defaults
	v.SetDefault("oracle.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("oracle.model", "google/gemini-2.5-flash-lite")
	v.SetDefault("oracle.requests_per_second", 2.0)
	v.SetDefault("oracle.burst", 4)
	v.SetDefault("oracle.timeout", "60s")

	// Matching defaults
	v.SetDefault("matching.confidence_threshold", 60)

	// Cache defaults
	v.SetDefault("cache.size", 4096)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Matching.ConfidenceThreshold < 50 || config.Matching.ConfidenceThreshold > 70 {
		return fmt.Errorf("confidence threshold must be between 50 and 70, got: %d", config.Matching.ConfidenceThreshold)
	}

	if config.Cache.Size <= 0 {
		return fmt.Errorf("cache size must be positive, got: %d", config.Cache.Size)
	}

	if config.Oracle.RequestsPerSecond <= 0 {
		return fmt.Errorf("oracle requests per second must be positive, got: %g", config.Oracle.RequestsPerSecond)
	}

	return nil
}
