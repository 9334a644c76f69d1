package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Cache store backend: "file" or "redis"
	CacheBackend string `mapstructure:"CACHE_BACKEND"`
	CacheDir     string `mapstructure:"CACHE_DIR"`
	RedisURL     string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Static dashboard assets
	StaticDir string `mapstructure:"STATIC_DIR"`

	// Upstream fetching
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	RoundFetchDelay         time.Duration `mapstructure:"ROUND_FETCH_DELAY"`

	// Startup / refresh
	SkipInitialFetch bool   `mapstructure:"SKIP_INITIAL_FETCH"`
	RefreshSchedule  string `mapstructure:"REFRESH_SCHEDULE"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "3001")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("CACHE_BACKEND", "file")
	viper.SetDefault("CACHE_DIR", "./cache")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("STATIC_DIR", "./frontend/dist")
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "60s")
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	viper.SetDefault("ROUND_FETCH_DELAY", "1s") // upstream throttles per-round calls
	viper.SetDefault("SKIP_INITIAL_FETCH", false)
	viper.SetDefault("REFRESH_SCHEDULE", "0 5 * * *") // daily idempotent re-population

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
