package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseDatabaseURL              string `mapstructure:"FIREBASE_DATABASE_URL"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	// StorePollInterval is how often the Firebase store adapter polls watched
	// paths; the Admin SDK has no streaming listener.
	StorePollInterval time.Duration `mapstructure:"STORE_POLL_INTERVAL"`

	OSRMEndpoint  string        `mapstructure:"OSRM_ENDPOINT"`
	RouteCacheTTL time.Duration `mapstructure:"ROUTE_CACHE_TTL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	ClientURL string `mapstructure:"CLIENT_URL"`
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("STORE_POLL_INTERVAL", "1s")
	viper.SetDefault("ROUTE_CACHE_TTL", "10m")
	viper.SetDefault("REDIS_DB", 0)

	// Bind environment variables
	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("FIREBASE_DATABASE_URL")
	viper.BindEnv("GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")
	viper.BindEnv("STORE_POLL_INTERVAL")
	viper.BindEnv("OSRM_ENDPOINT")
	viper.BindEnv("ROUTE_CACHE_TTL")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("REDIS_PASSWORD")
	viper.BindEnv("REDIS_DB")
	viper.BindEnv("CLIENT_URL")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	// Validate required fields
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.FirebaseDatabaseURL == "" {
		return nil, errors.New("FIREBASE_DATABASE_URL is required")
	}
	if cfg.OSRMEndpoint == "" {
		return nil, errors.New("OSRM_ENDPOINT is required")
	}
	if cfg.StorePollInterval <= 0 {
		return nil, errors.New("STORE_POLL_INTERVAL must be positive")
	}

	return &cfg, nil
}
