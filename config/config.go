package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	Env     string `mapstructure:"ENV"`

	// Booking provider (ParkWhiz) credentials and endpoints.
	ParkWhizBaseURL      string `mapstructure:"PARKWHIZ_BASE_URL"`
	ParkWhizTokenURL     string `mapstructure:"PARKWHIZ_TOKEN_URL"`
	ParkWhizClientID     string `mapstructure:"PARKWHIZ_CLIENT_ID"`
	ParkWhizClientSecret string `mapstructure:"PARKWHIZ_CLIENT_SECRET"`

	// Gemini API key for LLM extraction and decision fallback.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Webhook signature secret shared with the ticketing system.
	WebhookSecret string `mapstructure:"WEBHOOK_SECRET"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// MongoDB for decision audit records.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	PolicyCacheTTLMin int `mapstructure:"POLICY_CACHE_TTL_MIN"`
	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("PARKWHIZ_BASE_URL", "https://api.parkwhiz.com/v4")
	viper.SetDefault("PARKWHIZ_TOKEN_URL", "https://api.parkwhiz.com/v4/oauth/token")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("POLICY_CACHE_TTL_MIN", 5)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
