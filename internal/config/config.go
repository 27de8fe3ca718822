package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	ServerAddr       string `mapstructure:"SERVER_ADDR"`
	LogMode          string `mapstructure:"LOG_MODE"`
	IOSFeedURL       string `mapstructure:"IOS_FEED_URL"`
	AndroidFeedURL   string `mapstructure:"ANDROID_FEED_URL"`
	FeedFetchTimeout int    `mapstructure:"FEED_FETCH_TIMEOUT"` // seconds
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("LOG_MODE", "dev")
	viper.SetDefault("IOS_FEED_URL", "https://wizz-technical-test-dev.s3.eu-west-3.amazonaws.com/ios.top100.json")
	viper.SetDefault("ANDROID_FEED_URL", "https://wizz-technical-test-dev.s3.eu-west-3.amazonaws.com/android.top100.json")
	viper.SetDefault("FEED_FETCH_TIMEOUT", 15)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
