// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Slack       SlackConfig
	Sweeper     SweeperConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type SlackConfig struct {
	BotToken    string // xoxb- token for the Web API
	AppToken    string // xapp- token for Socket Mode
	ChannelID   string // fixed notification destination
	SendTimeout time.Duration
}

type SweeperConfig struct {
	Enabled   bool
	Interval  time.Duration
	Grace     time.Duration
	BatchSize int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "shopwatch"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Slack: SlackConfig{
			BotToken:    getEnv("SLACK_BOT_TOKEN", ""),
			AppToken:    getEnv("SLACK_APP_TOKEN", ""),
			ChannelID:   getEnv("SLACK_CHANNEL_ID", ""),
			SendTimeout: getEnvAsDuration("SLACK_SEND_TIMEOUT", 10*time.Second),
		},
		Sweeper: SweeperConfig{
			Enabled:   getEnvAsBool("SWEEPER_ENABLED", true),
			Interval:  getEnvAsDuration("SWEEPER_INTERVAL", 5*time.Minute),
			Grace:     getEnvAsDuration("SWEEPER_GRACE", 10*time.Minute),
			BatchSize: getEnvAsInt("SWEEPER_BATCH_SIZE", 25),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.Slack.BotToken == "" || c.Slack.AppToken == "" {
			return fmt.Errorf("slack bot and app tokens are required in production")
		}
		if c.Slack.ChannelID == "" {
			return fmt.Errorf("slack channel ID is required in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database password is required in production")
		}
	}

	if c.Slack.BotToken != "" && !strings.HasPrefix(c.Slack.BotToken, "xoxb-") {
		return fmt.Errorf("SLACK_BOT_TOKEN must be a bot (xoxb-) token")
	}
	if c.Slack.AppToken != "" && !strings.HasPrefix(c.Slack.AppToken, "xapp-") {
		return fmt.Errorf("SLACK_APP_TOKEN must be an app-level (xapp-) token")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
