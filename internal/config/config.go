package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Dispatch DispatchConfig
	Twilio   TwilioConfig
	SMTP     SMTPConfig
	Feed     FeedConfig
	DB       DatabaseConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DispatchConfig struct {
	Workers        int
	AttemptTimeout time.Duration
}

// TwilioConfig carries the SMS channel credentials. All three values must be
// present for the channel to be configured.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Missing returns the names of the unset Twilio env vars.
func (c TwilioConfig) Missing() []string {
	var missing []string
	if c.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.FromNumber == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	return missing
}

// SMTPConfig carries the email channel credentials, all-or-nothing like Twilio.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Missing returns the names of the unset SMTP env vars.
func (c SMTPConfig) Missing() []string {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.From == "" {
		missing = append(missing, "FROM_EMAIL")
	}
	if c.Username == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.Password == "" {
		missing = append(missing, "SMTP_PASS")
	}
	return missing
}

type FeedConfig struct {
	Enabled      bool
	URL          string
	PollInterval time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Dispatch: DispatchConfig{
			Workers:        getEnvInt("DISPATCH_WORKERS", 8),
			AttemptTimeout: getEnvDuration("DISPATCH_ATTEMPT_TIMEOUT", 15*time.Second),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 465),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("FROM_EMAIL", ""),
		},
		Feed: FeedConfig{
			Enabled:      getEnvBool("FEED_ENABLED", false),
			URL:          getEnv("FEED_URL", ""),
			PollInterval: getEnvDuration("FEED_POLL_INTERVAL", 5*time.Minute),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/alert-relay.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("dispatch workers must be at least 1, got %d", c.Dispatch.Workers)
	}
	if c.Dispatch.AttemptTimeout < time.Second {
		return fmt.Errorf("dispatch attempt timeout must be at least 1s")
	}

	if c.SMTP.From != "" && !strings.ContainsRune(c.SMTP.From, '@') {
		return fmt.Errorf("invalid from email address: %q", c.SMTP.From)
	}

	if c.Feed.Enabled {
		if c.Feed.URL == "" {
			return fmt.Errorf("FEED_URL is required when the feed is enabled")
		}
		if c.Feed.PollInterval < time.Minute {
			return fmt.Errorf("feed poll interval must be at least 1 minute")
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
