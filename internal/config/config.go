// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type TwilioConfig struct {
	// All three are loaded from the environment, never from yaml.
	AccountSID string `yaml:"-"`
	AuthToken  string `yaml:"-"`
	FromNumber string `yaml:"-"`
}

type EmailConfig struct {
	Region string `yaml:"region"`
	Sender string `yaml:"sender"`
	// Credentials are loaded from the environment.
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type RemindersConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Cron       string `yaml:"cron"`
	DaysBefore int    `yaml:"days_before"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		// BaseURL is the public URL prefix used when composing shareable
		// availability links.
		BaseURL string `yaml:"base_url"`
	} `yaml:"app"`

	Auth struct {
		// Bcrypt hash of the captain password, from CAPTAIN_PASSWORD_HASH.
		CaptainPasswordHash string `yaml:"-"`
	} `yaml:"auth"`

	Database  DatabaseConfig  `yaml:"database"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Email     EmailConfig     `yaml:"email"`
	Reminders RemindersConfig `yaml:"reminders"`

	Availability struct {
		// TokenTTLDays bounds how long a personal availability link stays valid.
		TokenTTLDays int `yaml:"token_ttl_days"`
	} `yaml:"availability"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Sensitive values come from the environment only.
	cfg.Auth.CaptainPasswordHash = os.Getenv("CAPTAIN_PASSWORD_HASH")
	cfg.Twilio.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.Twilio.FromNumber = os.Getenv("TWILIO_FROM_NUMBER")
	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	if cfg.Availability.TokenTTLDays == 0 {
		cfg.Availability.TokenTTLDays = 14
	}
	if cfg.Reminders.DaysBefore == 0 {
		cfg.Reminders.DaysBefore = 3
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Reminders.Enabled && c.Reminders.Cron == "" {
		return fmt.Errorf("reminders cron expression is required when reminders are enabled")
	}

	return nil
}

// TwilioConfigured reports whether all Twilio credentials are present.
func (c *Config) TwilioConfigured() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.FromNumber != ""
}

// EmailConfigured reports whether SES credentials and sender are present.
func (c *Config) EmailConfigured() bool {
	return c.Email.AccessKeyID != "" && c.Email.SecretAccessKey != "" &&
		c.Email.Region != "" && c.Email.Sender != ""
}
