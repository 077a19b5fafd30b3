package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Email     EmailConfig     `yaml:"email"`
	Log       LogConfig       `yaml:"log"`
	Policy    PolicyConfig    `yaml:"policy"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig contains snapshot store settings
type StoreConfig struct {
	Dir string `yaml:"dir"`
}

// EmailConfig contains notification delivery settings
type EmailConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PolicyConfig contains booking and maintenance policy knobs
type PolicyConfig struct {
	// BufferDays is the mandatory service gap between two different
	// customers' bookings of the same vehicle.
	BufferDays int `yaml:"buffer_days"`
	// LatePenaltyAmount is the flat per-day charge past the agreed end
	// date, as a decimal string. LatePenalty is the parsed value.
	LatePenaltyAmount string          `yaml:"late_penalty"`
	LatePenalty       decimal.Decimal `yaml:"-"`
	// CriticalSeverity is the open-issue severity that forces a vehicle
	// into maintenance.
	CriticalSeverity int `yaml:"critical_severity"`
	// AdminAlertSeverity is the reported severity that broadcasts to all
	// admin accounts.
	AdminAlertSeverity int `yaml:"admin_alert_severity"`
	// DueReminderDays is how many days before the end date the due
	// reminder goes out.
	DueReminderDays int `yaml:"due_reminder_days"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendDueReminders     string `yaml:"send_due_reminders"`
	SendOverdueReminders string `yaml:"send_overdue_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("STORE_DIR"); val != "" {
		c.Store.Dir = val
	}

	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
		c.Email.Enabled = true
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills policy defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Store.Dir == "" {
		return fmt.Errorf("store directory is required")
	}

	if c.Email.Enabled {
		if c.Email.APIKey == "" {
			return fmt.Errorf("email API key is required when email is enabled")
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("email from address is required when email is enabled")
		}
	}

	// Policy defaults
	if c.Policy.BufferDays == 0 {
		c.Policy.BufferDays = 2
	}
	if c.Policy.LatePenaltyAmount != "" {
		penalty, err := decimal.NewFromString(c.Policy.LatePenaltyAmount)
		if err != nil || penalty.IsNegative() {
			return fmt.Errorf("invalid late penalty: %q", c.Policy.LatePenaltyAmount)
		}
		c.Policy.LatePenalty = penalty
	}
	if c.Policy.LatePenalty.IsZero() {
		c.Policy.LatePenalty = decimal.NewFromInt(50)
	}
	if c.Policy.CriticalSeverity == 0 {
		c.Policy.CriticalSeverity = 3
	}
	if c.Policy.AdminAlertSeverity == 0 {
		c.Policy.AdminAlertSeverity = 4
	}
	if c.Policy.DueReminderDays == 0 {
		c.Policy.DueReminderDays = 1
	}

	// Scheduler defaults
	if c.Scheduler.SendDueReminders == "" {
		c.Scheduler.SendDueReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.SendOverdueReminders == "" {
		c.Scheduler.SendOverdueReminders = "0 0 9 * * *" // 9 AM UTC
	}

	return nil
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
