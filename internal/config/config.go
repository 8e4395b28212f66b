package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config holds the configuration for the Khatabook server.
type Config struct {
	// Listen is the address the server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// LogLevel is the log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// SessionKey is the key used to authenticate session cookies.
	// It must come from the config file or environment, never hard-coded.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Report holds the PDF report configuration.
	Report *ReportConfig `yaml:"report" mapstructure:"report"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the directory where the sqlite database file is stored.
	Path string `yaml:"path" mapstructure:"path"`
}

// ReportConfig holds the PDF report configuration.
type ReportConfig struct {
	// Title is the heading printed at the top of the report.
	Title string `yaml:"title" mapstructure:"title"`
	// Currency is the symbol prefixed to monetary cells.
	Currency string `yaml:"currency" mapstructure:"currency"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will search default locations for a config file.
// Environment variables with the KHATABOOK_ prefix override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("KHATABOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.khatabook")
		v.AddConfigPath("/etc/khatabook")
	}

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults plus env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:8080")
	v.SetDefault("log_level", "info")
	// Registered with an empty default so KHATABOOK_SESSION_KEY is
	// visible to Unmarshal even without a config file.
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 172800) // 48 hours

	v.SetDefault("database.path", "./data")

	v.SetDefault("report.title", "Netlink Report")
	v.SetDefault("report.currency", "₹")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing config")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.SessionKey == "" {
		return fmt.Errorf("session key is required (set session_key or KHATABOOK_SESSION_KEY)")
	}
	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Report == nil || c.Report.Currency == "" {
		return fmt.Errorf("report currency symbol is required")
	}
	return nil
}
