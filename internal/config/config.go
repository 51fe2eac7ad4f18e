// Package config loads Weightress settings from an optional YAML file,
// a .env file and WEIGHTRESS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "WEIGHTRESS"

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ServerConfig controls the HTTP listener and the optional static web directory.
type ServerConfig struct {
	Addr   string `mapstructure:"addr"`
	WebDir string `mapstructure:"web_dir"`
}

// DatabaseConfig selects the record store. Path is used by sqlite, URL by postgres.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	URL    string `mapstructure:"url"`
}

// PrefsConfig locates the encrypted preferences file and its secret.
type PrefsConfig struct {
	Path   string `mapstructure:"path"`
	Secret string `mapstructure:"secret"`
}

// ReminderConfig controls the periodic reminder.
type ReminderConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// OIDCConfig configures single sign-on. Only AllowedEmail may log in through it.
type OIDCConfig struct {
	Issuer       string `mapstructure:"issuer"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	AllowedEmail string `mapstructure:"allowed_email"`
}

// Enabled reports whether enough is configured to offer SSO.
func (o OIDCConfig) Enabled() bool {
	return o.Issuer != "" && o.ClientID != "" && o.RedirectURL != ""
}

// AuthConfig controls owner authentication and session lifetime.
type AuthConfig struct {
	Disabled   bool          `mapstructure:"disabled"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	OIDC       OIDCConfig    `mapstructure:"oidc"`
}

// LogConfig selects the slog level and handler format (text or json).
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Prefs    PrefsConfig    `mapstructure:"prefs"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

var defaults = map[string]any{
	"server.addr":             ":8080",
	"server.web_dir":          "",
	"database.driver":         DriverSQLite,
	"database.path":           "weightress.db",
	"database.url":            "",
	"prefs.path":              "weightress-prefs.db",
	"prefs.secret":            "",
	"reminder.enabled":        true,
	"reminder.interval":       "20m",
	"auth.disabled":           false,
	"auth.session_ttl":        "24h",
	"auth.oidc.issuer":        "",
	"auth.oidc.client_id":     "",
	"auth.oidc.client_secret": "",
	"auth.oidc.redirect_url":  "",
	"auth.oidc.allowed_email": "",
	"log.level":               "info",
	"log.format":              "text",
}

// Load reads configuration. When path is empty a weightress.yaml in the
// working directory is used if present. Environment variables win over the
// file, e.g. WEIGHTRESS_SERVER_ADDR=:9000.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", envPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path == "" {
		v.SetConfigName("weightress")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url (or DATABASE_URL) is required for postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("reminder.interval must be positive, got %s", c.Reminder.Interval)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive, got %s", c.Auth.SessionTTL)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// ValidateServe checks the settings the server needs on top of Validate.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Prefs.Secret == "" {
		return errors.New("prefs.secret is required (set WEIGHTRESS_PREFS_SECRET)")
	}
	if c.Prefs.Path == "" {
		return errors.New("prefs.path is required")
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("unknown log.level %q", l.Level)
	}
	return lvl, nil
}
