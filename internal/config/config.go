package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/caresync/caresync/internal/errors"
)

// Config holds client configuration loaded from file, environment, and defaults.
type Config struct {
	// APIURL is the base URL of the portal REST API
	APIURL string `mapstructure:"api_url"`

	// Timeout is the HTTP timeout for gateway requests
	Timeout time.Duration `mapstructure:"timeout"`

	// StateDir is where the client persists session state
	StateDir string `mapstructure:"state_dir"`

	// EncryptState enables at-rest encryption of persisted state
	EncryptState bool `mapstructure:"encrypt_state"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is one of text, json
	LogFormat string `mapstructure:"log_format"`
}

// Load reads configuration from $HOME/.caresync/config.yaml (if present),
// environment variables prefixed with CARESYNC_, and built-in defaults.
func Load() (*Config, error) {
	return load("")
}

// LoadFrom reads configuration from an explicit file path.
func LoadFrom(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaultDir := filepath.Join(home, ".caresync")

	v.SetDefault("api_url", "http://localhost:4000/api")
	v.SetDefault("timeout", "30s")
	v.SetDefault("state_dir", defaultDir)
	v.SetDefault("encrypt_state", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("CARESYNC")
	v.AutomaticEnv()
	v.BindEnv("api_url")
	v.BindEnv("timeout")
	v.BindEnv("state_dir")
	v.BindEnv("encrypt_state")
	v.BindEnv("log_level")
	v.BindEnv("log_format")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigNotFound, "could not read config file", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultDir)
		// Missing config file is fine; defaults and env carry the client.
		_ = v.ReadInConfig()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "could not parse configuration", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration for values the client cannot run with.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.NewConfigInvalidError("api_url must not be empty")
	}
	if c.Timeout <= 0 {
		return errors.NewConfigInvalidError("timeout must be positive")
	}
	if c.StateDir == "" {
		return errors.NewConfigInvalidError("state_dir must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return errors.NewConfigInvalidError("log_level must be one of debug, info, warn, error")
	}
	switch c.LogFormat {
	case "text", "json", "":
	default:
		return errors.NewConfigInvalidError("log_format must be text or json")
	}
	return nil
}
