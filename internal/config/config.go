// Package config loads the dashboard configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. DASHBOARD_SERVER_PORT.
const EnvPrefix = "DASHBOARD"

type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type GitHubConfig struct {
	Token              string        `mapstructure:"token"`
	BaseURL            string        `mapstructure:"base_url"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	StatsRetries       int           `mapstructure:"stats_retries"`
	StatsRetryInterval time.Duration `mapstructure:"stats_retry_interval"`
	SecondaryLimitWait time.Duration `mapstructure:"secondary_limit_wait"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from defaults, an optional .env file, an optional YAML
// file at configPath and the environment, in increasing order of precedence.
// GITHUB_TOKEN is honoured when DASHBOARD_GITHUB_TOKEN is not set.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github.token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github token env: %w", err)
	}

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.token", "")
	v.SetDefault("github.base_url", "")
	v.SetDefault("github.request_timeout", "30s")
	v.SetDefault("github.stats_retries", 3)
	v.SetDefault("github.stats_retry_interval", "2s")
	v.SetDefault("github.secondary_limit_wait", "1m")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive")
	}

	if c.GitHub.RequestTimeout <= 0 {
		return fmt.Errorf("github request timeout must be positive")
	}
	if c.GitHub.StatsRetries < 0 {
		return fmt.Errorf("github stats retries must not be negative: %d", c.GitHub.StatsRetries)
	}
	if c.GitHub.StatsRetryInterval < 0 {
		return fmt.Errorf("github stats retry interval must not be negative")
	}
	if c.GitHub.SecondaryLimitWait < 0 {
		return fmt.Errorf("github secondary limit wait must not be negative")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}

	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// HasToken reports whether a GitHub token is configured.
func (c *Config) HasToken() bool {
	return strings.TrimSpace(c.GitHub.Token) != ""
}
