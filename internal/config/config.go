// Package config loads host configuration from a yaml file, environment
// variables and defaults. The engine itself is configured through explicit
// structs; this package only serves the CLI and server hosts.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the hosts need to assemble an engine.
type Config struct {
	Pacer    PacerConfig    `mapstructure:"pacer"`
	Adapters AdaptersConfig `mapstructure:"adapters"`
	History  HistoryConfig  `mapstructure:"history"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Server   ServerConfig   `mapstructure:"server"`
	LogLevel string         `mapstructure:"log_level"`
}

// PacerConfig controls the delay between successive platform calls.
type PacerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Jitter   float64       `mapstructure:"jitter"`
}

// AdaptersConfig carries per-vendor credentials and transport settings.
type AdaptersConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	Fingerprint string        `mapstructure:"fingerprint"`
	ProxiesFile string        `mapstructure:"proxies_file"`
	GitHubToken string        `mapstructure:"github_token"`
	HunterKey   string        `mapstructure:"hunter_key"`
}

// HistoryConfig enables the optional run archive.
type HistoryConfig struct {
	Driver string `mapstructure:"driver"` // "", "sqlite" or "postgres"
	DSN    string `mapstructure:"dsn"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Port int `mapstructure:"port"` // 0 disables the metrics server
}

// ServerConfig holds HTTP host settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads configuration from the given file (optional), DOSSIER_*
// environment variables and defaults, in ascending precedence of
// defaults < file < env.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("pacer.interval", time.Second)
	v.SetDefault("pacer.jitter", 0.0)
	v.SetDefault("adapters.timeout", 30*time.Second)
	v.SetDefault("adapters.fingerprint", "go")
	v.SetDefault("history.driver", "")
	v.SetDefault("metrics.port", 0)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("DOSSIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.History.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown history driver %q", c.History.Driver)
	}
	if c.History.Driver != "" && c.History.DSN == "" {
		return fmt.Errorf("history driver %q requires a dsn", c.History.Driver)
	}
	if c.Pacer.Jitter < 0 || c.Pacer.Jitter > 1 {
		return fmt.Errorf("pacer jitter must be between 0 and 1, got %v", c.Pacer.Jitter)
	}
	return nil
}
