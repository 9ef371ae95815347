package config

import (
	"os"
	"strconv"
	"time"
)

// Default values applied when neither config file nor environment provide one.
const (
	DefaultSiteTitle   = "Project Site"
	DefaultSiteTagline = "Documentation generated from your Markdown tree"
	DefaultSource      = "./site"
	DefaultOutput      = "./out"
	DefaultTheme       = ""
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 3000
	DefaultSubject     = "sitegen.builds"
)

// Defaults returns a fully-defaulted configuration.
func Defaults() *Config {
	cfg := &Config{
		Home: HomeConfig{Hero: true},
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills zero-valued fields after unmarshal.
func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	if cfg.Site.Tagline == "" {
		cfg.Site.Tagline = DefaultSiteTagline
	}
	if cfg.Build.Source == "" {
		cfg.Build.Source = DefaultSource
	}
	if cfg.Build.Output == "" {
		cfg.Build.Output = DefaultOutput
	}
	if cfg.Serve.Host == "" {
		cfg.Serve.Host = DefaultHost
	}
	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = DefaultPort
	}
	if cfg.Events.URL != "" && cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultSubject
	}
}

// applyEnvOverrides applies SITEGEN_* environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SITEGEN_SOURCE"); v != "" {
		cfg.Build.Source = v
	}
	if v := os.Getenv("SITEGEN_OUTPUT"); v != "" {
		cfg.Build.Output = v
	}
	if v := os.Getenv("SITEGEN_THEME"); v != "" {
		cfg.Build.Theme = v
	}
	if v := os.Getenv("SITEGEN_HOST"); v != "" {
		cfg.Serve.Host = v
	}
	if v := os.Getenv("SITEGEN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Serve.Port = port
		}
	}
	if v := os.Getenv("SITEGEN_REBUILD_EVERY"); v != "" {
		if _, err := time.ParseDuration(v); err == nil {
			cfg.Serve.RebuildEvery = v
		}
	}
	if v := os.Getenv("SITEGEN_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("SITEGEN_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
		if cfg.Events.Subject == "" {
			cfg.Events.Subject = DefaultSubject
		}
	}
	if v := os.Getenv("SITEGEN_EVENTS_SUBJECT"); v != "" {
		cfg.Events.Subject = v
	}
	if v := os.Getenv("SITEGEN_METRICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}
