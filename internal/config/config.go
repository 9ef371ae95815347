package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig              `yaml:"site"`
	Home    HomeConfig              `yaml:"home"`
	Build   BuildConfig             `yaml:"build"`
	Serve   ServeConfig             `yaml:"serve"`
	Pages   map[string]PageOverride `yaml:"pages,omitempty"`
	History HistoryConfig           `yaml:"history,omitempty"`
	Events  EventsConfig            `yaml:"events,omitempty"`
	Metrics MetricsConfig           `yaml:"metrics,omitempty"`
}

// SiteConfig carries presentational site-wide values handed to templates.
type SiteConfig struct {
	Title            string `yaml:"title,omitempty"`
	Tagline          string `yaml:"tagline,omitempty"`
	SecondaryTagline string `yaml:"secondary_tagline,omitempty"`
	SmallTag         string `yaml:"small_tag,omitempty"`
}

// HomeConfig controls the rendered home page.
type HomeConfig struct {
	Hero            bool      `yaml:"hero"`
	PrimaryAction   *Link     `yaml:"primary_action,omitempty"`
	SecondaryAction *Link     `yaml:"secondary_action,omitempty"`
	Features        []Feature `yaml:"features,omitempty"`
}

// Link is a text/href pair used for home page actions.
type Link struct {
	Text string `yaml:"text"`
	Link string `yaml:"link"`
}

// Feature is one home page feature card.
type Feature struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// BuildConfig holds the immutable build parameters consumed by the scanner
// and renderer.
type BuildConfig struct {
	Source string `yaml:"source,omitempty"`
	Output string `yaml:"output,omitempty"`
	Theme  string `yaml:"theme,omitempty"` // optional theme dir overriding embedded templates
}

// ServeConfig holds dev server parameters.
type ServeConfig struct {
	Host         string `yaml:"host,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	Open         bool   `yaml:"open,omitempty"`
	RebuildEvery string `yaml:"rebuild_every,omitempty"` // Go duration string; empty disables scheduled rebuilds
}

// RebuildInterval parses RebuildEvery. Zero means scheduled rebuilds are disabled.
func (s ServeConfig) RebuildInterval() (time.Duration, error) {
	if s.RebuildEvery == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.RebuildEvery)
	if err != nil {
		return 0, fmt.Errorf("invalid serve.rebuild_every: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid serve.rebuild_every: negative duration %s", s.RebuildEvery)
	}
	return d, nil
}

// PageOverride carries per-page title/tagline overrides keyed by source path.
// Overrides always win over values extracted from content.
type PageOverride struct {
	Title   string `yaml:"title,omitempty"`
	Tagline string `yaml:"tagline,omitempty"`
}

// HistoryConfig enables the SQLite build history store when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// EventsConfig enables NATS build event publishing when URL is set.
type EventsConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig toggles the Prometheus /metrics endpoint on the dev server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
}

// Load loads configuration from the specified file.
// Cascade: defaults < config file < SITEGEN_* environment < CLI flags
// (flags are applied by the command layer after Load returns).
func Load(configPath string) (*Config, error) {
	// Load .env files if present; never override already-set process env.
	loadEnvFiles()

	cfg := Defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if os.IsNotExist(err) {
				// Missing config file is fine; defaults + env carry the build.
				applyEnvOverrides(cfg)
				return cfg, nil
			}
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// Expand environment variables in the YAML content before unmarshal.
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// MustLoad is Load for contexts where a broken config is unrecoverable (tests, init).
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

// TitleOverride returns the configured title override for a source path, if any.
func (c *Config) TitleOverride(sourcePath string) (string, bool) {
	if c == nil || c.Pages == nil {
		return "", false
	}
	ov, ok := c.Pages[sourcePath]
	if !ok || ov.Title == "" {
		return "", false
	}
	return ov.Title, true
}

// TaglineOverride returns the configured tagline override for a source path, if any.
func (c *Config) TaglineOverride(sourcePath string) (string, bool) {
	if c == nil || c.Pages == nil {
		return "", false
	}
	ov, ok := c.Pages[sourcePath]
	if !ok || ov.Tagline == "" {
		return "", false
	}
	return ov.Tagline, true
}
