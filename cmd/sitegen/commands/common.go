// Package commands defines the sitegen CLI surface.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/events"
	"git.home.luguber.info/inful/sitegen/internal/gitsource"
	"git.home.luguber.info/inful/sitegen/internal/history"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI defines the root command and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitegen.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the site once and exit"`
	Serve ServeCmd `cmd:"" help:"Build and serve the site with live reload"`
	Scan  ScanCmd  `cmd:"" help:"Scan the source tree and print the site model without rendering"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// SourceFlags are the build-input flags shared by build and serve.
type SourceFlags struct {
	Source string `short:"s" help:"Source directory containing the Markdown tree"`
	Output string `short:"o" help:"Output directory for the generated site"`
	Theme  string `help:"Theme directory overriding the embedded templates"`
	Repo   string `help:"Git repository URL to build from instead of a local directory"`
	Branch string `help:"Branch to check out when --repo is used"`
	Update bool   `help:"Pull an existing cached checkout instead of recloning"`
}

// loadConfig loads the configuration file and applies CLI flag overrides,
// which always win over file and environment values.
func loadConfig(root *CLI, flags *SourceFlags) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if flags != nil {
		if flags.Source != "" {
			cfg.Build.Source = flags.Source
		}
		if flags.Output != "" {
			cfg.Build.Output = flags.Output
		}
		if flags.Theme != "" {
			cfg.Build.Theme = flags.Theme
		}
	}
	return cfg, nil
}

// collaborators are the optional build-time services wired from config.
// Failures degrade to a warning: a build never fails because its history
// store or event broker is unavailable.
type collaborators struct {
	opts    []build.Option
	history *history.Store
	cleanup []func()
}

func newCollaborators(cfg *config.Config) *collaborators {
	c := &collaborators{}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("Build history disabled", logfields.Path(cfg.History.Path), logfields.Error(err))
		} else {
			c.history = store
			c.opts = append(c.opts, build.WithHistory(store))
			c.cleanup = append(c.cleanup, func() { _ = store.Close() })
		}
	}

	if cfg.Events.URL != "" {
		pub, err := events.Connect(cfg.Events)
		if err != nil {
			slog.Warn("Build events disabled", logfields.URL(cfg.Events.URL), logfields.Error(err))
		} else {
			c.opts = append(c.opts, build.WithEvents(pub))
			c.cleanup = append(c.cleanup, pub.Close)
		}
	}

	return c
}

func (c *collaborators) Close() {
	for _, fn := range c.cleanup {
		fn()
	}
}

// resolveSource swaps the configured source for a cached git checkout when
// --repo is given.
func resolveSource(ctx context.Context, cfg *config.Config, flags *SourceFlags) error {
	if flags == nil || flags.Repo == "" {
		return nil
	}
	client := gitsource.NewClient(gitsource.DefaultCacheDir())
	path, err := client.Fetch(ctx, flags.Repo, flags.Branch, flags.Update)
	if err != nil {
		return fmt.Errorf("fetch source repository: %w", err)
	}
	cfg.Build.Source = path
	return nil
}
