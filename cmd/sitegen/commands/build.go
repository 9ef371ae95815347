package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/build"
)

// BuildCmd runs one full build and exits.
type BuildCmd struct {
	SourceFlags
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, &b.SourceFlags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := resolveSource(ctx, cfg, &b.SourceFlags); err != nil {
		return err
	}

	collab := newCollaborators(cfg)
	defer collab.Close()

	report, err := build.New(cfg, collab.opts...).Run(ctx)
	fmt.Println(report.Summary())
	return err
}
