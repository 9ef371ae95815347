package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/scan"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// ScanCmd scans and classifies the source tree, printing the resulting site
// model without rendering anything.
type ScanCmd struct {
	Source string `short:"s" help:"Source directory containing the Markdown tree"`
}

func (s *ScanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, &SourceFlags{Source: s.Source})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := scan.NewScanner(cfg.Build.Source, cfg, markdown.NewEngine()).Scan(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tSOURCE\tURL\tTITLE")
	for _, p := range model.Pages {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Type, p.SourcePath, p.URL, p.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, c := range model.Collections {
		fmt.Printf("collection %s: %d pages, %d nested", c.Path, len(c.Pages), len(c.Collections))
		if c.IndexPage != "" {
			fmt.Printf(", index %s", c.IndexPage)
		}
		fmt.Println()
	}

	fmt.Printf("%d pages, %d collections, %d navigation nodes, manifest %s\n",
		len(model.Pages), len(model.Collections), site.CountNodes(model.Nav), site.ManifestHash(model))
	return nil
}
