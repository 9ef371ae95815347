package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/cmd/sitegen/commands"
)

// version is stamped at release time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("sitegen"),
		kong.Description("Static site generator for Markdown documentation trees."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	global := &commands.Global{Logger: slog.Default()}
	ctx.FatalIfErrorf(ctx.Run(global, &cli))
}
