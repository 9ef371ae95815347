package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// InitCmd writes an example configuration file.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.WriteExample(root.Config, i.Force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", root.Config)
	return nil
}
