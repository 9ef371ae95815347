package config

import (
	"fmt"
	"os"
)

// exampleConfig is written by `sitegen init`. Kept in sync with the
// struct tags above; comments document the cascade.
const exampleConfig = `# sitegen configuration
# Precedence: CLI flags > SITEGEN_* environment > this file > defaults.

site:
  title: "Project Site"
  tagline: "Documentation generated from your Markdown tree"
  # secondary_tagline: ""
  # small_tag: "v1.0"

home:
  hero: true
  # primary_action:
  #   text: "Get Started"
  #   link: "installation.html"
  # secondary_action:
  #   text: "View Source"
  #   link: "https://example.com/repo"
  # features:
  #   - title: "Fast"
  #     description: "Builds your site in milliseconds."

build:
  source: ./site
  output: ./out
  # theme: ./theme   # overrides the embedded default theme per file

serve:
  host: 127.0.0.1
  port: 3000
  # open: true
  # rebuild_every: 5m   # periodic full rebuild for out-of-band source changes

# Per-page overrides keyed by source path. Overrides always win over
# values extracted from content.
# pages:
#   README.md:
#     title: "My Project"
#     tagline: "One-line pitch"

# history:
#   path: ./sitegen-history.db

# events:
#   url: nats://127.0.0.1:4222
#   subject: sitegen.builds

# metrics:
#   enabled: true
`

// WriteExample writes an example configuration file.
// Refuses to overwrite an existing file unless force is set.
func WriteExample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
