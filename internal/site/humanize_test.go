package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"basic-setup.md":     "Basic Setup",
		"getting_started.md": "Getting Started",
		"configuration":      "Configuration",
		"api-reference":      "Api Reference",
		"guide/advanced":     "Advanced",
		"multi--dash.md":     "Multi Dash",
	}
	for in, want := range cases {
		assert.Equal(t, want, Humanize(in), "input %s", in)
	}
}
