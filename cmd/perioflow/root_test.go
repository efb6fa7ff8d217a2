package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestExamplesUseDefinedFlags(t *testing.T) {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, field := range strings.Fields(c.Example) {
			if !strings.HasPrefix(field, "--") {
				continue
			}
			name, _, _ := strings.Cut(strings.TrimPrefix(field, "--"), "=")
			if c.Flags().Lookup(name) == nil && c.InheritedFlags().Lookup(name) == nil {
				t.Errorf("%s example uses undefined flag --%s", c.CommandPath(), name)
			}
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(newRootCmd(&app{}))
}
