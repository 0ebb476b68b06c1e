package cmd

import (
	"testing"
)

func TestRootCommandHasExpectedSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"lex", "parse", "run", "version"} {
		if !names[want] {
			t.Errorf("expected rootCmd to have a %q subcommand", want)
		}
	}
}

func TestRootCommandUseAndVersion(t *testing.T) {
	if rootCmd.Use != "nookjs" {
		t.Errorf("expected Use to be %q, got %q", "nookjs", rootCmd.Use)
	}
	if rootCmd.Version != Version {
		t.Errorf("expected rootCmd.Version to match the package Version, got %q", rootCmd.Version)
	}
}
