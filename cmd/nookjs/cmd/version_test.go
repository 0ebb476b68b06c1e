package cmd

import (
	"strings"
	"testing"
)

func TestVersionCommandPrintsVersionInfo(t *testing.T) {
	output := captureStdout(t, func() {
		versionCmd.Run(versionCmd, nil)
	})

	if !strings.Contains(output, Version) {
		t.Errorf("expected output to contain the version string %q, got %q", Version, output)
	}
	if !strings.Contains(output, "Commit:") || !strings.Contains(output, "Built:") {
		t.Errorf("expected output to contain commit and build metadata, got %q", output)
	}
}
