package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nookjs",
	Short: "nookjs: an embeddable, sandboxed JS-subset interpreter",
	Long: `nookjs is an embeddable interpreter for a JS-like scripting language,
built around a feature gate, a read-only host proxy, and a resource
tracker so an embedding application can run untrusted scripts safely.

It supports a gated subset of ES syntax (let/const, arrow functions,
classes, async/await, generators, ES-module-style import/export) and
exposes a small standard global surface (Object, Array, Math, JSON,
Promise) alongside whatever globals the host registers.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
