// Command nookjs is the reference CLI for pkg/sandbox, following go-dws's
// cmd/dwscript layout: a cobra root command delegating to one file per
// subcommand.
package main

import (
	"os"

	"github.com/samlaycock/nookjs/cmd/nookjs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
