// Command cleo drives a project's task graph and agent spawn/return
// protocol from the command line.
package main

import (
	"os"

	"github.com/cleo-run/cleo/internal/cli"
)

// version is set at build time via ldflags.
var (
	version = "dev"
)

func main() {
	cli.Version = version
	os.Exit(cli.Execute())
}
