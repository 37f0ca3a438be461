// Command nudoq reads API documentation files, stores them and serves them
// over MCP.
package main

import (
	"os"

	"github.com/devlooped/nudoq/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
