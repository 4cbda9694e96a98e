// CLI entry point for the medguard command.
package main

import (
	"os"

	"github.com/medguard-uz/medguard/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
