// Command hymnal is an offline-first client for a remote hymn archive.
package main

import (
	"os"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
