// Command almanac computes charts and normalises divination datasets.
package main

import (
	"os"

	"github.com/custodia-labs/almanac/cgo/swisseph"
	"github.com/custodia-labs/almanac/internal/adapters/driving/cli"
)

func main() {
	cli.SetSwissOpener(swisseph.Open)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
