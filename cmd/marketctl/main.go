// cmd/marketctl/main.go
package main

import (
	"os"

	"github.com/greenloop/market-client/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
