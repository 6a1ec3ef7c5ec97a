package main

import (
	"os"

	"github.com/pilacorp/go-did-resolver/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
