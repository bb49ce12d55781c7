package main

import (
	"os"

	"github.com/logisense/backend/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
