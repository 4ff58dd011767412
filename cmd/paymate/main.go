package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/stylequest-labs/paymate-cli/internal/adapters/driving/cli"
)

// version is overridden at build time via ldflags.
var version = "dev"

func main() {
	// Credentials may live in a local .env during development.
	_ = godotenv.Load()

	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
