package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/confmask/confmask/internal/cli"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	// Load a local .env if present so CONFMASK_* overrides apply before
	// configuration is read. Absence is fine.
	_ = godotenv.Load()

	os.Exit(cli.Run(version, commit, date))
}
