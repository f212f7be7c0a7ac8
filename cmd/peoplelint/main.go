package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/dyluth/peoplelint/cmd/peoplelint/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A missing .env is normal; flags and the real environment still apply
	_ = godotenv.Load()

	commands.SetVersionInfo(version, commit, date)

	// Errors are printed directly by the printer package with color formatting
	if err := commands.Execute(); err != nil {
		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
