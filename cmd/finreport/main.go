package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/alligatorO15/finboard/internal/cli"
	"github.com/alligatorO15/finboard/internal/config"
	"github.com/alligatorO15/finboard/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// logs go to stderr so stdout stays machine-readable with --output json
	logger := logging.New(cfg.Env, cfg.LogLevel, os.Stderr)

	c := cli.NewCLI(cli.Options{
		Config: cfg,
		Output: os.Stdout,
		Logger: &logger,
	})

	if err := c.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
