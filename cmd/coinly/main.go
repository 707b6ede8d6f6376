package main

import (
	"fmt"
	"os"

	"github.com/coinly/coinly/internal/cli"
	"github.com/coinly/coinly/internal/config"
	"github.com/coinly/coinly/internal/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()
	logger.Configure(os.Stderr, cfg.Env)

	root := cli.NewRoot(&cli.App{Config: cfg})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
