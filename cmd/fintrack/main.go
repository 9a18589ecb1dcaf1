// Command fintrack prints ledger reports in the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"fintrack/internal/app"
	"fintrack/internal/config"
	"fintrack/internal/logger"
)

func main() {
	logger.Init(envOr("ENV", "production"))
	defer logger.Sync()

	cmd := newRootCmd(openFromEnv, os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openFromEnv(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.New(ctx, cfg)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
