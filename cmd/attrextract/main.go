// Package main implements the attrextract CLI, which runs the extraction of
// one data file against one configuration file without the web server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

// version is set at build time.
var version = "dev"

func main() {
	// A missing .env file is fine; the CLI only reads LOG_LEVEL from it.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
