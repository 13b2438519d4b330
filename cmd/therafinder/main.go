// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

// Package main implements the therafinder command line tool and API service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Optional .env file with THERAFINDER_* settings
	_ = godotenv.Load(".env")

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
