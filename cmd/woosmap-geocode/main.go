// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the woosmap-geocode command line client.
//
// Usage:
//
//	woosmap-geocode geocode 10 Rue de Rivoli, Paris --components country:FR
//	woosmap-geocode reverse 48.8566 2.3522 --format json
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// Load .env if present
	_ = godotenv.Load(".env")

	a := newApp(os.Stdout, os.Stderr)
	if err := a.execute(ctx, newRootCmd(a)); err != nil {
		a.logFailure(err)
		os.Exit(1)
	}
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "woosmap-geocode", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
