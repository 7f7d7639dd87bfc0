// ABOUTME: Entry point for contactctl CLI
// ABOUTME: Terminal client for the contact manager REST API

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kdichter/contactctl/cmd"
)

func main() {
	// Optional .env for local development; real env vars take precedence
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
