package main

import (
	"github.com/joho/godotenv"

	"statwire/internal/cli"
)

func main() {
	// Optional .env for local development; real deployments set
	// environment variables directly.
	_ = godotenv.Load()

	cli.Execute()
}
