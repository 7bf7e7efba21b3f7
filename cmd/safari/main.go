package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/safari-erp/safari/internal/commands"
)

func main() {
	// A .env file is optional; LOG_LEVEL, LOG_FORMAT and SAFARI_ADDR may
	// come from the real environment instead.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
