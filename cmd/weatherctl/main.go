package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // loads .env

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
