package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Local overrides (redis address, log level) may live in a .env file.
	_ = godotenv.Load()

	Execute()
}
