package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"sitesmith/cli"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: error loading .env file: %v", err)
	}

	cli.Execute()
}
