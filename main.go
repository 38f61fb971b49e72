package main

import (
	"log"
	"os"

	"javadocbot/internal/utils"
)

func main() {
	if err := utils.LoadEnv(); err != nil {
		log.Printf("could not load .env: %v", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
