package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/candinya/rss-translate-layer/app"
	"github.com/candinya/rss-translate-layer/types"
	"github.com/joho/godotenv"
)

func main() {
	// Variables already in the environment take precedence over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env file: %v", err)
	}

	// Parse config
	cfg, err := types.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg == nil {
		// Help requested
		return
	}

	// Start application
	err = app.Start(cfg)
	if err != nil {
		log.Printf("app stop: %v", err)
	}
}
