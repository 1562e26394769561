package main

import (
	"flag"

	log "github.com/sirupsen/logrus"

	"ddns53/internal/config"
	"ddns53/internal/server"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("=== ddns53 — Dynamic DNS for Route53 ===")
	log.Printf("Version: %s", version)
	log.Printf("User store backend: %s", cfg.Store.Backend)

	if err := server.Start(cfg, version); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
