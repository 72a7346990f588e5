package main

import (
	"flag"
	"log"
	"os"

	"FxSignals/internal/di"
	"FxSignals/pkg/config"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	log.Printf("starting env=%s pairs=%v cache=%s", cfg.Environment, cfg.Pairs, cfg.Cache.Strategy)
	if cfg.Kafka.Enabled {
		log.Printf("kafka enabled: brokers=%v topic=%s", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// blocks until SIGINT or SIGTERM
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("FXSIGNALS_CONFIG"); p != "" {
		return p
	}
	return "config/config.yaml"
}
