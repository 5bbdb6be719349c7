package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"pnl_projection/pkg/api/config"
	"pnl_projection/pkg/api/projection"
	"pnl_projection/pkg/core/pipeline"
	"pnl_projection/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	configPath := os.Getenv("PROJECTION_CONFIG")
	if configPath == "" {
		configPath = pipeline.DefaultConfigPath
	}
	cfg, err := pipeline.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	registryURL := os.Getenv("DEAL_REGISTRY_URL")
	if registryURL == "" {
		registryURL = "sqlite://data/registry.db"
	}
	src, err := store.Open(context.Background(), registryURL, os.Getenv("DEAL_REGISTRY_TABLE"))
	if err != nil {
		fmt.Printf("[FATAL] Failed to open deal registry: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()
	defer store.Close()

	orch := pipeline.NewOrchestrator(src)

	configHandler := config.NewHandler(cfg)
	http.HandleFunc("/api/config", configHandler.HandleConfig)

	projectionHandler := projection.NewHandler(orch, cfg)
	http.HandleFunc("/api/projection/run", projectionHandler.HandleRun)
	http.HandleFunc("/api/projection/deals.csv", projectionHandler.HandleDealsCSV)
	http.HandleFunc("/api/projection/report", projectionHandler.HandleReport)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("API server starting on :%s (target year %d, %d scenarios)...\n",
		port, cfg.Engine.Generator.Year, len(cfg.Scenarios))
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/projection/run")
	fmt.Println("  - POST /api/projection/deals.csv")
	fmt.Println("  - POST /api/projection/report")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
