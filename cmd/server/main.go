package main

import (
	"log"
	"net/http"

	"suppliernorm/ai"
	"suppliernorm/database"
	"suppliernorm/internal/config"
	"suppliernorm/normalization"
	"suppliernorm/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := server.SetupLogger(cfg.LogLevel)

	store, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	var oracle normalization.GroupingOracle
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey,
			ai.WithGeminiModel(cfg.GeminiModel),
			ai.WithGeminiMaxRPM(cfg.MaxRPM),
			ai.WithGeminiHTTPClient(&http.Client{Timeout: cfg.AITimeout}),
		)
		if err != nil {
			log.Fatalf("failed to create Gemini client: %v", err)
		}
		oracle = ai.NewOracle(client)
		logger.Info("AI oracle enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("no API key configured, running without AI oracle")
	}

	srv := server.New(cfg, store, oracle)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
