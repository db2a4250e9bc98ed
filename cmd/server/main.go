// cmd/server/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/calebodell/skuscout/internal/assistant"
	"github.com/calebodell/skuscout/internal/classifier"
	"github.com/calebodell/skuscout/internal/config"
	"github.com/calebodell/skuscout/internal/llm"
	"github.com/calebodell/skuscout/internal/server"
	"github.com/calebodell/skuscout/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.SetDefault(newLogger(cfg.LogLevel))

	blobs, err := store.NewS3Store(context.Background(), cfg.Store)
	if err != nil {
		log.Fatalf("failed to create dataset store: %v", err)
	}

	provider, err := llm.NewOpenAI(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	asst := assistant.New(classifier.New(provider), provider, blobs, cfg.Assistant, cfg.OpenAI.Model)

	srv := server.New(cfg.Server, asst)
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: lvl}))
}
