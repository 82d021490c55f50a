package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/bep/internal/api"
	"github.com/MikeSquared-Agency/bep/internal/assistant"
	"github.com/MikeSquared-Agency/bep/internal/config"
	"github.com/MikeSquared-Agency/bep/internal/cooking"
	"github.com/MikeSquared-Agency/bep/internal/hermes"
	"github.com/MikeSquared-Agency/bep/internal/llm"
	"github.com/MikeSquared-Agency/bep/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("bep starting", "port", cfg.Port, "provider", cfg.LLMProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected")

	if cfg.RecipesCSV != "" {
		if err := importRecipes(ctx, db, cfg.RecipesCSV); err != nil {
			slog.Error("failed to import recipes", "path", cfg.RecipesCSV, "error", err)
			os.Exit(1)
		}
	}

	// LLM
	completer, err := llm.New(ctx, cfg.LLMProvider, apiKey(cfg), model(cfg))
	if err != nil {
		slog.Error("failed to create LLM client", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}
	slog.Info("llm client ready", "provider", cfg.LLMProvider, "model", model(cfg))

	asst := assistant.New(completer, cooking.NewToolbox(db), slog.Default())

	// NATS/Hermes (optional, chat works without events)
	var events api.Publisher
	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		events = hermesClient
		slog.Info("NATS connected", "url", cfg.NatsURL)

		if cfg.LogLevel == "debug" {
			if err := hermesClient.Subscribe(hermes.SubjectChatReplied, hermes.LogChatReplied(slog.Default())); err != nil {
				slog.Warn("failed to subscribe to chat events", "error", err)
			}
		}

		if err := hermesClient.Publish(hermes.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
			"provider":  cfg.LLMProvider,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	} else {
		slog.Warn("NATS not configured, running without events")
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.LLMProvider, asst, events, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("bep ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	cancel()
	slog.Info("bep stopped")
}

func importRecipes(ctx context.Context, db *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	recipes, err := store.ParseRecipesCSV(f)
	if err != nil {
		return err
	}
	if err := db.ImportRecipes(ctx, recipes); err != nil {
		return err
	}
	slog.Info("recipes imported", "path", path, "count", len(recipes))
	return nil
}

func apiKey(cfg config.Config) string {
	if cfg.LLMProvider == llm.ProviderAnthropic {
		return cfg.AnthropicAPIKey
	}
	return cfg.GeminiAPIKey
}

func model(cfg config.Config) string {
	if cfg.LLMProvider == llm.ProviderAnthropic {
		return cfg.AnthropicModel
	}
	return cfg.GeminiModel
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
