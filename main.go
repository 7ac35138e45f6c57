// Package main is the entry point for the finance notebook Telegram bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitlab.com/yelinaung/finance-notebook/internal/bot"
	"gitlab.com/yelinaung/finance-notebook/internal/brain"
	"gitlab.com/yelinaung/finance-notebook/internal/config"
	"gitlab.com/yelinaung/finance-notebook/internal/database"
	"gitlab.com/yelinaung/finance-notebook/internal/gemini"
	"gitlab.com/yelinaung/finance-notebook/internal/logger"
	"gitlab.com/yelinaung/finance-notebook/internal/render"
	"gitlab.com/yelinaung/finance-notebook/internal/resolver"
	"gitlab.com/yelinaung/finance-notebook/internal/storage"
	"gitlab.com/yelinaung/finance-notebook/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("finance-notebook %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	logger.InitHashSalt()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.OTLPProtocol, version)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to set up telemetry")
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Log.Error().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Log.Info().Msg("Database initialized successfully")

	store := storage.NewPostgres(pool)

	var geminiClient *gemini.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
	}

	var res resolver.Resolver
	switch cfg.Resolver {
	case config.ResolverGemini:
		res = resolver.NewGemini(geminiClient)
		logger.Log.Info().Msg("Using delegated intent resolution")
	default:
		res = resolver.NewRules()
		logger.Log.Info().Msg("Using rule-based intent resolution")
	}

	renderer := render.New()
	if cfg.LLMReplies && geminiClient != nil {
		renderer = render.NewWithPhraser(geminiClient)
	}

	controller := brain.New(store, res, renderer, cfg.DeleteCooldown, cfg.DefaultCurrency)

	var transcriber gemini.Transcriber
	if geminiClient != nil {
		transcriber = geminiClient
	}

	telegramBot, err := bot.New(cfg, controller, store, renderer, transcriber)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create bot")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	telegramBot.Start(ctx)
}
