package bot

import (
	"testing"
	"time"

	"gitlab.com/yelinaung/finance-notebook/internal/brain"
	"gitlab.com/yelinaung/finance-notebook/internal/config"
	"gitlab.com/yelinaung/finance-notebook/internal/gemini"
	"gitlab.com/yelinaung/finance-notebook/internal/render"
	"gitlab.com/yelinaung/finance-notebook/internal/resolver"
	"gitlab.com/yelinaung/finance-notebook/internal/storage"
)

// setupTestBot creates a Bot over the in-memory store, skipping the real
// Telegram client entirely; handlers are exercised through their Core forms.
func setupTestBot(t *testing.T, transcriber gemini.Transcriber) (*Bot, *storage.Memory) {
	t.Helper()

	store := storage.NewMemory()
	renderer := render.New()
	br := brain.New(store, resolver.NewRules(), renderer, 24*time.Hour, "USD")

	cfg := &config.Config{
		TelegramBotToken:   "test-token",
		DatabaseURL:        "test-url",
		WhitelistedUserIDs: []int64{123456},
	}

	return &Bot{
		cfg:         cfg,
		brain:       br,
		store:       store,
		renderer:    renderer,
		transcriber: transcriber,
	}, store
}
