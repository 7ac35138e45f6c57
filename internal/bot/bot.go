// Package bot provides the Telegram bot initialization and handlers.
package bot

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/finance-notebook/internal/brain"
	"gitlab.com/yelinaung/finance-notebook/internal/config"
	"gitlab.com/yelinaung/finance-notebook/internal/gemini"
	"gitlab.com/yelinaung/finance-notebook/internal/logger"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
	"gitlab.com/yelinaung/finance-notebook/internal/render"
	"gitlab.com/yelinaung/finance-notebook/internal/storage"
)

// Bot wraps the Telegram bot with application dependencies.
type Bot struct {
	bot      *bot.Bot
	cfg      *config.Config
	brain    *brain.Brain
	store    storage.Store
	renderer *render.Renderer

	// transcriber is nil when voice input is not configured.
	transcriber gemini.Transcriber
}

// New creates a new Bot instance.
func New(cfg *config.Config, b *brain.Brain, store storage.Store, renderer *render.Renderer, transcriber gemini.Transcriber) (*Bot, error) {
	tb := &Bot{
		cfg:         cfg,
		brain:       b,
		store:       store,
		renderer:    renderer,
		transcriber: transcriber,
	}

	opts := []bot.Option{
		bot.WithMiddlewares(tb.accessMiddleware),
		bot.WithDefaultHandler(tb.defaultHandler),
	}

	telegramBot, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	tb.bot = telegramBot
	tb.registerHandlers()

	return tb, nil
}

// Start begins polling for updates.
func (b *Bot) Start(ctx context.Context) {
	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)
}

// registerHandlers sets up command handlers. Everything that is not a
// command goes through the conversational default handler.
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, b.handleStart)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, b.handleHelp)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/chart", bot.MatchTypePrefix, b.handleChart)
}

// accessMiddleware enforces the whitelist and logs turns without message
// content: user ids are hashed and text is reduced to its shape.
func (b *Bot) accessMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
		userID := extractUserID(update)
		if userID == 0 {
			return
		}

		logTurn(userID, update)

		if !b.cfg.IsUserWhitelisted(userID) {
			logger.Log.Warn().
				Str("user_hash", logger.HashUserID(userID)).
				Msg("Blocked non-whitelisted user")
			if update.Message != nil {
				_, _ = tgBot.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: update.Message.Chat.ID,
					Text:   "⛔ Sorry, you are not authorized to use this bot.",
				})
			}
			return
		}

		next(ctx, tgBot, update)
	}
}

// logTurn records the turn's shape, never its content.
func logTurn(userID int64, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message
	event := logger.Log.Info().
		Str("user_hash", logger.HashUserID(userID))

	if msg.Text != "" {
		event = event.Str("text", logger.RedactMessage(msg.Text))
	}
	if msg.Voice != nil {
		event = event.Str("type", "voice").Int("duration", msg.Voice.Duration)
	}

	event.Msg("User input")
}

// extractUserID gets the user ID from the update.
func extractUserID(update *tgmodels.Update) int64 {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID
	}
	if update.EditedMessage != nil && update.EditedMessage.From != nil {
		return update.EditedMessage.From.ID
	}
	return 0
}

// userFromUpdate builds the domain user from the sender.
func userFromUpdate(update *tgmodels.Update) *models.User {
	if update.Message == nil || update.Message.From == nil {
		return nil
	}
	from := update.Message.From
	return &models.User{
		ID:        from.ID,
		Username:  from.Username,
		FirstName: from.FirstName,
	}
}
