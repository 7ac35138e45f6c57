package bot

import (
	"bytes"
	"context"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/finance-notebook/internal/logger"
	"gitlab.com/yelinaung/finance-notebook/internal/render"
	"gitlab.com/yelinaung/finance-notebook/internal/resolver"
)

func (b *Bot) handleStart(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleStartCore(ctx, tgBot, update)
}

// handleStartCore is the testable implementation of handleStart.
func (b *Bot) handleStartCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	user := userFromUpdate(update)
	if user == nil {
		return
	}
	lang := b.userLang(ctx, user.ID, update.Message.Text)

	if _, err := b.store.EnsureUser(ctx, user); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to register user on /start")
	}

	b.send(ctx, tg, update.Message.Chat.ID, b.renderer.Greeting(user.FirstName, lang))
}

func (b *Bot) handleHelp(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleHelpCore(ctx, tgBot, update)
}

// handleHelpCore is the testable implementation of handleHelp.
func (b *Bot) handleHelpCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	user := userFromUpdate(update)
	if user == nil {
		return
	}
	lang := b.userLang(ctx, user.ID, update.Message.Text)
	b.send(ctx, tg, update.Message.Chat.ID, b.renderer.Help(lang))
}

func (b *Bot) handleChart(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleChartCore(ctx, tgBot, update)
}

// handleChartCore renders the period pie chart. The period comes from the
// command tail ("/chart month"), defaulting to the last 7 days.
func (b *Bot) handleChartCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	user := userFromUpdate(update)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID
	lang := b.userLang(ctx, user.ID, update.Message.Text)

	period := resolver.ParsePeriod(update.Message.Text, time.Now())
	txs, label, err := b.brain.ChartData(ctx, user, period)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load chart data")
		b.send(ctx, tg, chatID, b.renderer.Fallback(lang))
		return
	}

	png, err := render.Chart(txs, label)
	if err != nil {
		b.send(ctx, tg, chatID, b.renderer.List(nil, label, lang))
		return
	}

	_, err = tg.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &tgmodels.InputFileUpload{
			Filename: "chart_" + label + ".png",
			Data:     bytes.NewReader(png),
		},
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send chart")
	}
}

func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.defaultHandlerCore(ctx, tgBot, update)
}

// defaultHandlerCore passes a text turn through the conversation controller.
func (b *Bot) defaultHandlerCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.Voice != nil {
		b.handleVoiceCore(ctx, tg, update)
		return
	}
	user := userFromUpdate(update)
	if user == nil || update.Message.Text == "" {
		return
	}

	reply := b.brain.Handle(ctx, user, update.Message.Text)
	b.send(ctx, tg, update.Message.Chat.ID, reply)
}

// userLang picks the reply language for command handlers from the stored
// setting, falling back to the message script.
func (b *Bot) userLang(ctx context.Context, userID int64, text string) string {
	settings, err := b.store.GetSettings(ctx, userID)
	if err == nil && settings.Language != "" && settings.Language != "auto" {
		return settings.Language
	}
	if resolver.HasCyrillic(text) {
		return "ru"
	}
	return "en"
}

func (b *Bot) send(ctx context.Context, tg TelegramAPI, chatID int64, text string) {
	if text == "" {
		return
	}
	if _, err := tg.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		logger.Log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
