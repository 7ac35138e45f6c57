package bot

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/finance-notebook/internal/gemini"
	"gitlab.com/yelinaung/finance-notebook/internal/logger"
)

// handleVoiceCore transcribes a voice note and feeds the transcript through
// the same pipeline as typed text.
func (b *Bot) handleVoiceCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.Voice == nil {
		return
	}
	user := userFromUpdate(update)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID
	lang := b.userLang(ctx, user.ID, "")

	logger.Log.Info().
		Str("user_hash", logger.HashUserID(user.ID)).
		Int("duration", update.Message.Voice.Duration).
		Msg("Received voice message")

	if b.transcriber == nil {
		b.send(ctx, tg, chatID, voiceNotConfigured(lang))
		return
	}

	audio, err := b.downloadFile(ctx, tg, update.Message.Voice.FileID)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("user_hash", logger.HashUserID(user.ID)).
			Msg("Failed to download voice file")
		b.send(ctx, tg, chatID, voiceDownloadFailed(lang))
		return
	}

	mimeType := update.Message.Voice.MimeType
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	text, err := b.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		if errors.Is(err, gemini.ErrEmptyTranscript) {
			b.send(ctx, tg, chatID, voiceEmpty(lang))
			return
		}
		logger.Log.Error().Err(err).
			Str("user_hash", logger.HashUserID(user.ID)).
			Msg("Failed to transcribe voice message")
		b.send(ctx, tg, chatID, b.renderer.Fallback(lang))
		return
	}

	echo := voiceEcho(lang, text)
	if _, err := tg.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: echo}); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to echo transcript")
	}

	reply := b.brain.Handle(ctx, user, text)
	b.send(ctx, tg, chatID, reply)
}

func voiceNotConfigured(lang string) string {
	if lang == "ru" {
		return "🎙️ Голосовой ввод не настроен. Напиши текстом, например «кофе 5»."
	}
	return "🎙️ Voice input is not configured. Type it instead, like \"coffee 5\"."
}

func voiceDownloadFailed(lang string) string {
	if lang == "ru" {
		return "❌ Не получилось скачать голосовое. Попробуй ещё раз."
	}
	return "❌ Couldn't download the voice message. Please try again."
}

func voiceEmpty(lang string) string {
	if lang == "ru" {
		return "Я не расслышал ничего в голосовом. Скажи ещё раз или напиши текстом."
	}
	return "I couldn't hear anything in that voice note. Say it again or type it."
}

func voiceEcho(lang, text string) string {
	if lang == "ru" {
		return "🎙️ Услышал: «" + text + "»"
	}
	return "🎙️ Heard: \"" + text + "\""
}
