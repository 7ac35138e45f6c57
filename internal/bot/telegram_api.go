package bot

import (
	tgbot "github.com/go-telegram/bot"
	"gitlab.com/yelinaung/finance-notebook/internal/bot/mocks"
)

// TelegramAPI is the subset of Telegram operations the handlers call:
// messages, photos (charts) and file access for voice notes. The interface
// lives in the mocks package to avoid an import cycle with the test double.
type TelegramAPI = mocks.TelegramAPI

var _ TelegramAPI = (*tgbot.Bot)(nil)
