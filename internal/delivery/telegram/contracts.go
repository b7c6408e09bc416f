package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/calearner-bot/internal/service"
)

// Bot is the part of the Telegram API the handler uses.
type Bot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SessionRegistry hands out the session of a chat.
type SessionRegistry interface {
	Session(ctx context.Context, chatID int64) *service.Session
	ChatIDs() []int64
}
