package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

type Handler struct {
	bot      Bot
	logger   *zap.Logger
	sessions SessionRegistry
	rollover <-chan entities.Day
	adText   string
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	sessions SessionRegistry,
	rollover <-chan entities.Day,
	adText string,
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		sessions: sessions,
		rollover: rollover,
		adText:   adText,
	}
}

// Run serves updates and day rollovers until ctx is done. Both are handled
// on this goroutine, so sessions never see concurrent operations.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		case day := <-h.rollover:
			h.handleRollover(ctx, day)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	sess := h.sessions.Session(ctx, chatID)

	if !update.Message.IsCommand() {
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart(sess)
	case "today":
		fn = h.handleToday(sess)
	case "custom":
		fn = h.handleCustom(sess, args)
	case "track":
		fn = h.handleTrack(sess)
	case "done":
		fn = h.handleDone(sess)
	case "stats":
		fn = h.handleStats(sess)
	case "archive":
		fn = h.handleArchive(sess)
	case "share":
		fn = h.handleShare(sess)
	case "premium":
		fn = h.handlePremium(sess)
	case "theme":
		fn = h.handleTheme(sess)
	case "reset":
		fn = h.handleReset()
	case "login":
		fn = h.handleLogin(sess, args)
	case "logout":
		fn = h.handleLogout(sess)
	case "help":
		fn = h.handleHelp()
	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// handleRollover brings every known onboarded chat onto the new day.
func (h *Handler) handleRollover(ctx context.Context, day entities.Day) {
	chats := h.sessions.ChatIDs()
	h.logger.Info("day rollover", zap.String("day", day.String()), zap.Int("chats", len(chats)))

	for _, chatID := range chats {
		sess := h.sessions.Session(ctx, chatID)
		if !sess.Settings().Onboarded {
			continue
		}

		_ = h.send(newPlainMessage(chatID, msgNewDay))
		_ = h.withErrorHandling(h.handleToday(sess))(ctx, chatID)
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	_ = h.send(newPlainMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// request performs a call whose result is not a message.
func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Warn("telegram request failed", zap.Error(err))
	}
}
