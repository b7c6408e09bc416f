package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
	"github.com/aliskhannn/calearner-bot/internal/service"
)

const msgPickTrackFirst = "Pick a track to unlock first."

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	sess := h.sessions.Session(ctx, chatID)
	data := decodeCallback(cb.Data)

	// Remove the user's "clock" before the possibly slow work.
	h.request(tgbotapi.NewCallback(cb.ID, ""))

	var fn HandlerFunc
	switch data.Action {
	case actionTrack:
		fn = h.trackCallback(sess, data)
	case actionAd:
		fn = h.adCallback(sess, messageID)
	case actionBuy:
		fn = h.buyCallback(sess, data)
	case actionLesson:
		fn = h.lessonCallback(sess, data)
	case actionReset:
		fn = h.resetCallback(sess, data, messageID)
	case actionTheme:
		fn = h.themeCallback(sess, messageID)
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) trackCallback(sess *service.Session, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, err := entities.ParseTrackID(data.param(0))
		if err != nil || id == entities.TrackCustom {
			h.logger.Warn("invalid track in callback", zap.String("data", data.Raw))
			return nil
		}
		return h.selectTrack(ctx, chatID, sess, entities.NewTrack(id, ""))
	}
}

// adCallback closes the ad message and generates the lesson behind it.
func (h *Handler) adCallback(sess *service.Session, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.request(tgbotapi.NewDeleteMessage(chatID, messageID))
		h.typing(chatID)

		out, err := sess.CloseAd(ctx)
		return h.sendOutcome(chatID, sess, out, err)
	}
}

func (h *Handler) buyCallback(sess *service.Session, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch data.param(0) {
		case buyPlan:
			ok, err := sess.PurchaseSubscription(ctx, entities.PremiumType(data.param(1)))
			if errors.Is(err, entities.ErrUnknownSKU) {
				h.logger.Warn("invalid plan in callback", zap.String("data", data.Raw))
				return nil
			}
			if done, err := h.sendPurchaseResult(chatID, ok, err); done {
				return err
			}
			return h.send(newMessage(chatID, formatPremium(sess.Subscription())))

		case buyTrack:
			res, err := sess.PurchaseTrack(ctx)
			switch {
			case errors.Is(err, service.ErrNoPurchaseTarget):
				return h.send(newPlainMessage(chatID, msgPickTrackFirst))
			case errors.Is(err, service.ErrPurchaseFailed):
				return h.send(newPlainMessage(chatID, msgPurchaseFailed))
			case err == nil && !res.Switched:
				return h.send(newPlainMessage(chatID, msgPurchaseDeclined))
			}
			return h.sendSwitch(chatID, sess, res, err)
		}
		return nil
	}
}

func (h *Handler) lessonCallback(sess *service.Session, data callbackData) HandlerFunc {
	switch data.param(0) {
	case lessonDone:
		return h.handleDone(sess)
	case lessonShare:
		return h.handleShare(sess)
	case lessonRetry:
		return func(ctx context.Context, chatID int64) error {
			h.typing(chatID)
			out, err := sess.RetryLesson(ctx)
			return h.sendOutcome(chatID, sess, out, err)
		}
	}
	return func(context.Context, int64) error { return nil }
}

func (h *Handler) resetCallback(sess *service.Session, data callbackData, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text := msgResetCancelled
		if data.param(0) == resetConfirm {
			sess.ResetProgress(ctx)
			text = msgResetDone
		}
		return h.send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	}
}

func (h *Handler) themeCallback(sess *service.Session, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		sess.ToggleTheme(ctx)
		dark := sess.Settings().DarkMode

		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, themeText(dark), buildThemeKeyboard(dark))
		return h.send(edit)
	}
}
