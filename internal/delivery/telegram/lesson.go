package telegram

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/calearner-bot/internal/service"
)

// sendOutcome shows whatever the engine decided for today's lesson.
func (h *Handler) sendOutcome(chatID int64, sess *service.Session, out service.Outcome, err error) error {
	switch {
	case errors.Is(err, service.ErrNotOnboarded):
		return h.sendOnboarding(chatID)
	case errors.Is(err, service.ErrGenerationFailed):
		msg := newPlainMessage(chatID, msgGenerationFailed)
		msg.ReplyMarkup = buildRetryKeyboard()
		return h.send(msg)
	case err != nil:
		return err
	}

	if out.Action == service.ActionShowAdThenGenerate {
		if out.AdAlreadyShown {
			return h.send(newPlainMessage(chatID, msgAdPending))
		}
		msg := newMessage(chatID, formatAd(h.adText))
		msg.ReplyMarkup = buildAdKeyboard()
		return h.send(msg)
	}

	if out.Lesson == nil {
		return h.send(newPlainMessage(chatID, msgNoLesson))
	}

	msg := newMessage(chatID, formatLesson(out.Lesson, sess.Settings().DarkMode))
	msg.ReplyMarkup = buildLessonKeyboard(out.Lesson)
	return h.send(msg)
}

// sendSwitch shows the new lesson or, when the track is locked, the offer.
func (h *Handler) sendSwitch(chatID int64, sess *service.Session, res service.SwitchResult, err error) error {
	if err == nil && !res.Switched && res.PurchaseTarget != nil {
		msg := newMessage(chatID, formatPurchaseOffer(*res.PurchaseTarget))
		msg.ReplyMarkup = buildPurchaseOfferKeyboard()
		return h.send(msg)
	}
	return h.sendOutcome(chatID, sess, res.Outcome, err)
}

// sendPurchaseResult reports a declined or failed purchase. It returns false
// when the purchase went through and the caller should continue.
func (h *Handler) sendPurchaseResult(chatID int64, ok bool, err error) (bool, error) {
	switch {
	case errors.Is(err, service.ErrPurchaseFailed):
		return true, h.send(newPlainMessage(chatID, msgPurchaseFailed))
	case err != nil:
		return true, err
	case !ok:
		return true, h.send(newPlainMessage(chatID, msgPurchaseDeclined))
	}
	return false, nil
}

// typing shows the typing indicator while a lesson may be generated.
func (h *Handler) typing(chatID int64) {
	h.request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}
