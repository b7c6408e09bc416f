package telegram

import (
	"context"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
	"github.com/aliskhannn/calearner-bot/internal/service"
)

// handleStart greets new users with the track picker and shows today's
// lesson to everyone else.
func (h *Handler) handleStart(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if sess.Settings().Onboarded {
			return h.handleToday(sess)(ctx, chatID)
		}
		return h.sendOnboarding(chatID)
	}
}

func (h *Handler) sendOnboarding(chatID int64) error {
	msg := newMessage(chatID, welcomeMarkdownV2())
	msg.ReplyMarkup = buildTrackKeyboard("", nil)
	return h.send(msg)
}

// selectTrack onboards with t on first use and switches to it afterwards.
func (h *Handler) selectTrack(ctx context.Context, chatID int64, sess *service.Session, t entities.Track) error {
	h.typing(chatID)

	if !sess.Settings().Onboarded {
		out, err := sess.Onboard(ctx, t)
		return h.sendOutcome(chatID, sess, out, err)
	}

	res, err := sess.SwitchTrack(ctx, t)
	return h.sendSwitch(chatID, sess, res, err)
}
