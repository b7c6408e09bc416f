package telegram

import (
	"context"
	"errors"
	"strings"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
	"github.com/aliskhannn/calearner-bot/internal/infra/auth"
	"github.com/aliskhannn/calearner-bot/internal/service"
)

const msgAlreadyCompleted = "Today's lesson is already completed. See you tomorrow!"

// handleToday shows today's lesson, the ad in front of it, or generates it.
func (h *Handler) handleToday(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.typing(chatID)
		out, err := sess.EnsureLessonForToday(ctx)
		return h.sendOutcome(chatID, sess, out, err)
	}
}

// handleCustom selects a free-text topic.
func (h *Handler) handleCustom(sess *service.Session, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		topic := strings.TrimSpace(args)
		if topic == "" {
			return h.send(newPlainMessage(chatID, msgCustomUsage))
		}
		return h.selectTrack(ctx, chatID, sess, entities.NewTrack(entities.TrackCustom, topic))
	}
}

// handleTrack shows the track picker with ownership marks.
func (h *Handler) handleTrack(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		current, ok := sess.Settings().Track()
		if !ok {
			return h.sendOnboarding(chatID)
		}

		msg := newMessage(chatID, formatTrackMenu(current, ok))
		msg.ReplyMarkup = buildTrackKeyboard(current.ID, sess.IsOwned)
		return h.send(msg)
	}
}

func (h *Handler) handleDone(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		c, err := sess.CompleteLesson(ctx)
		if errors.Is(err, service.ErrNoLesson) {
			return h.send(newPlainMessage(chatID, msgNoLesson))
		}
		if err != nil {
			return err
		}

		if !c.Changed {
			return h.send(newPlainMessage(chatID, msgAlreadyCompleted))
		}
		return h.send(newMessage(chatID, formatCompletion(c)))
	}
}

func (h *Handler) handleStats(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, formatStats(sess.Progress(), sess.Today())))
	}
}

func (h *Handler) handleArchive(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, formatArchive(sess.Archive())))
	}
}

func (h *Handler) handleShare(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		l := sess.TodayLesson()
		if l == nil || l.ID != sess.Today() {
			return h.send(newPlainMessage(chatID, msgNoLesson))
		}
		return h.send(newMessage(chatID, formatShare(l)))
	}
}

func (h *Handler) handlePremium(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		sub := sess.Subscription()
		msg := newMessage(chatID, formatPremium(sub))
		if !sub.IsPremium {
			msg.ReplyMarkup = buildPlansKeyboard()
		}
		return h.send(msg)
	}
}

func (h *Handler) handleTheme(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		sess.ToggleTheme(ctx)
		dark := sess.Settings().DarkMode

		msg := newPlainMessage(chatID, themeText(dark))
		msg.ReplyMarkup = buildThemeKeyboard(dark)
		return h.send(msg)
	}
}

func themeText(dark bool) string {
	if dark {
		return themeIcon(dark) + " Dark style is on."
	}
	return themeIcon(dark) + " Light style is on."
}

func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

// handleLogin switches the chat to the identity of an email and shows where
// that identity stands.
func (h *Handler) handleLogin(sess *service.Session, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		email := strings.TrimSpace(args)
		if email == "" {
			return h.send(newPlainMessage(chatID, msgLoginUsage))
		}

		err := sess.Login(ctx, email)
		if errors.Is(err, auth.ErrInvalidEmail) {
			return h.send(newPlainMessage(chatID, msgInvalidEmail))
		}
		if err != nil {
			return err
		}

		if err := h.send(newMessage(chatID, formatLoggedIn(sess.Identity()))); err != nil {
			return err
		}
		return h.handleStart(sess)(ctx, chatID)
	}
}

func (h *Handler) handleLogout(sess *service.Session) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := sess.Logout(ctx); err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, msgLoggedOut))
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, helpMarkdownV2()))
	}
}
