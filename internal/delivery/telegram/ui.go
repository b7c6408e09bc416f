package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// trackOwnership reports whether a track can be selected without a purchase.
type trackOwnership func(t entities.Track) bool

// buildTrackKeyboard lists the built-in tracks two per row. With owned set,
// locked tracks get a lock and the current one a check mark.
func buildTrackKeyboard(current entities.TrackID, owned trackOwnership) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, id := range entities.Tracks {
		label := id.Title()
		switch {
		case id == current:
			label = "✅ " + label
		case owned != nil && !owned(entities.NewTrack(id, "")):
			label = "🔒 " + label
		}

		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildTrackCallback(id)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildLessonKeyboard builds keyboard under a lesson card.
func buildLessonKeyboard(l *entities.DailyLesson) tgbotapi.InlineKeyboardMarkup {
	share := tgbotapi.NewInlineKeyboardButtonData("📤 Share", buildLessonCallback(lessonShare))
	if l.Completed {
		return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(share))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Mark as done", buildLessonCallback(lessonDone)),
			share,
		),
	)
}

func buildAdKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Close ad", buildAdCloseCallback()),
		),
	)
}

func buildRetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", buildLessonCallback(lessonRetry)),
		),
	)
}

func buildPlansKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Monthly", buildBuyPlanCallback(entities.PremiumMonthly)),
			tgbotapi.NewInlineKeyboardButtonData("Yearly", buildBuyPlanCallback(entities.PremiumYearly)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Lifetime", buildBuyPlanCallback(entities.PremiumLifetime)),
		),
	)
}

// buildPurchaseOfferKeyboard offers the locked track itself or a plan.
func buildPurchaseOfferKeyboard() tgbotapi.InlineKeyboardMarkup {
	kb := buildPlansKeyboard()
	unlock := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔓 Unlock this track", buildBuyTrackCallback()),
	)
	kb.InlineKeyboard = append([][]tgbotapi.InlineKeyboardButton{unlock}, kb.InlineKeyboard...)
	return kb
}

func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}

func buildThemeKeyboard(dark bool) tgbotapi.InlineKeyboardMarkup {
	label := "🌙 Switch to dark"
	if dark {
		label = "☀️ Switch to light"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildThemeCallback()),
		),
	)
}
