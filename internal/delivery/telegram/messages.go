// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// Error messages.
const (
	msgInternalError    = "Something went wrong. Please try again later."
	msgUnknownCommand   = "Unknown command. Send /help to see what I can do."
	msgNoLesson         = "There is no lesson for today yet. Send /today to get it."
	msgGenerationFailed = "Couldn't load today's lesson. The lesson service may be busy right now."
	msgPurchaseFailed   = "The purchase did not go through. Nothing was charged."
	msgPurchaseDeclined = "Purchase cancelled."
	msgInvalidEmail     = "That doesn't look like an email address."
	msgCustomUsage      = "Use: /custom <topic>, for example /custom Stoicism"
	msgLoginUsage       = "Use: /login you@example.com"
)

// Informational messages.
const (
	msgResetConfirm   = "Reset your streaks and archive? Your tracks and purchases stay."
	msgResetDone      = "Progress reset. Send /today to start again."
	msgResetCancelled = "Reset cancelled."
	msgArchiveEmpty   = "Your archive is empty. Completed lessons show up here."
	msgLoggedOut      = "Signed out. You are back on this chat's guest profile."
	msgNewDay         = "A new day has started."
	msgAdPending      = "Close the ad above to see today's lesson."
)

const (
	statsDays    = 7
	archiveLimit = 20
	barLength    = 14
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// welcomeMarkdownV2 builds the first-run message.
func welcomeMarkdownV2() string {
	var sb strings.Builder

	sb.WriteString(bold("Welcome to CaLearner!"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Every day you get one short lesson on a track you choose. Finish it to keep your streak going."))
	sb.WriteString("\n\n")
	sb.WriteString(md("Your first track is free. Pick one below, or send /custom <topic> to learn about anything you like."))

	return sb.String()
}

func helpMarkdownV2() string {
	lines := []string{
		"/today - today's lesson",
		"/done - mark today's lesson as completed",
		"/track - switch track",
		"/custom <topic> - learn a topic of your own",
		"/stats - streaks and the last week",
		"/archive - completed lessons",
		"/share - text to share today's lesson",
		"/premium - plans",
		"/theme - switch light or dark style",
		"/login <email>, /logout - sync across chats",
		"/reset - clear progress",
	}

	var sb strings.Builder
	sb.WriteString(bold("Commands"))
	sb.WriteString("\n\n")
	for _, l := range lines {
		sb.WriteString(md(l))
		sb.WriteString("\n")
	}
	return sb.String()
}

func themeIcon(dark bool) string {
	if dark {
		return "🌙"
	}
	return "☀️"
}

// formatLesson renders a lesson card (MarkdownV2 safe).
func formatLesson(l *entities.DailyLesson, dark bool) string {
	var sb strings.Builder

	sb.WriteString(themeIcon(dark) + " " + bold(l.Title))
	sb.WriteString("\n")
	sb.WriteString(italic(entities.NewTrack(l.Track, l.Topic).Label() + " · " + l.ID.String()))
	sb.WriteString("\n\n")
	sb.WriteString(md(l.Content))

	if l.Example != "" {
		sb.WriteString("\n\n")
		sb.WriteString(bold("Example"))
		sb.WriteString("\n")
		sb.WriteString(md(l.Example))
	}

	if l.ProTip != "" {
		sb.WriteString("\n\n")
		sb.WriteString(bold("💡 Pro tip"))
		sb.WriteString("\n")
		sb.WriteString(md(l.ProTip))
	}

	if l.Completed {
		sb.WriteString("\n\n")
		sb.WriteString(md("✅ Completed"))
	}

	return sb.String()
}

func formatAd(text string) string {
	return fmt.Sprintf("%s\n\n%s", bold("📢 Advertisement"), md(text))
}

// formatCompletion reports the streak after a lesson is done.
func formatCompletion(c entities.Completion) string {
	p := c.Progress
	return fmt.Sprintf(
		"%s\n\n%s %s\n%s %s",
		bold("🎉 Lesson completed!"),
		md("🔥 Current streak:"),
		bold(fmt.Sprintf("%d", p.CurrentStreak)),
		md("🏆 Longest streak:"),
		bold(fmt.Sprintf("%d", p.LongestStreak)),
	)
}

// formatStats renders streaks and the completion strip of the last week.
func formatStats(p entities.UserProgress, today entities.Day) string {
	days := p.LastNDays(today, statsDays)

	var strip strings.Builder
	done := 0
	for _, ok := range days {
		if ok {
			strip.WriteString("✅")
			done++
		} else {
			strip.WriteString("▫️")
		}
	}

	return fmt.Sprintf(
		"%s\n\n%s %s\n%s %s\n%s %s\n\n%s\n%s\n%s",
		bold("📊 Your progress"),
		md("🔥 Current streak:"),
		bold(fmt.Sprintf("%d", p.CurrentStreak)),
		md("🏆 Longest streak:"),
		bold(fmt.Sprintf("%d", p.LongestStreak)),
		md("📚 Lessons completed:"),
		bold(fmt.Sprintf("%d", len(p.History))),
		md(fmt.Sprintf("Last %d days:", statsDays)),
		strip.String(),
		md(buildProgressBar(done, statsDays, barLength)),
	)
}

// formatArchive lists completed lessons, newest first.
func formatArchive(a entities.LessonArchive) string {
	lessons := a.Sorted()
	if len(lessons) == 0 {
		return md(msgArchiveEmpty)
	}

	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("📚 Archive (%d)", len(lessons))))
	sb.WriteString("\n\n")

	for i, l := range lessons {
		if i == archiveLimit {
			sb.WriteString(md(fmt.Sprintf("…and %d more", len(lessons)-archiveLimit)))
			break
		}
		sb.WriteString(md(fmt.Sprintf("%s · %s · ", l.ID, entities.NewTrack(l.Track, l.Topic).Label())))
		sb.WriteString(bold(l.Title))
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatTrackMenu(current entities.Track, ok bool) string {
	if !ok {
		return md("Choose a track:")
	}
	return fmt.Sprintf("%s %s\n\n%s", md("Current track:"), bold(current.Label()), md("Choose a track:"))
}

// formatPurchaseOffer is shown when a locked track was selected.
func formatPurchaseOffer(t entities.Track) string {
	return fmt.Sprintf(
		"%s %s %s\n\n%s",
		md("🔒"),
		bold(t.Label()),
		md("is locked."),
		md("Unlock it for good, or go premium to get every track."),
	)
}

func formatPremium(sub entities.SubscriptionState) string {
	if sub.IsPremium {
		return fmt.Sprintf("%s %s", md("⭐ You are premium:"), bold(string(sub.PremiumType)))
	}
	return fmt.Sprintf(
		"%s\n\n%s",
		bold("⭐ CaLearner Premium"),
		md("All tracks, any custom topic and no ads before lessons."),
	)
}

func formatLoggedIn(id *entities.Identity) string {
	return fmt.Sprintf("%s %s", md("Signed in as"), bold(id.Email))
}

// formatShare wraps the share text in a code block so it can be copied.
func formatShare(l *entities.DailyLesson) string {
	return fmt.Sprintf("%s\n\n```\n%s\n```", md("Forward this to a friend:"), md(l.ShareText()))
}

// buildProgressBar creates an ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return strings.Repeat("░", length)
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
