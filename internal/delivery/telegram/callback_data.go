package telegram

import (
	"strings"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionTrack  = "track"
	actionAd     = "ad"
	actionBuy    = "buy"
	actionLesson = "lesson"
	actionReset  = "reset"
	actionTheme  = "theme"
)

// Ad sub-actions.
const (
	adClose = "close"
)

// Buy sub-actions.
const (
	buyPlan  = "plan"
	buyTrack = "track"
)

// Lesson sub-actions.
const (
	lessonDone  = "done"
	lessonRetry = "retry"
	lessonShare = "share"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildTrackCallback selects a built-in track. Custom topics do not fit into
// callback data and go through /custom.
func buildTrackCallback(id entities.TrackID) string {
	return callbackData{Action: actionTrack, Params: []string{string(id)}}.encode()
}

func buildAdCloseCallback() string {
	return callbackData{Action: actionAd, Params: []string{adClose}}.encode()
}

func buildBuyPlanCallback(plan entities.PremiumType) string {
	return callbackData{Action: actionBuy, Params: []string{buyPlan, string(plan)}}.encode()
}

func buildBuyTrackCallback() string {
	return callbackData{Action: actionBuy, Params: []string{buyTrack}}.encode()
}

func buildLessonCallback(sub string) string {
	return callbackData{Action: actionLesson, Params: []string{sub}}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}

func buildThemeCallback() string {
	return actionTheme
}
