package entities

import (
	"errors"
	"strings"
)

var ErrUnknownTrack = errors.New("unknown track")

// TrackID identifies a learning track.
type TrackID string

const (
	TrackProductivity TrackID = "productivity"
	TrackFinance      TrackID = "finance"
	TrackHealth       TrackID = "health"
	TrackPsychology   TrackID = "psychology"
	TrackHistory      TrackID = "history"
	TrackScience      TrackID = "science"
	TrackLanguages    TrackID = "languages"
	TrackTechnology   TrackID = "technology"
	TrackCustom       TrackID = "custom" // parameterized by a free-text topic
)

// Tracks lists the built-in tracks in display order (custom excluded).
var Tracks = []TrackID{
	TrackProductivity,
	TrackFinance,
	TrackHealth,
	TrackPsychology,
	TrackHistory,
	TrackScience,
	TrackLanguages,
	TrackTechnology,
}

var trackTitles = map[TrackID]string{
	TrackProductivity: "Productivity",
	TrackFinance:      "Personal Finance",
	TrackHealth:       "Health & Fitness",
	TrackPsychology:   "Psychology",
	TrackHistory:      "History",
	TrackScience:      "Science",
	TrackLanguages:    "Languages",
	TrackTechnology:   "Technology",
	TrackCustom:       "Custom",
}

// ParseTrackID validates a raw track identifier.
func ParseTrackID(s string) (TrackID, error) {
	id := TrackID(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := trackTitles[id]; !ok {
		return "", ErrUnknownTrack
	}
	return id, nil
}

// Title returns a human-readable track name.
func (id TrackID) Title() string {
	if t, ok := trackTitles[id]; ok {
		return t
	}
	return string(id)
}

// Track is a selectable unit of content. Topic is only meaningful for TrackCustom.
type Track struct {
	ID    TrackID
	Topic string
}

// NewTrack builds a track, dropping the topic for non-custom ids.
func NewTrack(id TrackID, topic string) Track {
	if id != TrackCustom {
		return Track{ID: id}
	}
	return Track{ID: id, Topic: strings.TrimSpace(topic)}
}

// IsCustom reports whether t is the custom variant.
func (t Track) IsCustom() bool {
	return t.ID == TrackCustom
}

// TopicKey returns the lowercase topic used for custom entitlements.
func (t Track) TopicKey() string {
	return strings.ToLower(t.Topic)
}

// Label is what the user sees: the topic for custom tracks, the title otherwise.
func (t Track) Label() string {
	if t.IsCustom() && t.Topic != "" {
		return t.Topic
	}
	return t.ID.Title()
}
