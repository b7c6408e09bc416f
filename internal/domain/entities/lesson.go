package entities

import (
	"fmt"
	"sort"
)

// DailyLesson is the lesson generated for one day.
type DailyLesson struct {
	ID        Day     `json:"id"`
	Track     TrackID `json:"track"`
	Topic     string  `json:"topic,omitempty"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Example   string  `json:"example,omitempty"`
	ProTip    string  `json:"practicalTip,omitempty"`
	Completed bool    `json:"completed"`
}

// Matches reports whether the lesson was generated for t.
// Custom lessons match only their own topic.
func (l DailyLesson) Matches(t Track) bool {
	if l.Track != t.ID {
		return false
	}
	if t.IsCustom() {
		return l.TopicKey() == t.TopicKey()
	}
	return true
}

// TopicKey is the lowercase topic of a custom lesson.
func (l DailyLesson) TopicKey() string {
	return NewTrack(l.Track, l.Topic).TopicKey()
}

// ShareText is the message a user can forward to friends.
func (l DailyLesson) ShareText() string {
	text := fmt.Sprintf("Did you know? %s", l.Title)
	if l.ProTip != "" {
		text += fmt.Sprintf("\n\n%q", l.ProTip)
	}
	return text + "\n\nLearned via CaLearner!"
}

// LessonArchive keeps completed lessons by day.
type LessonArchive map[Day]DailyLesson

// NewLessonArchive returns an empty archive.
func NewLessonArchive() LessonArchive {
	return LessonArchive{}
}

// Sorted returns archived lessons, newest first.
func (a LessonArchive) Sorted() []DailyLesson {
	out := make([]DailyLesson, 0, len(a))
	for _, l := range a {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].ID.Before(out[i].ID)
	})
	return out
}

func (a LessonArchive) clone() LessonArchive {
	out := make(LessonArchive, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}
