package entities

// UserProgress tracks daily completion streaks.
type UserProgress struct {
	CurrentStreak     int          `json:"currentStreak"`
	LongestStreak     int          `json:"longestStreak"`
	LastCompletedDate *Day         `json:"lastCompletedDate"`
	History           map[Day]bool `json:"history"`
}

// NewUserProgress returns progress with no completions.
func NewUserProgress() UserProgress {
	return UserProgress{History: map[Day]bool{}}
}

// CompletedOn reports whether a lesson was completed on d.
func (p UserProgress) CompletedOn(d Day) bool {
	return p.History[d]
}

// LastNDays reports completion for the n days ending with today, oldest first.
func (p UserProgress) LastNDays(today Day, n int) []bool {
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = p.History[today.AddDays(i-n+1)]
	}
	return out
}

func (p UserProgress) clone() UserProgress {
	h := make(map[Day]bool, len(p.History)+1)
	for k, v := range p.History {
		h[k] = v
	}
	p.History = h
	if p.LastCompletedDate != nil {
		p.LastCompletedDate = ptr(*p.LastCompletedDate)
	}
	return p
}

// Completion is the result of completing today's lesson.
type Completion struct {
	Lesson   *DailyLesson
	Progress UserProgress
	Archive  LessonArchive
	Changed  bool
}

// Complete finalizes lesson on today and returns new progress and archive.
// The inputs are never modified, so callers commit all three results or none.
//
// Completing a nil or already completed lesson is a no-op. On a same-day
// re-entry (reachable only if the archive was edited by hand) the streak is
// left unchanged while history and archive are still refreshed.
func Complete(lesson *DailyLesson, progress UserProgress, archive LessonArchive, today Day) Completion {
	if lesson == nil || lesson.Completed {
		return Completion{Lesson: lesson, Progress: progress, Archive: archive}
	}

	next := progress.clone()
	if next.LastCompletedDate == nil {
		next.CurrentStreak = 1
	} else {
		switch diff := DaysBetween(today, *next.LastCompletedDate); {
		case diff == 1:
			next.CurrentStreak++
		case diff > 1:
			next.CurrentStreak = 1
		}
	}
	next.LongestStreak = max(next.CurrentStreak, next.LongestStreak)
	next.LastCompletedDate = ptr(today)
	next.History[today] = true

	done := *lesson
	done.Completed = true

	arch := archive.clone()
	arch[today] = done

	return Completion{Lesson: &done, Progress: next, Archive: arch, Changed: true}
}
