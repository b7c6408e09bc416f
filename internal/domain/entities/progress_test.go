package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessonFor(day string) *DailyLesson {
	return &DailyLesson{ID: MustParseDay(day), Track: TrackHealth, Title: "Sleep", Content: "Go to bed."}
}

func TestComplete_FirstEver(t *testing.T) {
	today := MustParseDay("2024-01-10")

	res := Complete(lessonFor("2024-01-10"), NewUserProgress(), NewLessonArchive(), today)

	require.True(t, res.Changed)
	assert.Equal(t, 1, res.Progress.CurrentStreak)
	assert.Equal(t, 1, res.Progress.LongestStreak)
	require.NotNil(t, res.Progress.LastCompletedDate)
	assert.Equal(t, today, *res.Progress.LastCompletedDate)
	assert.Equal(t, map[Day]bool{today: true}, res.Progress.History)
	assert.True(t, res.Lesson.Completed)
	assert.Equal(t, *res.Lesson, res.Archive[today])
}

func TestComplete_ConsecutiveDayIncrements(t *testing.T) {
	last := MustParseDay("2024-01-10")
	progress := UserProgress{CurrentStreak: 4, LongestStreak: 9, LastCompletedDate: &last, History: map[Day]bool{last: true}}

	res := Complete(lessonFor("2024-01-11"), progress, NewLessonArchive(), MustParseDay("2024-01-11"))

	assert.Equal(t, 5, res.Progress.CurrentStreak)
	assert.Equal(t, 9, res.Progress.LongestStreak)
	assert.Len(t, res.Progress.History, 2)
}

func TestComplete_GapResetsStreak(t *testing.T) {
	last := MustParseDay("2024-01-10")
	progress := UserProgress{CurrentStreak: 4, LongestStreak: 4, LastCompletedDate: &last, History: map[Day]bool{last: true}}

	res := Complete(lessonFor("2024-01-15"), progress, NewLessonArchive(), MustParseDay("2024-01-15"))

	assert.Equal(t, 1, res.Progress.CurrentStreak)
	assert.Equal(t, 4, res.Progress.LongestStreak)
}

func TestComplete_SameDayKeepsStreak(t *testing.T) {
	last := MustParseDay("2024-01-10")
	progress := UserProgress{CurrentStreak: 3, LongestStreak: 3, LastCompletedDate: &last, History: map[Day]bool{last: true}}

	res := Complete(lessonFor("2024-01-10"), progress, NewLessonArchive(), last)

	assert.True(t, res.Changed)
	assert.Equal(t, 3, res.Progress.CurrentStreak)
}

func TestComplete_Idempotent(t *testing.T) {
	today := MustParseDay("2024-03-01")
	first := Complete(lessonFor("2024-03-01"), NewUserProgress(), NewLessonArchive(), today)

	second := Complete(first.Lesson, first.Progress, first.Archive, today)

	assert.False(t, second.Changed)
	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, first.Archive, second.Archive)
}

func TestComplete_NilLessonIsNoop(t *testing.T) {
	progress := NewUserProgress()
	res := Complete(nil, progress, NewLessonArchive(), MustParseDay("2024-03-01"))

	assert.False(t, res.Changed)
	assert.Nil(t, res.Lesson)
	assert.Equal(t, progress, res.Progress)
}

func TestComplete_DoesNotMutateInputs(t *testing.T) {
	lesson := lessonFor("2024-03-02")
	progress := NewUserProgress()
	archive := NewLessonArchive()

	Complete(lesson, progress, archive, MustParseDay("2024-03-02"))

	assert.False(t, lesson.Completed)
	assert.Empty(t, progress.History)
	assert.Empty(t, archive)
}

func TestComplete_StreakSequence(t *testing.T) {
	progress := NewUserProgress()
	archive := NewLessonArchive()
	longest := 0

	days := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-04", "2024-03-05"}
	want := []int{1, 2, 3, 4, 1, 2}

	for i, d := range days {
		res := Complete(lessonFor(d), progress, archive, MustParseDay(d))
		progress, archive = res.Progress, res.Archive

		assert.Equal(t, want[i], progress.CurrentStreak, d)
		assert.GreaterOrEqual(t, progress.LongestStreak, longest)
		assert.GreaterOrEqual(t, progress.LongestStreak, progress.CurrentStreak)
		longest = progress.LongestStreak
	}
	assert.Equal(t, 4, longest)
	assert.Len(t, archive, len(days))
}

func TestLastNDays(t *testing.T) {
	p := NewUserProgress()
	p.History[MustParseDay("2024-01-08")] = true
	p.History[MustParseDay("2024-01-10")] = true

	got := p.LastNDays(MustParseDay("2024-01-10"), 4)

	assert.Equal(t, []bool{false, true, false, true}, got)
}

func TestLessonArchive_SortedNewestFirst(t *testing.T) {
	a := NewLessonArchive()
	for _, d := range []string{"2024-01-02", "2024-03-01", "2023-12-31"} {
		a[MustParseDay(d)] = *lessonFor(d)
	}

	sorted := a.Sorted()

	require.Len(t, sorted, 3)
	assert.Equal(t, "2024-03-01", sorted[0].ID.String())
	assert.Equal(t, "2023-12-31", sorted[2].ID.String())
}
