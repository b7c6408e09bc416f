package repository

import (
	"context"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// LoadLesson returns the lesson stored for day, if any.
func (r *StateRepository) LoadLesson(ctx context.Context, identityID string, day entities.Day) (*entities.DailyLesson, bool) {
	lesson := read[*entities.DailyLesson](ctx, r, identityID, LessonKey(day), nil)
	if lesson == nil {
		return nil, false
	}
	return lesson, true
}

// SaveLesson stores lesson under the key of its day.
func (r *StateRepository) SaveLesson(ctx context.Context, identityID string, lesson entities.DailyLesson) error {
	return r.write(ctx, identityID, LessonKey(lesson.ID), lesson)
}
