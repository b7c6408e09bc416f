package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
	"github.com/aliskhannn/calearner-bot/internal/metrics"
)

var ErrGenerationFailed = errors.New("lesson generation failed")

// Action is what has to happen to show today's lesson.
type Action int

const (
	ActionNoOp Action = iota
	ActionReuseCached
	ActionShowAdThenGenerate
	ActionGenerateNow
)

func (a Action) String() string {
	switch a {
	case ActionNoOp:
		return "noop"
	case ActionReuseCached:
		return "reuse_cached"
	case ActionShowAdThenGenerate:
		return "show_ad_then_generate"
	case ActionGenerateNow:
		return "generate_now"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ResolveRequest describes the lesson the user wants to see.
type ResolveRequest struct {
	IdentityID string
	Track      entities.Track
	Day        entities.Day
	Current    *entities.DailyLesson // lesson already held in memory
	Premium    bool
}

// Resolution is the decision for a ResolveRequest. Lesson is set for
// ActionNoOp and ActionReuseCached.
type Resolution struct {
	Action Action
	Lesson *entities.DailyLesson
}

// LessonController decides whether today's lesson is reused, generated,
// or gated behind an ad, and runs generation.
type LessonController struct {
	repo      StateRepository
	generator LessonGenerator
	metrics   Metrics
	logger    *zap.Logger
}

func NewLessonController(repo StateRepository, generator LessonGenerator, m Metrics, logger *zap.Logger) *LessonController {
	return &LessonController{
		repo:      repo,
		generator: generator,
		metrics:   m,
		logger:    logger,
	}
}

// Resolve never calls the generator.
func (c *LessonController) Resolve(ctx context.Context, req ResolveRequest) Resolution {
	if cur := req.Current; cur != nil && cur.ID == req.Day && cur.Matches(req.Track) {
		return Resolution{Action: ActionNoOp, Lesson: cur}
	}

	if stored, ok := c.repo.LoadLesson(ctx, req.IdentityID, req.Day); ok && stored.Matches(req.Track) {
		c.metrics.IncLessonsReused()
		return Resolution{Action: ActionReuseCached, Lesson: stored}
	}

	if req.Premium {
		return Resolution{Action: ActionGenerateNow}
	}
	return Resolution{Action: ActionShowAdThenGenerate}
}

// Generate requests a new lesson for track on day and stores it. The lesson
// is born completed when progress already has a completion for day.
func (c *LessonController) Generate(
	ctx context.Context,
	identityID string,
	track entities.Track,
	day entities.Day,
	progress entities.UserProgress,
) (*entities.DailyLesson, error) {
	lesson, err := c.generator.GenerateLesson(ctx, track, day)
	if err != nil {
		c.metrics.IncLessonsGenerated(metrics.ResultFailed)
		c.logger.Error("failed to generate lesson",
			zap.String("track", string(track.ID)),
			zap.String("day", day.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	c.metrics.IncLessonsGenerated(metrics.ResultOK)

	lesson.ID = day
	lesson.Track = track.ID
	lesson.Topic = track.Topic
	lesson.Completed = progress.CompletedOn(day)

	if err := c.repo.SaveLesson(ctx, identityID, *lesson); err != nil {
		c.logger.Warn("failed to save lesson", zap.String("day", day.String()), zap.Error(err))
	}

	return lesson, nil
}
