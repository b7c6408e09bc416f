package service

import (
	"context"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
	"github.com/aliskhannn/calearner-bot/internal/repository"
)

// LessonGenerator produces the content of a lesson.
type LessonGenerator interface {
	GenerateLesson(ctx context.Context, track entities.Track, day entities.Day) (*entities.DailyLesson, error)
}

// PurchaseService runs the platform purchase flow for one product.
type PurchaseService interface {
	Purchase(ctx context.Context, sku entities.SKU) (bool, error)
}

// AuthService signs users in and out.
type AuthService interface {
	Login(ctx context.Context, email string) (*entities.Identity, error)
	Logout(ctx context.Context) error
}

// StateRepository persists the state of one identity.
type StateRepository interface {
	Load(ctx context.Context, identityID string, today entities.Day) repository.State
	LoadLesson(ctx context.Context, identityID string, day entities.Day) (*entities.DailyLesson, bool)
	SaveSettings(ctx context.Context, identityID string, settings entities.UserSettings) error
	SaveSubscription(ctx context.Context, identityID string, sub entities.SubscriptionState) error
	SaveLesson(ctx context.Context, identityID string, lesson entities.DailyLesson) error
	SaveCompletion(ctx context.Context, identityID string, c entities.Completion) error
	ResetProgress(ctx context.Context, identityID string, today entities.Day) error
}

// Metrics records engine events.
type Metrics interface {
	IncLessonsGenerated(result string)
	IncLessonsReused()
	IncAdsShown()
	IncLessonsCompleted()
	IncPurchases(sku, result string)
	IncEntitlementDenials()
}
