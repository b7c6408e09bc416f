package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
	"github.com/aliskhannn/calearner-bot/internal/metrics"
	"github.com/aliskhannn/calearner-bot/internal/repository"
)

var (
	ErrNotOnboarded     = errors.New("user is not onboarded")
	ErrNoLesson         = errors.New("no lesson for today")
	ErrPurchaseFailed   = errors.New("purchase failed")
	ErrNoPurchaseTarget = errors.New("no track selected for purchase")
)

// Outcome tells the caller what happened to today's lesson.
// Lesson is nil while an ad is pending or after a failed generation.
// AdAlreadyShown is set when the ad in front of the lesson was presented
// by an earlier call and is still waiting to be closed.
type Outcome struct {
	Action         Action
	Lesson         *entities.DailyLesson
	AdAlreadyShown bool
}

// SwitchResult is the result of a track switch attempt.
type SwitchResult struct {
	Switched bool
	// PurchaseTarget is the track to offer when the switch was denied.
	PurchaseTarget *entities.Track
	Outcome        Outcome
}

// SessionDeps are the collaborators shared by all sessions.
type SessionDeps struct {
	Generator LessonGenerator
	Purchases PurchaseService
	Auth      AuthService
	Metrics   Metrics
	Logger    *zap.Logger
	Location  *time.Location
	Now       func() time.Time
}

// Session owns the state of the active identity on one device. It is not
// safe for concurrent use; callers serialize operations.
type Session struct {
	repo      StateRepository
	lessons   *LessonController
	purchases PurchaseService
	auth      AuthService
	metrics   Metrics
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time

	identity *entities.Identity
	state    repository.State

	loading            bool
	purchaseProcessing bool
	adPending          bool
	adDay              entities.Day
	purchaseTarget     *entities.Track
}

// NewSession creates a guest session and loads its stored state.
func NewSession(ctx context.Context, repo StateRepository, deps SessionDeps) *Session {
	s := &Session{
		repo:      repo,
		lessons:   NewLessonController(repo, deps.Generator, deps.Metrics, deps.Logger),
		purchases: deps.Purchases,
		auth:      deps.Auth,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		loc:       deps.Location,
		now:       deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}

	s.reload(ctx)
	return s
}

// Today is the current local calendar day.
func (s *Session) Today() entities.Day {
	return entities.DayOf(s.now(), s.loc)
}

func (s *Session) Identity() *entities.Identity             { return s.identity }
func (s *Session) Settings() entities.UserSettings          { return s.state.Settings }
func (s *Session) Progress() entities.UserProgress          { return s.state.Progress }
func (s *Session) Archive() entities.LessonArchive          { return s.state.Archive }
func (s *Session) Subscription() entities.SubscriptionState { return s.state.Subscription }
func (s *Session) TodayLesson() *entities.DailyLesson       { return s.state.TodayLesson }
func (s *Session) Loading() bool                            { return s.loading }
func (s *Session) PurchaseProcessing() bool                 { return s.purchaseProcessing }
func (s *Session) AdPending() bool                          { return s.adPending }
func (s *Session) PurchaseTarget() *entities.Track          { return s.purchaseTarget }
func (s *Session) IsOwned(t entities.Track) bool            { return entities.IsOwned(t, s.state.Subscription) }
func (s *Session) identityID() string                       { return entities.IdentityID(s.identity) }

// Login switches the session to the identity of email.
func (s *Session) Login(ctx context.Context, email string) error {
	id, err := s.auth.Login(ctx, email)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s.ChangeIdentity(ctx, id)
	return nil
}

// Logout returns the session to the device's guest identity.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.auth.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.ChangeIdentity(ctx, nil)
	return nil
}

// ChangeIdentity discards all in-memory state and loads the state of id.
// A nil id is the guest.
func (s *Session) ChangeIdentity(ctx context.Context, id *entities.Identity) {
	s.identity = id
	s.reload(ctx)

	s.logger.Info("identity changed",
		zap.Bool("guest", id == nil),
		zap.Bool("onboarded", s.state.Settings.Onboarded),
	)
}

func (s *Session) reload(ctx context.Context) {
	s.state = s.repo.Load(ctx, s.identityID(), s.Today())
	s.loading = false
	s.purchaseProcessing = false
	s.adPending = false
	s.purchaseTarget = nil
}

// Onboard grants t as the free track, selects it and resolves today's lesson.
func (s *Session) Onboard(ctx context.Context, t entities.Track) (Outcome, error) {
	s.state.Subscription = s.state.Subscription.ApplyOnboarding(t)
	s.saveSubscription(ctx)

	s.state.Settings = s.state.Settings.WithOnboarding(t)
	s.saveSettings(ctx)

	return s.EnsureLessonForToday(ctx)
}

// SwitchTrack selects t when it is owned. Otherwise nothing changes and t
// becomes the purchase target.
func (s *Session) SwitchTrack(ctx context.Context, t entities.Track) (SwitchResult, error) {
	if !s.IsOwned(t) {
		s.metrics.IncEntitlementDenials()
		s.purchaseTarget = &t
		return SwitchResult{PurchaseTarget: &t}, nil
	}

	s.state.Settings = s.state.Settings.WithTrack(t)
	s.saveSettings(ctx)

	s.state.TodayLesson = nil

	out, err := s.EnsureLessonForToday(ctx)
	return SwitchResult{Switched: true, Outcome: out}, err
}

// EnsureLessonForToday makes sure today's lesson for the selected track is
// shown, pending behind an ad, or generated. Calling it again in the same
// state does nothing new.
func (s *Session) EnsureLessonForToday(ctx context.Context) (Outcome, error) {
	track, ok := s.state.Settings.Track()
	if !s.state.Settings.Onboarded || !ok {
		return Outcome{}, ErrNotOnboarded
	}

	today := s.Today()
	s.dropStale(today)

	res := s.lessons.Resolve(ctx, ResolveRequest{
		IdentityID: s.identityID(),
		Track:      track,
		Day:        today,
		Current:    s.state.TodayLesson,
		Premium:    s.state.Subscription.IsPremium,
	})

	switch res.Action {
	case ActionNoOp, ActionReuseCached:
		s.adPending = false
		s.state.TodayLesson = res.Lesson
		return Outcome{Action: res.Action, Lesson: res.Lesson}, nil
	case ActionShowAdThenGenerate:
		// One ad per generation: a pending ad is not shown again.
		if s.adPending {
			return Outcome{Action: res.Action, AdAlreadyShown: true}, nil
		}
		s.adPending = true
		s.adDay = today
		s.metrics.IncAdsShown()
		return Outcome{Action: res.Action}, nil
	default:
		s.adPending = false
		return s.generate(ctx, track, today)
	}
}

// RetryLesson is the manual retry after a failed generation.
func (s *Session) RetryLesson(ctx context.Context) (Outcome, error) {
	s.logger.Info("retrying lesson", zap.Bool("guest", s.identity == nil))
	return s.EnsureLessonForToday(ctx)
}

// CloseAd ends the pending ad and generates the lesson for the track that is
// selected now, which may differ from the one that triggered the ad.
func (s *Session) CloseAd(ctx context.Context) (Outcome, error) {
	today := s.Today()
	s.dropStale(today)

	if !s.adPending {
		return Outcome{Action: ActionNoOp, Lesson: s.state.TodayLesson}, nil
	}
	s.adPending = false

	track, ok := s.state.Settings.Track()
	if !ok {
		return Outcome{Action: ActionNoOp}, nil
	}

	return s.generate(ctx, track, today)
}

func (s *Session) generate(ctx context.Context, track entities.Track, day entities.Day) (Outcome, error) {
	s.loading = true
	defer func() { s.loading = false }()

	lesson, err := s.lessons.Generate(ctx, s.identityID(), track, day, s.state.Progress)
	if err != nil {
		s.state.TodayLesson = nil
		return Outcome{Action: ActionGenerateNow}, err
	}

	s.state.TodayLesson = lesson
	return Outcome{Action: ActionGenerateNow, Lesson: lesson}, nil
}

// dropStale forgets a lesson held from a previous day and an ad that
// became pending on one.
func (s *Session) dropStale(today entities.Day) {
	if l := s.state.TodayLesson; l != nil && l.ID != today {
		s.state.TodayLesson = nil
	}
	if s.adPending && s.adDay != today {
		s.adPending = false
	}
}

// CompleteLesson marks today's lesson done and advances the streak.
// Completing it again changes nothing.
func (s *Session) CompleteLesson(ctx context.Context) (entities.Completion, error) {
	today := s.Today()
	s.dropStale(today)

	if s.state.TodayLesson == nil {
		return entities.Completion{}, ErrNoLesson
	}

	c := entities.Complete(s.state.TodayLesson, s.state.Progress, s.state.Archive, today)
	if !c.Changed {
		return c, nil
	}

	s.state.TodayLesson = c.Lesson
	s.state.Progress = c.Progress
	s.state.Archive = c.Archive
	s.metrics.IncLessonsCompleted()

	if err := s.repo.SaveCompletion(ctx, s.identityID(), c); err != nil {
		s.logger.Warn("failed to save completion", zap.Error(err))
	}

	s.logger.Info("lesson completed",
		zap.String("day", today.String()),
		zap.Int("current_streak", c.Progress.CurrentStreak),
		zap.Int("longest_streak", c.Progress.LongestStreak),
	)

	return c, nil
}

// PurchaseSubscription buys plan. It reports false when the user declined.
func (s *Session) PurchaseSubscription(ctx context.Context, plan entities.PremiumType) (bool, error) {
	sku, err := entities.PlanSKU(plan)
	if err != nil {
		return false, err
	}

	ok, err := s.purchase(ctx, sku, entities.Track{})
	if err != nil || !ok {
		return false, err
	}

	s.purchaseTarget = nil
	return true, nil
}

// PurchaseTrack buys the current purchase target and switches to it.
func (s *Session) PurchaseTrack(ctx context.Context) (SwitchResult, error) {
	if s.purchaseTarget == nil {
		return SwitchResult{}, ErrNoPurchaseTarget
	}
	target := *s.purchaseTarget

	ok, err := s.purchase(ctx, entities.TrackSKU(target), target)
	if err != nil || !ok {
		return SwitchResult{PurchaseTarget: &target}, err
	}

	s.purchaseTarget = nil
	return s.SwitchTrack(ctx, target)
}

// purchase runs the store flow and applies it. Nothing changes unless the
// store reports success.
func (s *Session) purchase(ctx context.Context, sku entities.SKU, target entities.Track) (bool, error) {
	s.purchaseProcessing = true
	defer func() { s.purchaseProcessing = false }()

	ok, err := s.purchases.Purchase(ctx, sku)
	if err != nil {
		s.metrics.IncPurchases(string(sku), metrics.ResultFailed)
		s.logger.Error("purchase failed", zap.String("sku", string(sku)), zap.Error(err))
		return false, fmt.Errorf("%w: %w", ErrPurchaseFailed, err)
	}
	if !ok {
		s.metrics.IncPurchases(string(sku), metrics.ResultDeclined)
		return false, nil
	}

	sub, err := s.state.Subscription.ApplyPurchase(sku, target)
	if err != nil {
		return false, err
	}
	s.metrics.IncPurchases(string(sku), metrics.ResultOK)

	s.state.Subscription = sub
	s.saveSubscription(ctx)

	s.logger.Info("purchase completed", zap.String("sku", string(sku)))
	return true, nil
}

// ToggleTheme flips dark mode.
func (s *Session) ToggleTheme(ctx context.Context) {
	s.state.Settings = s.state.Settings.WithToggledTheme()
	s.saveSettings(ctx)
}

// ResetProgress clears streaks, archive and today's lesson. Settings and
// entitlements are kept.
func (s *Session) ResetProgress(ctx context.Context) {
	s.state.Progress = entities.NewUserProgress()
	s.state.Archive = entities.NewLessonArchive()
	s.state.TodayLesson = nil
	s.adPending = false

	if err := s.repo.ResetProgress(ctx, s.identityID(), s.Today()); err != nil {
		s.logger.Warn("failed to reset stored progress", zap.Error(err))
	}
}

func (s *Session) saveSettings(ctx context.Context) {
	if err := s.repo.SaveSettings(ctx, s.identityID(), s.state.Settings); err != nil {
		s.logger.Warn("failed to save settings", zap.Error(err))
	}
}

func (s *Session) saveSubscription(ctx context.Context) {
	if err := s.repo.SaveSubscription(ctx, s.identityID(), s.state.Subscription); err != nil {
		s.logger.Warn("failed to save subscription", zap.Error(err))
	}
}
