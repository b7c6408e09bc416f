package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
	"github.com/aliskhannn/calearner-bot/internal/metrics"
)

var (
	health   = entities.NewTrack(entities.TrackHealth, "")
	science  = entities.NewTrack(entities.TrackScience, "")
	finance  = entities.NewTrack(entities.TrackFinance, "")
	stoicism = entities.NewTrack(entities.TrackCustom, "Stoicism")
)

func onboarded(t *testing.T, h *harness, track entities.Track) *Session {
	t.Helper()
	s := h.session()
	out, err := s.Onboard(context.Background(), track)
	require.NoError(t, err)
	require.Equal(t, ActionShowAdThenGenerate, out.Action)
	_, err = s.CloseAd(context.Background())
	require.NoError(t, err)
	require.NotNil(t, s.TodayLesson())
	return s
}

func TestSession_OnboardCustomStoicism(t *testing.T) {
	h := newHarness()
	s := h.session()
	ctx := context.Background()

	out, err := s.Onboard(ctx, stoicism)
	require.NoError(t, err)

	sub := s.Subscription()
	require.NotNil(t, sub.FreeTrackID)
	assert.Equal(t, entities.TrackCustom, *sub.FreeTrackID)
	assert.Equal(t, []string{"stoicism"}, sub.PurchasedCustomTopics)
	assert.True(t, s.IsOwned(entities.NewTrack(entities.TrackCustom, "Stoicism")))
	assert.False(t, s.IsOwned(entities.NewTrack(entities.TrackCustom, "Yoga")))

	assert.True(t, s.Settings().Onboarded)
	assert.Equal(t, ActionShowAdThenGenerate, out.Action)
	assert.True(t, s.AdPending())
	assert.Empty(t, h.generator.calls)

	out, err = s.CloseAd(ctx)
	require.NoError(t, err)
	require.NotNil(t, out.Lesson)
	assert.Equal(t, "Stoicism", out.Lesson.Topic)
	assert.Equal(t, []entities.Track{stoicism}, h.generator.calls)
	assert.False(t, s.AdPending())
	assert.False(t, s.Loading())
}

func TestSession_EnsureLessonIsIdempotent(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)
	ctx := context.Background()

	for range 3 {
		out, err := s.EnsureLessonForToday(ctx)
		require.NoError(t, err)
		assert.Equal(t, ActionNoOp, out.Action)
	}
	assert.Len(t, h.generator.calls, 1)
	assert.Equal(t, 1, h.metrics.ads)
}

func TestSession_PendingAdIsShownOnce(t *testing.T) {
	h := newHarness()
	s := h.session()
	ctx := context.Background()

	first, err := s.Onboard(ctx, health)
	require.NoError(t, err)
	assert.False(t, first.AdAlreadyShown)

	again, err := s.EnsureLessonForToday(ctx)
	require.NoError(t, err)

	assert.Equal(t, ActionShowAdThenGenerate, again.Action)
	assert.True(t, again.AdAlreadyShown)
	assert.Equal(t, 1, h.metrics.ads)
	assert.True(t, s.AdPending())
}

func TestSession_AdFromPreviousDayExpires(t *testing.T) {
	h := newHarness()
	s := h.session()
	ctx := context.Background()

	_, err := s.Onboard(ctx, health)
	require.NoError(t, err)
	require.True(t, s.AdPending())

	h.clock.set("2024-01-11")

	out, err := s.EnsureLessonForToday(ctx)
	require.NoError(t, err)

	assert.Equal(t, ActionShowAdThenGenerate, out.Action)
	assert.False(t, out.AdAlreadyShown, "the new day gets its own ad")
	assert.Equal(t, 2, h.metrics.ads)
	assert.Empty(t, h.generator.calls)
}

func TestSession_CloseAdFromPreviousDayDoesNotGenerate(t *testing.T) {
	h := newHarness()
	s := h.session()
	ctx := context.Background()

	_, err := s.Onboard(ctx, health)
	require.NoError(t, err)

	h.clock.set("2024-01-11")

	out, err := s.CloseAd(ctx)
	require.NoError(t, err)

	assert.Equal(t, ActionNoOp, out.Action)
	assert.Nil(t, out.Lesson)
	assert.False(t, s.AdPending())
	assert.Empty(t, h.generator.calls)
}

func TestSession_EnsureRequiresOnboarding(t *testing.T) {
	_, err := newHarness().session().EnsureLessonForToday(context.Background())
	assert.ErrorIs(t, err, ErrNotOnboarded)
}

func TestSession_CachedLessonSkipsAdAfterReload(t *testing.T) {
	h := newHarness()
	onboarded(t, h, health)

	s := h.session()
	require.NotNil(t, s.TodayLesson(), "today's lesson is loaded with the rest of the state")

	out, err := s.EnsureLessonForToday(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionNoOp, out.Action)
	assert.Len(t, h.generator.calls, 1)
	assert.Equal(t, 1, h.metrics.ads)
}

func TestSession_DeniedTrackOpensPurchaseFlow(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)
	ctx := context.Background()
	before := *s.TodayLesson()
	settings := s.Settings()

	res, err := s.SwitchTrack(ctx, science)
	require.NoError(t, err)

	assert.False(t, res.Switched)
	require.NotNil(t, res.PurchaseTarget)
	assert.Equal(t, science, *res.PurchaseTarget)
	assert.Equal(t, settings, s.Settings())
	assert.Equal(t, before, *s.TodayLesson())
	assert.Len(t, h.generator.calls, 1, "no lesson fetch")
	assert.Equal(t, 1, h.metrics.denials)
}

func TestSession_AdCloseUsesCurrentlySelectedTrack(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)
	ctx := context.Background()

	ok, err := s.PurchaseSubscription(ctx, entities.PremiumMonthly)
	require.NoError(t, err)
	require.True(t, ok)

	// Drop premium by hand so the next generation is gated again.
	sub := s.Subscription()
	sub.IsPremium = false
	sub.PurchasedTracks = []entities.TrackID{entities.TrackScience, entities.TrackFinance}
	s.state.Subscription = sub

	res, err := s.SwitchTrack(ctx, science)
	require.NoError(t, err)
	require.True(t, res.Switched)
	assert.Equal(t, ActionShowAdThenGenerate, res.Outcome.Action)

	res, err = s.SwitchTrack(ctx, finance)
	require.NoError(t, err)
	assert.Equal(t, ActionShowAdThenGenerate, res.Outcome.Action)

	out, err := s.CloseAd(ctx)
	require.NoError(t, err)

	require.NotNil(t, out.Lesson)
	assert.Equal(t, entities.TrackFinance, out.Lesson.Track)
	assert.Equal(t, []entities.Track{health, finance}, h.generator.calls)
	assert.Equal(t, 2, h.metrics.ads, "the pending ad is not shown twice")
}

func TestSession_CloseAdWithoutPendingAdDoesNothing(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)

	out, err := s.CloseAd(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ActionNoOp, out.Action)
	assert.Len(t, h.generator.calls, 1)
}

func TestSession_GenerationFailureAndRetry(t *testing.T) {
	h := newHarness()
	s := h.session()
	ctx := context.Background()
	h.generator.err = errUpstream

	_, err := s.Onboard(ctx, health)
	require.NoError(t, err)
	out, err := s.CloseAd(ctx)

	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Nil(t, out.Lesson)
	assert.Nil(t, s.TodayLesson())
	assert.False(t, s.Loading())

	h.generator.err = nil
	out, err = s.RetryLesson(ctx)
	require.NoError(t, err)
	assert.Equal(t, ActionShowAdThenGenerate, out.Action)

	out, err = s.CloseAd(ctx)
	require.NoError(t, err)
	require.NotNil(t, out.Lesson)
	assert.Len(t, h.generator.calls, 2)
}

func TestSession_CompleteLesson(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)
	ctx := context.Background()

	c, err := s.CompleteLesson(ctx)
	require.NoError(t, err)
	require.True(t, c.Changed)
	assert.Equal(t, 1, s.Progress().CurrentStreak)
	assert.True(t, s.TodayLesson().Completed)

	again, err := s.CompleteLesson(ctx)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, 1, s.Progress().CurrentStreak)
	assert.Equal(t, 1, h.metrics.completed)

	reloaded := h.session()
	assert.Equal(t, s.Progress(), reloaded.Progress())
	assert.Equal(t, s.Archive(), reloaded.Archive())
	assert.True(t, reloaded.TodayLesson().Completed)
}

func TestSession_CompleteWithoutLesson(t *testing.T) {
	_, err := newHarness().session().CompleteLesson(context.Background())
	assert.ErrorIs(t, err, ErrNoLesson)
}

func TestSession_StreakAcrossDays(t *testing.T) {
	h := newHarness()
	h.deps.Metrics = metrics.Noop{}
	s := onboarded(t, h, health)
	ctx := context.Background()

	ok, err := s.PurchaseSubscription(ctx, entities.PremiumLifetime)
	require.NoError(t, err)
	require.True(t, ok)

	for i, day := range []string{"2024-01-10", "2024-01-11", "2024-01-12", "2024-01-15"} {
		h.clock.set(day)
		_, err := s.EnsureLessonForToday(ctx)
		require.NoError(t, err, day)
		require.NotNil(t, s.TodayLesson(), day)
		assert.Equal(t, day, s.TodayLesson().ID.String())

		_, err = s.CompleteLesson(ctx)
		require.NoError(t, err, day)
		assert.Equal(t, []int{1, 2, 3, 1}[i], s.Progress().CurrentStreak, day)
	}
	assert.Equal(t, 3, s.Progress().LongestStreak)
	assert.Len(t, s.Archive(), 4)
}

func TestSession_SwitchAfterCompletionKeepsDayDone(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)
	ctx := context.Background()

	_, err := s.CompleteLesson(ctx)
	require.NoError(t, err)
	ok, err := s.PurchaseSubscription(ctx, entities.PremiumYearly)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := s.SwitchTrack(ctx, science)
	require.NoError(t, err)

	assert.Equal(t, ActionGenerateNow, res.Outcome.Action)
	require.NotNil(t, res.Outcome.Lesson)
	assert.True(t, res.Outcome.Lesson.Completed)
	assert.Equal(t, 1, s.Progress().CurrentStreak)
}

func TestSession_PurchaseTrackThenSwitch(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)
	ctx := context.Background()

	res, err := s.SwitchTrack(ctx, entities.NewTrack(entities.TrackCustom, "Jazz"))
	require.NoError(t, err)
	require.False(t, res.Switched)

	res, err = s.PurchaseTrack(ctx)
	require.NoError(t, err)

	assert.True(t, res.Switched)
	assert.Equal(t, []entities.SKU{entities.SKUTrackCustom}, h.purchases.skus)
	assert.Contains(t, s.Subscription().PurchasedCustomTopics, "jazz")
	tr, _ := s.Settings().Track()
	assert.Equal(t, entities.NewTrack(entities.TrackCustom, "Jazz"), tr)
	assert.Nil(t, s.PurchaseTarget())
	assert.False(t, s.PurchaseProcessing())
	assert.Equal(t, 1, h.metrics.purchases["track_custom/"+metrics.ResultOK])
}

func TestSession_PurchaseTrackWithoutTarget(t *testing.T) {
	_, err := newHarness().session().PurchaseTrack(context.Background())
	assert.ErrorIs(t, err, ErrNoPurchaseTarget)
}

func TestSession_PurchaseFailureMutatesNothing(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)
	ctx := context.Background()
	h.purchases.err = errUpstream
	before := s.Subscription()

	ok, err := s.PurchaseSubscription(ctx, entities.PremiumYearly)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrPurchaseFailed)

	_, err = s.SwitchTrack(ctx, science)
	require.NoError(t, err)
	res, err := s.PurchaseTrack(ctx)
	assert.ErrorIs(t, err, ErrPurchaseFailed)
	assert.False(t, res.Switched)

	assert.Equal(t, before, s.Subscription())
	assert.Equal(t, before, h.session().Subscription())
	assert.False(t, s.PurchaseProcessing())
	require.NotNil(t, s.PurchaseTarget(), "target stays for another attempt")
}

func TestSession_DeclinedPurchase(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)
	h.purchases.ok = false

	ok, err := s.PurchaseSubscription(context.Background(), entities.PremiumMonthly)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.Subscription().IsPremium)
	assert.Equal(t, 1, h.metrics.purchases["sub_monthly/"+metrics.ResultDeclined])
}

func TestSession_ChangeIdentity(t *testing.T) {
	h := newHarness()
	guest := onboarded(t, h, health)
	ctx := context.Background()
	_, err := guest.CompleteLesson(ctx)
	require.NoError(t, err)

	require.NoError(t, guest.Login(ctx, "reader@example.com"))

	require.NotNil(t, guest.Identity())
	assert.False(t, guest.Settings().Onboarded)
	assert.Equal(t, entities.NewUserProgress(), guest.Progress())
	assert.Nil(t, guest.TodayLesson())

	_, err = guest.Onboard(ctx, science)
	require.NoError(t, err)

	require.NoError(t, guest.Logout(ctx))
	assert.Nil(t, guest.Identity())
	assert.Equal(t, 1, guest.Progress().CurrentStreak)
	tr, _ := guest.Settings().Track()
	assert.Equal(t, health, tr)

	require.NoError(t, guest.Login(ctx, "READER@example.com"))
	tr, _ = guest.Settings().Track()
	assert.Equal(t, science, tr)
}

func TestSession_LoginRejectsInvalidEmail(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)

	err := s.Login(context.Background(), "nope")

	assert.Error(t, err)
	assert.Nil(t, s.Identity())
	assert.True(t, s.Settings().Onboarded)
}

func TestSession_ToggleTheme(t *testing.T) {
	h := newHarness()
	s := h.session()

	s.ToggleTheme(context.Background())

	assert.True(t, s.Settings().DarkMode)
	assert.True(t, h.session().Settings().DarkMode)
}

func TestSession_ResetProgress(t *testing.T) {
	h := newHarness()
	s := onboarded(t, h, health)
	ctx := context.Background()
	_, err := s.CompleteLesson(ctx)
	require.NoError(t, err)
	sub := s.Subscription()

	s.ResetProgress(ctx)

	assert.Equal(t, entities.NewUserProgress(), s.Progress())
	assert.Empty(t, s.Archive())
	assert.Nil(t, s.TodayLesson())
	assert.Equal(t, sub, s.Subscription())
	assert.True(t, s.Settings().Onboarded)

	reloaded := h.session()
	assert.Equal(t, 0, reloaded.Progress().CurrentStreak)
	assert.Nil(t, reloaded.TodayLesson())
	assert.Equal(t, sub, reloaded.Subscription())
}
