package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
	"github.com/aliskhannn/calearner-bot/internal/infra/auth"
	"github.com/aliskhannn/calearner-bot/internal/infra/memory"
	"github.com/aliskhannn/calearner-bot/internal/repository"
)

var errUpstream = errors.New("upstream unavailable")

type fakeGenerator struct {
	calls []entities.Track
	err   error
}

func (g *fakeGenerator) GenerateLesson(_ context.Context, track entities.Track, day entities.Day) (*entities.DailyLesson, error) {
	g.calls = append(g.calls, track)
	if g.err != nil {
		return nil, g.err
	}
	return &entities.DailyLesson{
		ID:      day,
		Track:   track.ID,
		Topic:   track.Topic,
		Title:   "About " + track.Label(),
		Content: "Lesson body",
	}, nil
}

type fakePurchases struct {
	skus []entities.SKU
	ok   bool
	err  error
}

func (p *fakePurchases) Purchase(_ context.Context, sku entities.SKU) (bool, error) {
	p.skus = append(p.skus, sku)
	return p.ok, p.err
}

type countingMetrics struct {
	generated map[string]int
	reused    int
	ads       int
	completed int
	purchases map[string]int
	denials   int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{generated: map[string]int{}, purchases: map[string]int{}}
}

func (m *countingMetrics) IncLessonsGenerated(result string) { m.generated[result]++ }
func (m *countingMetrics) IncLessonsReused()                 { m.reused++ }
func (m *countingMetrics) IncAdsShown()                      { m.ads++ }
func (m *countingMetrics) IncLessonsCompleted()              { m.completed++ }
func (m *countingMetrics) IncPurchases(sku, result string)   { m.purchases[sku+"/"+result]++ }
func (m *countingMetrics) IncEntitlementDenials()            { m.denials++ }

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func (c *clock) set(day string) {
	d := entities.MustParseDay(day)
	c.t = time.Date(d.Year, d.Month, d.Dom, 12, 0, 0, 0, time.UTC)
}

type harness struct {
	kv        *memory.KVStore
	repo      *repository.StateRepository
	generator *fakeGenerator
	purchases *fakePurchases
	metrics   *countingMetrics
	clock     *clock
	deps      SessionDeps
	lessons   *LessonController
}

func newHarness() *harness {
	h := &harness{
		kv:        memory.NewKVStore(),
		generator: &fakeGenerator{},
		purchases: &fakePurchases{ok: true},
		metrics:   newCountingMetrics(),
		clock:     &clock{},
	}
	h.clock.set("2024-01-10")

	logger := zap.NewNop()
	authSvc := auth.NewService()
	h.repo = repository.NewStateRepository(h.kv, authSvc, logger)

	h.deps = SessionDeps{
		Generator: h.generator,
		Purchases: h.purchases,
		Auth:      authSvc,
		Metrics:   h.metrics,
		Logger:    logger,
		Location:  time.UTC,
		Now:       h.clock.Now,
	}
	h.lessons = NewLessonController(h.repo, h.generator, h.metrics, logger)
	return h
}

func (h *harness) session() *Session {
	return NewSession(context.Background(), h.repo, h.deps)
}
