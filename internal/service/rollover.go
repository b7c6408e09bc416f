package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

// DefaultRolloverSpec fires at local midnight.
const DefaultRolloverSpec = "0 0 * * *"

// Rollover announces the start of a new local day.
type Rollover struct {
	spec   string
	loc    *time.Location
	now    func() time.Time
	ticks  chan entities.Day
	logger *zap.Logger
}

func NewRollover(spec string, loc *time.Location, logger *zap.Logger) *Rollover {
	if spec == "" {
		spec = DefaultRolloverSpec
	}
	return &Rollover{
		spec:   spec,
		loc:    loc,
		now:    time.Now,
		ticks:  make(chan entities.Day, 1),
		logger: logger,
	}
}

// Ticks delivers the new day. A tick that is not consumed before the next
// one is replaced by it.
func (r *Rollover) Ticks() <-chan entities.Day {
	return r.ticks
}

// Start runs the scheduler until ctx is done.
func (r *Rollover) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(r.loc))

	_, err := c.AddFunc(r.spec, r.tick)
	if err != nil {
		r.logger.Error("failed to add rollover job", zap.String("spec", r.spec), zap.Error(err))
		return
	}

	c.Start()
	r.logger.Info("rollover scheduler started", zap.String("spec", r.spec))

	<-ctx.Done()

	c.Stop()
	r.logger.Info("rollover scheduler stopped")
}

func (r *Rollover) tick() {
	day := entities.DayOf(r.now(), r.loc)

	select {
	case r.ticks <- day:
	default:
		select {
		case <-r.ticks:
		default:
		}
		r.ticks <- day
	}

	r.logger.Info("day rollover", zap.String("day", day.String()))
}
