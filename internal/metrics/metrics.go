// Package metrics exposes bot counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics is what the bot reports.
type Metrics interface {
	IncLessonsGenerated(result string)
	IncLessonsReused()
	IncAdsShown()
	IncLessonsCompleted()
	IncPurchases(sku, result string)
	IncEntitlementDenials()
	IncCacheHits()
	IncCacheMisses()
}

// Results used as label values.
const (
	ResultOK       = "ok"
	ResultFailed   = "failed"
	ResultDeclined = "declined"
)

type Provider struct {
	lessonsGenerated   *prometheus.CounterVec
	lessonsReused      prometheus.Counter
	adsShown           prometheus.Counter
	lessonsCompleted   prometheus.Counter
	purchases          *prometheus.CounterVec
	entitlementDenials prometheus.Counter
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
}

// New registers the counters on reg. When disabled a no-op is returned.
func New(enabled bool, reg prometheus.Registerer) Metrics {
	if !enabled {
		return Noop{}
	}

	f := promauto.With(reg)
	return &Provider{
		lessonsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "calearner_lessons_generated_total",
			Help: "Lesson generation requests by result",
		}, []string{"result"}),
		lessonsReused: f.NewCounter(prometheus.CounterOpts{
			Name: "calearner_lessons_reused_total",
			Help: "Lessons served from storage without generation",
		}),
		adsShown: f.NewCounter(prometheus.CounterOpts{
			Name: "calearner_ads_shown_total",
			Help: "Interstitial ads shown before generation",
		}),
		lessonsCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "calearner_lessons_completed_total",
			Help: "Lessons marked as done",
		}),
		purchases: f.NewCounterVec(prometheus.CounterOpts{
			Name: "calearner_purchases_total",
			Help: "Purchase attempts by sku and result",
		}, []string{"sku", "result"}),
		entitlementDenials: f.NewCounter(prometheus.CounterOpts{
			Name: "calearner_entitlement_denials_total",
			Help: "Track switches that required a purchase",
		}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "calearner_cache_hits_total",
			Help: "Total number of storage cache hits",
		}),
		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "calearner_cache_misses_total",
			Help: "Total number of storage cache misses",
		}),
	}
}

func (p *Provider) IncLessonsGenerated(result string) {
	p.lessonsGenerated.WithLabelValues(result).Inc()
}

func (p *Provider) IncLessonsReused()      { p.lessonsReused.Inc() }
func (p *Provider) IncAdsShown()           { p.adsShown.Inc() }
func (p *Provider) IncLessonsCompleted()   { p.lessonsCompleted.Inc() }
func (p *Provider) IncEntitlementDenials() { p.entitlementDenials.Inc() }
func (p *Provider) IncCacheHits()          { p.cacheHits.Inc() }
func (p *Provider) IncCacheMisses()        { p.cacheMisses.Inc() }

func (p *Provider) IncPurchases(sku, result string) {
	p.purchases.WithLabelValues(sku, result).Inc()
}

// Noop is used when metrics are disabled.
type Noop struct{}

func (Noop) IncLessonsGenerated(string)  {}
func (Noop) IncLessonsReused()           {}
func (Noop) IncAdsShown()                {}
func (Noop) IncLessonsCompleted()        {}
func (Noop) IncPurchases(string, string) {}
func (Noop) IncEntitlementDenials()      {}
func (Noop) IncCacheHits()               {}
func (Noop) IncCacheMisses()             {}

// Serve exposes g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server started", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
