// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/validate"
)

type Metrics struct {
	Score             prometheus.Gauge
	MissStreak        prometheus.Gauge
	MatchRemaining    prometheus.Gauge
	ResponseRemaining prometheus.Gauge
	RoundsCompleted   prometheus.Counter
	Misses            prometheus.Counter
	Matches           prometheus.Counter
	Hits              *prometheus.CounterVec
	TickLatency       prometheus.Histogram
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Current match score",
		}),
		MissStreak: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "miss_streak",
			Help:      "Misses since the last penalty",
		}),
		MatchRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "match_remaining_seconds",
			Help:      "Time left in the match",
		}),
		ResponseRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "response_remaining_seconds",
			Help:      "Time left to reproduce the sequence",
		}),
		RoundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_completed_total",
			Help:      "Sequences reproduced correctly",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misses_total",
			Help:      "Wrong drums and response timeouts",
		}),
		Matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_finished_total",
			Help:      "Matches that ran out of time",
		}),
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Drum hits by verdict",
		}, []string{"verdict"}),
		TickLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_latency_seconds",
			Help:      "Time spent processing one tick",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 12),
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.Score,
		m.MissStreak,
		m.MatchRemaining,
		m.ResponseRemaining,
		m.RoundsCompleted,
		m.Misses,
		m.Matches,
		m.Hits,
		m.TickLatency,
	)

	return m
}

// Monitor turns controller snapshots into metrics. Counters are derived from
// snapshot deltas so that a reset match does not decrement them.
type Monitor struct {
	metrics   *Metrics
	startTime time.Time
	last      game.Snapshot
	hitCount  int64
	mutex     sync.Mutex
}

func NewMonitor(namespace string, reg prometheus.Registerer) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace, reg),
		startTime: time.Now(),
	}
}

func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/vars", expvar.Handler())

	// 添加expvar指标
	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	expvar.Publish("hits", expvar.Func(func() interface{} {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.hitCount
	}))

	go http.ListenAndServe(addr, mux)
}

// OnSnapshot records the state after a tick or hit.
func (m *Monitor) OnSnapshot(s game.Snapshot) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.metrics.Score.Set(float64(s.Score))
	m.metrics.MissStreak.Set(float64(s.MissCount))
	m.metrics.MatchRemaining.Set(s.MatchTimeRemaining.Seconds())
	m.metrics.ResponseRemaining.Set(s.ResponseTimeRemaining.Seconds())

	if s.MatchID == m.last.MatchID {
		if d := s.RoundsCompleted - m.last.RoundsCompleted; d > 0 {
			m.metrics.RoundsCompleted.Add(float64(d))
		}
		if d := s.TotalMisses - m.last.TotalMisses; d > 0 {
			m.metrics.Misses.Add(float64(d))
		}
	}
	if s.Phase == game.PhaseMatchOver && (m.last.Phase != game.PhaseMatchOver || s.MatchID != m.last.MatchID) {
		m.metrics.Matches.Inc()
	}
	m.last = s
}

func (m *Monitor) OnHit(v validate.Verdict) {
	m.metrics.Hits.WithLabelValues(v.String()).Inc()
	m.mutex.Lock()
	m.hitCount++
	m.mutex.Unlock()
}

func (m *Monitor) ObserveTickLatency(duration time.Duration) {
	m.metrics.TickLatency.Observe(duration.Seconds())
}
