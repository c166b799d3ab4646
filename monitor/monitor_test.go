package monitor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/validate"
)

func TestMonitor_OnSnapshot(t *testing.T) {
	m := NewMonitor("test", prometheus.NewRegistry())
	metrics := m.Metrics()

	m.OnSnapshot(game.Snapshot{
		MatchID:               "a",
		Phase:                 game.PhaseAwaitingInput,
		Score:                 5,
		MissCount:             2,
		MatchTimeRemaining:    30 * time.Second,
		ResponseTimeRemaining: 4 * time.Second,
	})

	if v := testutil.ToFloat64(metrics.Score); v != 5 {
		t.Errorf("Expected score 5, got %v", v)
	}
	if v := testutil.ToFloat64(metrics.MissStreak); v != 2 {
		t.Errorf("Expected miss streak 2, got %v", v)
	}
	if v := testutil.ToFloat64(metrics.MatchRemaining); v != 30 {
		t.Errorf("Expected 30s remaining, got %v", v)
	}
	if v := testutil.ToFloat64(metrics.ResponseRemaining); v != 4 {
		t.Errorf("Expected 4s response remaining, got %v", v)
	}
}

func TestMonitor_CountersFollowDeltas(t *testing.T) {
	m := NewMonitor("test", prometheus.NewRegistry())
	metrics := m.Metrics()

	m.OnSnapshot(game.Snapshot{MatchID: "a", Phase: game.PhaseShowingSequence})
	m.OnSnapshot(game.Snapshot{MatchID: "a", Phase: game.PhaseShowingSequence, RoundsCompleted: 1})
	m.OnSnapshot(game.Snapshot{MatchID: "a", Phase: game.PhaseShowingSequence, RoundsCompleted: 2, TotalMisses: 3})
	m.OnSnapshot(game.Snapshot{MatchID: "a", Phase: game.PhaseMatchOver, RoundsCompleted: 2, TotalMisses: 3})
	m.OnSnapshot(game.Snapshot{MatchID: "a", Phase: game.PhaseMatchOver, RoundsCompleted: 2, TotalMisses: 3})

	// A new match starts its counts at zero without decrementing.
	m.OnSnapshot(game.Snapshot{MatchID: "b", Phase: game.PhaseIdle})
	m.OnSnapshot(game.Snapshot{MatchID: "b", Phase: game.PhaseShowingSequence, RoundsCompleted: 1})

	if v := testutil.ToFloat64(metrics.RoundsCompleted); v != 3 {
		t.Errorf("Expected 3 rounds completed, got %v", v)
	}
	if v := testutil.ToFloat64(metrics.Misses); v != 3 {
		t.Errorf("Expected 3 misses, got %v", v)
	}
	if v := testutil.ToFloat64(metrics.Matches); v != 1 {
		t.Errorf("Expected 1 finished match, got %v", v)
	}
}

func TestMonitor_OnHit(t *testing.T) {
	m := NewMonitor("test", prometheus.NewRegistry())

	m.OnHit(validate.Accept)
	m.OnHit(validate.Accept)
	m.OnHit(validate.Reject)
	m.OnHit(validate.Ignored)

	hits := m.Metrics().Hits
	if v := testutil.ToFloat64(hits.WithLabelValues("accept")); v != 2 {
		t.Errorf("Expected 2 accepted hits, got %v", v)
	}
	if v := testutil.ToFloat64(hits.WithLabelValues("reject")); v != 1 {
		t.Errorf("Expected 1 rejected hit, got %v", v)
	}
	if v := testutil.ToFloat64(hits.WithLabelValues("ignored")); v != 1 {
		t.Errorf("Expected 1 ignored hit, got %v", v)
	}
}

func TestMonitor_TickLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMonitor("test", reg)

	m.ObserveTickLatency(50 * time.Microsecond)
	m.ObserveTickLatency(2 * time.Millisecond)

	if n := testutil.CollectAndCount(m.Metrics().TickLatency); n != 1 {
		t.Errorf("Expected one histogram series, got %d", n)
	}
}
