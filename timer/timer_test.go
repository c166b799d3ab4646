package timer

import (
	"testing"
	"time"
)

func TestTimerManager_FiresInOrder(t *testing.T) {
	m := NewTimerManager()
	var fired []string

	m.AddTimer(300*time.Millisecond, 0, func() { fired = append(fired, "c") })
	m.AddTimer(100*time.Millisecond, 0, func() { fired = append(fired, "a") })
	m.AddTimer(100*time.Millisecond, 0, func() { fired = append(fired, "b") })

	m.Advance(50 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("Expected nothing to fire yet, got %v", fired)
	}

	m.Advance(time.Second)
	want := []string{"a", "b", "c"}
	if len(fired) != len(want) {
		t.Fatalf("Expected %v, got %v", want, fired)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, fired)
		}
	}
	if m.Pending() != 0 {
		t.Errorf("Expected empty queue, got %d pending", m.Pending())
	}
}

func TestTimerManager_ChainedTimersCatchUp(t *testing.T) {
	m := NewTimerManager()
	var at []time.Duration

	var step func()
	step = func() {
		at = append(at, m.Now())
		if len(at) < 4 {
			m.AddTimer(100*time.Millisecond, 0, step)
		}
	}
	m.AddTimer(0, 0, step)

	// One large advance must still run the whole chain at its scheduled instants.
	m.Advance(time.Second)

	want := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	if len(at) != len(want) {
		t.Fatalf("Expected %d firings, got %v", len(want), at)
	}
	for i := range want {
		if at[i] != want[i] {
			t.Errorf("Firing %d at %v, expected %v", i, at[i], want[i])
		}
	}
	if m.Now() != time.Second {
		t.Errorf("Expected clock at 1s, got %v", m.Now())
	}
}

func TestTimerManager_RemoveAndClear(t *testing.T) {
	m := NewTimerManager()
	fired := 0

	id := m.AddTimer(10*time.Millisecond, 0, func() { fired++ })
	m.AddTimer(20*time.Millisecond, 0, func() { fired++ })
	m.RemoveTimer(id)
	m.Advance(15 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("Removed timer fired")
	}

	m.Clear()
	m.Advance(time.Second)
	if fired != 0 {
		t.Errorf("Cleared timer fired")
	}
}

func TestTimerManager_ClearFromCallback(t *testing.T) {
	m := NewTimerManager()
	fired := 0

	m.AddTimer(10*time.Millisecond, 0, func() {
		fired++
		m.Clear()
	})
	m.AddTimer(20*time.Millisecond, 0, func() { fired++ })

	m.Advance(time.Second)
	if fired != 1 {
		t.Errorf("Expected only the first timer to fire, got %d", fired)
	}
}

func TestTimerManager_Interval(t *testing.T) {
	m := NewTimerManager()
	fired := 0
	m.AddTimer(time.Second, time.Second, func() { fired++ })

	m.Advance(3500 * time.Millisecond)
	if fired != 3 {
		t.Errorf("Expected 3 firings, got %d", fired)
	}
}

func TestTimerManager_ZeroAdvanceIsNoOp(t *testing.T) {
	m := NewTimerManager()
	fired := 0
	m.AddTimer(0, 0, func() { fired++ })

	m.Advance(0)
	m.Advance(-time.Second)
	if fired != 0 || m.Now() != 0 {
		t.Errorf("Expected no-op, got fired=%d now=%v", fired, m.Now())
	}
}
