package score

import "testing"

func TestTracker_CorrectCompletion(t *testing.T) {
	tr := NewTracker(0, 0)
	tr.OnMiss()

	if got := tr.OnCorrectCompletion(); got != 5 {
		t.Errorf("Expected score 5, got %d", got)
	}
	if tr.Misses() != 1 {
		t.Errorf("Completion should not reset the miss streak, got %d", tr.Misses())
	}
}

func TestTracker_MissPenalty(t *testing.T) {
	tr := NewTracker(5, 5)
	tr.OnCorrectCompletion()

	for i := 1; i <= 4; i++ {
		if tr.OnMiss() {
			t.Fatalf("Penalty applied early on miss %d", i)
		}
		if tr.Misses() != i {
			t.Fatalf("Expected %d misses, got %d", i, tr.Misses())
		}
	}

	if !tr.OnMiss() {
		t.Fatal("Expected penalty on the fifth miss")
	}
	if tr.Misses() != 0 {
		t.Errorf("Expected miss streak reset to 0, got %d", tr.Misses())
	}
	if tr.Score() != 4 {
		t.Errorf("Expected score 4 after penalty, got %d", tr.Score())
	}
}

func TestTracker_ScoreFloor(t *testing.T) {
	tr := NewTracker(5, 5)

	for i := 0; i < 15; i++ {
		tr.OnMiss()
		if tr.Score() < 0 {
			t.Fatalf("Score went negative: %d", tr.Score())
		}
	}
	if tr.Score() != 0 {
		t.Errorf("Expected score to stay at 0, got %d", tr.Score())
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker(3, 2)
	tr.OnCorrectCompletion()
	tr.OnMiss()
	tr.Reset()

	if tr.Score() != 0 || tr.Misses() != 0 {
		t.Errorf("Expected zeroed tracker, got score=%d misses=%d", tr.Score(), tr.Misses())
	}
	if tr.Bonus() != 3 || tr.Threshold() != 2 {
		t.Error("Reset should keep the configured rules")
	}
}
