package game

import (
	"errors"
	"testing"
)

func testDrums(sigs ...Signature) []Drum {
	drums := make([]Drum, len(sigs))
	for i, s := range sigs {
		drums[i] = Drum{Name: string(s), Signature: s}
	}
	return drums
}

func testSpeakers(n int) []Speaker {
	return make([]Speaker, n)
}

func TestRoster_Validate(t *testing.T) {
	tests := []struct {
		name    string
		roster  *Roster
		wantErr bool
	}{
		{"valid", NewRoster(testDrums("red", "green", "blue"), testSpeakers(3)), false},
		{"nil", nil, true},
		{"no drums", NewRoster(nil, testSpeakers(2)), true},
		{"no speakers", NewRoster(testDrums("red"), nil), true},
		{"mismatch", NewRoster(testDrums("red", "green"), testSpeakers(3)), true},
		{"duplicate signature", NewRoster(testDrums("red", "red"), testSpeakers(2)), true},
		{"empty signature", NewRoster(testDrums("red", ""), testSpeakers(2)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.roster.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if err != nil {
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("Expected *ConfigurationError, got %T", err)
				}
			}
		})
	}
}

func TestRoster_TargetLookup(t *testing.T) {
	r := NewRoster(testDrums("red", "green"), []Speaker{{Name: "left"}, {Name: "right"}})

	target, ok := r.Target(1)
	if !ok {
		t.Fatal("Expected target 1 to exist")
	}
	if target.ID != 1 || target.Signature != "green" || target.Speaker.Name != "right" {
		t.Errorf("Unexpected target: %+v", target)
	}

	if _, ok := r.Target(2); ok {
		t.Error("Expected target 2 to be out of range")
	}
	if _, ok := r.Signature(-1); ok {
		t.Error("Expected negative id to be rejected")
	}
}

func TestSnapshot_ResponseProgress(t *testing.T) {
	s := Snapshot{Phase: PhaseAwaitingInput, ResponseDuration: 10, ResponseTimeRemaining: 5}
	if got := s.ResponseProgress(); got != 0.5 {
		t.Errorf("Expected progress 0.5, got %v", got)
	}

	s.Phase = PhaseShowingSequence
	if got := s.ResponseProgress(); got != 0 {
		t.Errorf("Expected progress 0 outside awaiting input, got %v", got)
	}
}
