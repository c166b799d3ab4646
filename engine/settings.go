package engine

import (
	"fmt"
	"time"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/score"
)

// Settings are the timing and scoring rules of a match.
type Settings struct {
	MatchDuration     time.Duration
	ResponseDuration  time.Duration
	HighlightDuration time.Duration
	RestDuration      time.Duration

	// CountdownSteps counts down before every playback, CountdownStep apart.
	CountdownSteps int
	CountdownStep  time.Duration
	// HoldMatchClock keeps the match timer still until the first countdown ends.
	HoldMatchClock bool

	GlowIntensity float64
	CorrectBonus  int
	MissThreshold int
}

func DefaultSettings() Settings {
	return Settings{
		MatchDuration:     60 * time.Second,
		ResponseDuration:  10 * time.Second,
		HighlightDuration: 600 * time.Millisecond,
		RestDuration:      300 * time.Millisecond,
		CountdownSteps:    3,
		CountdownStep:     time.Second,
		HoldMatchClock:    true,
		GlowIntensity:     3,
		CorrectBonus:      score.DefaultCorrectBonus,
		MissThreshold:     score.DefaultMissThreshold,
	}
}

// Validate rejects settings a match cannot run with.
func (s Settings) Validate() error {
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"match duration", s.MatchDuration},
		{"response duration", s.ResponseDuration},
		{"highlight duration", s.HighlightDuration},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return &game.ConfigurationError{Reason: fmt.Sprintf("%s must be positive, got %v", p.name, p.d)}
		}
	}
	if s.RestDuration < 0 {
		return &game.ConfigurationError{Reason: fmt.Sprintf("rest duration must not be negative, got %v", s.RestDuration)}
	}
	if s.CountdownSteps < 0 {
		return &game.ConfigurationError{Reason: fmt.Sprintf("countdown steps must not be negative, got %d", s.CountdownSteps)}
	}
	if s.CountdownSteps > 0 && s.CountdownStep <= 0 {
		return &game.ConfigurationError{Reason: fmt.Sprintf("countdown step must be positive, got %v", s.CountdownStep)}
	}
	return nil
}
