package game

import "time"

// Snapshot is the read-only view of a match pushed to presentation and observers.
type Snapshot struct {
	MatchID string
	Phase   Phase
	// LastOutcome is PhaseRoundWon or PhaseRoundLost once a round has been decided,
	// PhaseIdle before that.
	LastOutcome Phase

	Round       int
	Position    int
	SequenceLen int

	MatchTimeRemaining    time.Duration
	ResponseTimeRemaining time.Duration
	ResponseDuration      time.Duration

	Score           int
	MissCount       int
	MissThreshold   int
	RoundsCompleted int
	TotalMisses     int
}

// ResponseProgress is the fraction of the response window still left, in [0, 1].
func (s Snapshot) ResponseProgress() float64 {
	if s.ResponseDuration <= 0 || s.Phase != PhaseAwaitingInput {
		return 0
	}
	p := float64(s.ResponseTimeRemaining) / float64(s.ResponseDuration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
