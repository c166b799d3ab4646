package game

// Phase is the round state machine position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseShowingSequence
	PhaseAwaitingInput
	PhaseRoundWon
	PhaseRoundLost
	PhaseMatchOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShowingSequence:
		return "showing_sequence"
	case PhaseAwaitingInput:
		return "awaiting_input"
	case PhaseRoundWon:
		return "round_won"
	case PhaseRoundLost:
		return "round_lost"
	case PhaseMatchOver:
		return "match_over"
	default:
		return "unknown"
	}
}
