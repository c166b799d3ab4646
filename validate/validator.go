// Package validate decides whether a hit matches the expected sequence step.
package validate

import "github.com/wfunc/drumgame/game"

// Verdict is the outcome of validating a single hit.
type Verdict int

const (
	// Ignored hits arrived outside AwaitingInput and have no effect at all.
	Ignored Verdict = iota
	Accept
	Reject
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "ignored"
	}
}

// SignatureLookup resolves a target id to its matching key.
type SignatureLookup func(targetID int) (game.Signature, bool)

// Validate compares hit against seq[position]. It has no side effects.
func Validate(phase game.Phase, hit game.HitEvent, seq game.Sequence, position int, lookup SignatureLookup) Verdict {
	if phase != game.PhaseAwaitingInput {
		return Ignored
	}
	if position < 0 || position >= len(seq) || lookup == nil {
		return Reject
	}
	sig, ok := lookup(hit.TargetID)
	if !ok || sig != seq[position].Signature {
		return Reject
	}
	return Accept
}
