package game

import "time"

// Sequence is the ordered list of targets the player must reproduce this round.
type Sequence []Target

// IDs returns the target ids in order.
func (s Sequence) IDs() []int {
	ids := make([]int, len(s))
	for i, t := range s {
		ids[i] = t.ID
	}
	return ids
}

// HitEvent is a single strike reported by an input source.
type HitEvent struct {
	TargetID  int
	Timestamp time.Time
}
