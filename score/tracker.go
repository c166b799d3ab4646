// score/tracker.go
package score

const (
	DefaultCorrectBonus  = 5
	DefaultMissThreshold = 5
)

// Tracker owns the score and the miss streak.
type Tracker struct {
	bonus     int
	threshold int

	score  int
	misses int
}

// NewTracker creates a tracker. Non-positive arguments fall back to the defaults.
func NewTracker(bonus, threshold int) *Tracker {
	if bonus <= 0 {
		bonus = DefaultCorrectBonus
	}
	if threshold <= 0 {
		threshold = DefaultMissThreshold
	}
	return &Tracker{bonus: bonus, threshold: threshold}
}

// OnCorrectCompletion awards the bonus for a fully reproduced sequence.
// The miss streak is left untouched.
func (t *Tracker) OnCorrectCompletion() int {
	t.score += t.bonus
	return t.score
}

// OnMiss records a miss. When the streak reaches the threshold it is reset and one
// point is taken away, never going below zero. It reports whether the penalty applied.
func (t *Tracker) OnMiss() bool {
	t.misses++
	if t.misses < t.threshold {
		return false
	}
	t.misses = 0
	if t.score > 0 {
		t.score--
	}
	return true
}

// Reset clears score and streak for a new match.
func (t *Tracker) Reset() {
	t.score = 0
	t.misses = 0
}

func (t *Tracker) Score() int     { return t.score }
func (t *Tracker) Misses() int    { return t.misses }
func (t *Tracker) Threshold() int { return t.threshold }
func (t *Tracker) Bonus() int     { return t.bonus }
