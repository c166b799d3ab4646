// game/target.go
package game

import "fmt"

// Signature is the discrete matching key shared by a drum and the speaker it is paired with.
type Signature string

// Drum is a striking surface the player hits.
type Drum struct {
	Name      string
	Signature Signature
	Color     string // display colour, never used for matching
}

// Speaker is the cue emitter a sequence step is shown on.
type Speaker struct {
	Name string
}

// Target pairs drum i with speaker i.
type Target struct {
	ID        int
	Signature Signature
	Drum      Drum
	Speaker   Speaker
}

// Roster is the fixed set of drum/speaker pairs for a match.
type Roster struct {
	Drums    []Drum
	Speakers []Speaker
}

// NewRoster copies the given drums and speakers into a roster. It does not validate;
// validation happens when a round is started so the error reaches the player.
func NewRoster(drums []Drum, speakers []Speaker) *Roster {
	r := &Roster{
		Drums:    make([]Drum, len(drums)),
		Speakers: make([]Speaker, len(speakers)),
	}
	copy(r.Drums, drums)
	copy(r.Speakers, speakers)
	return r
}

// Validate reports why the roster cannot be played, if it cannot.
func (r *Roster) Validate() error {
	if r == nil || len(r.Drums) == 0 {
		return &ConfigurationError{Reason: "no drums configured"}
	}
	if len(r.Speakers) == 0 {
		return &ConfigurationError{Reason: "no speakers configured"}
	}
	if len(r.Drums) != len(r.Speakers) {
		return &ConfigurationError{
			Reason: fmt.Sprintf("drum/speaker mismatch: %d drums, %d speakers", len(r.Drums), len(r.Speakers)),
		}
	}
	seen := make(map[Signature]int, len(r.Drums))
	for i, d := range r.Drums {
		if d.Signature == "" {
			return &ConfigurationError{Reason: fmt.Sprintf("drum %d has no signature", i)}
		}
		if j, dup := seen[d.Signature]; dup {
			return &ConfigurationError{
				Reason: fmt.Sprintf("drums %d and %d share signature %q", j, i, d.Signature),
			}
		}
		seen[d.Signature] = i
	}
	return nil
}

// Size is the number of playable targets.
func (r *Roster) Size() int {
	if r == nil {
		return 0
	}
	return len(r.Drums)
}

// Target returns the pairing at id.
func (r *Roster) Target(id int) (Target, bool) {
	if r == nil || id < 0 || id >= len(r.Drums) || id >= len(r.Speakers) {
		return Target{}, false
	}
	return Target{
		ID:        id,
		Signature: r.Drums[id].Signature,
		Drum:      r.Drums[id],
		Speaker:   r.Speakers[id],
	}, true
}

// Signature looks up the matching key of the drum with the given id.
func (r *Roster) Signature(id int) (Signature, bool) {
	t, ok := r.Target(id)
	return t.Signature, ok
}
