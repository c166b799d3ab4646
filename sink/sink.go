// Package sink declares the collaborators the engine drives: what the player sees and hears.
package sink

import "time"

// Text fields the core writes through ShowText.
const (
	FieldMatchTimer    = "match_timer"
	FieldResponseTimer = "response_timer"
	FieldScore         = "score"
	FieldMisses        = "misses"
	FieldCountdown     = "countdown"
	FieldMessage       = "message"
)

// Panels the core asks the presentation layer to show.
const (
	PanelStart    = "start"
	PanelPlay     = "play"
	PanelGameOver = "game_over"
)

// Presentation renders targets, texts and menu panels.
// Implementations must not call back into the controller synchronously.
type Presentation interface {
	Highlight(targetID int, intensity float64, d time.Duration)
	ClearHighlight(targetID int)
	ShowText(field, value string)
	ShowPanel(name string)
}

// Sound plays cues and feedback.
type Sound interface {
	PlayCue(targetID int)
	PlayCorrect()
	PlayWrong()
}

// Nop discards everything. It satisfies both interfaces.
type Nop struct{}

func (Nop) Highlight(int, float64, time.Duration) {}
func (Nop) ClearHighlight(int)                    {}
func (Nop) ShowText(string, string)               {}
func (Nop) ShowPanel(string)                      {}
func (Nop) PlayCue(int)                           {}
func (Nop) PlayCorrect()                          {}
func (Nop) PlayWrong()                            {}

// Sounds fans every call out to all members, in order.
type Sounds []Sound

func (s Sounds) PlayCue(targetID int) {
	for _, snd := range s {
		snd.PlayCue(targetID)
	}
}

func (s Sounds) PlayCorrect() {
	for _, snd := range s {
		snd.PlayCorrect()
	}
}

func (s Sounds) PlayWrong() {
	for _, snd := range s {
		snd.PlayWrong()
	}
}
