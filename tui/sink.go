package tui

import (
	"sync"
	"time"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/validate"
)

// State is what the screen shows.
type State struct {
	Lit      map[int]float64 // target id -> glow intensity
	Texts    map[string]string
	Panel    string
	Snapshot game.Snapshot
}

// Sink collects presentation calls from the controller and wakes the program.
// It never blocks: updates coalesce into a single pending wake-up.
type Sink struct {
	mutex sync.Mutex
	state State

	UpdateChan chan struct{}
}

func NewSink() *Sink {
	return &Sink{
		state: State{
			Lit:   make(map[int]float64),
			Texts: make(map[string]string),
		},
		UpdateChan: make(chan struct{}, 1),
	}
}

func (s *Sink) Highlight(targetID int, intensity float64, d time.Duration) {
	s.mutex.Lock()
	s.state.Lit[targetID] = intensity
	s.mutex.Unlock()
	s.notify()
}

func (s *Sink) ClearHighlight(targetID int) {
	s.mutex.Lock()
	delete(s.state.Lit, targetID)
	s.mutex.Unlock()
	s.notify()
}

func (s *Sink) ShowText(field, value string) {
	s.mutex.Lock()
	s.state.Texts[field] = value
	s.mutex.Unlock()
	s.notify()
}

func (s *Sink) ShowPanel(name string) {
	s.mutex.Lock()
	s.state.Panel = name
	s.mutex.Unlock()
	s.notify()
}

// OnSnapshot keeps the latest snapshot for the response bar.
func (s *Sink) OnSnapshot(snap game.Snapshot) {
	s.mutex.Lock()
	changed := snap != s.state.Snapshot
	s.state.Snapshot = snap
	s.mutex.Unlock()
	if changed {
		s.notify()
	}
}

func (s *Sink) OnHit(validate.Verdict) {}

// State returns a copy of the current screen state.
func (s *Sink) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	st := State{
		Lit:      make(map[int]float64, len(s.state.Lit)),
		Texts:    make(map[string]string, len(s.state.Texts)),
		Panel:    s.state.Panel,
		Snapshot: s.state.Snapshot,
	}
	for k, v := range s.state.Lit {
		st.Lit[k] = v
	}
	for k, v := range s.state.Texts {
		st.Texts[k] = v
	}
	return st
}

func (s *Sink) notify() {
	select {
	case s.UpdateChan <- struct{}{}:
	default:
	}
}
