package engine

import (
	"strconv"
	"time"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/sink"
	"github.com/wfunc/drumgame/state"
	"github.com/wfunc/drumgame/validate"
)

// 空闲状态
type idleState struct {
	state.Base
	e *Engine
}

func (s *idleState) OnEnter() {
	s.e.clearAllHighlights()
	s.e.presentation.ShowText(sink.FieldCountdown, "")
	s.e.presentation.ShowPanel(sink.PanelStart)
}

// showingState plays the sequence back as a chain of timers: an optional countdown,
// then highlight + cue, clear after the highlight duration, rest, next step.
type showingState struct {
	state.Base
	e *Engine
}

func (s *showingState) OnEnter() {
	e := s.e
	e.timers.Clear()
	e.position = 0
	e.sequence = e.newSequence()
	e.round++
	e.log.Debugw("sequence generated", "round", e.round, "targets", e.sequence.IDs())

	s.countdown(e.settings.CountdownSteps)
}

// OnExit drops any playback still pending, so two playbacks never overlap.
func (s *showingState) OnExit() {
	s.e.timers.Clear()
}

func (s *showingState) OnUpdate(dt time.Duration) {
	s.e.timers.Advance(dt)
}

func (s *showingState) countdown(remaining int) {
	e := s.e
	if remaining <= 0 {
		e.presentation.ShowText(sink.FieldCountdown, "")
		if !e.matchClockRunning {
			e.matchClockRunning = true
			e.log.Debug("match clock started")
		}
		e.clearAllHighlights()
		s.step(0)
		return
	}
	e.presentation.ShowText(sink.FieldCountdown, strconv.Itoa(remaining))
	e.timers.AddTimer(e.settings.CountdownStep, 0, func() {
		s.countdown(remaining - 1)
	})
}

func (s *showingState) step(i int) {
	e := s.e
	if i >= len(e.sequence) {
		e.changeState(game.PhaseAwaitingInput)
		return
	}

	target := e.sequence[i]
	e.presentation.Highlight(target.ID, e.settings.GlowIntensity, e.settings.HighlightDuration)
	e.sound.PlayCue(target.ID)

	e.timers.AddTimer(e.settings.HighlightDuration, 0, func() {
		e.presentation.ClearHighlight(target.ID)
		e.timers.AddTimer(e.settings.RestDuration, 0, func() {
			s.step(i + 1)
		})
	})
}

// awaitingState validates hits and runs the response timer.
type awaitingState struct {
	state.Base
	e *Engine
}

func (s *awaitingState) OnEnter() {
	s.e.position = 0
	s.e.responseRemaining = s.e.settings.ResponseDuration
}

func (s *awaitingState) OnExit() {
	s.e.responseRemaining = 0
}

func (s *awaitingState) OnUpdate(dt time.Duration) {
	e := s.e
	e.responseRemaining -= dt
	if e.responseRemaining <= 0 {
		e.responseRemaining = 0
		e.miss("response timeout")
	}
}

func (s *awaitingState) HandleHit(hit game.HitEvent) validate.Verdict {
	e := s.e
	v := validate.Validate(game.PhaseAwaitingInput, hit, e.sequence, e.position, e.roster.Signature)
	switch v {
	case validate.Accept:
		e.position++
		if e.position == len(e.sequence) {
			e.completeRound()
		}
	case validate.Reject:
		e.miss("wrong drum")
	}
	return v
}

// 游戏结束状态
type matchOverState struct {
	state.Base
	e *Engine
}

func (s *matchOverState) OnEnter() {
	e := s.e
	e.timers.Clear()
	e.matchRemaining = 0
	e.responseRemaining = 0
	e.clearAllHighlights()
	e.presentation.ShowText(sink.FieldCountdown, "")
	e.presentation.ShowPanel(sink.PanelGameOver)
	e.log.Infow("match over",
		"score", e.tracker.Score(),
		"rounds_completed", e.roundsCompleted,
		"misses", e.totalMisses,
	)
}
