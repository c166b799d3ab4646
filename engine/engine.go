// Package engine runs the round state machine: sequence playback, the match and
// response timers, and the hit/miss rules.
package engine

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/logger"
	"github.com/wfunc/drumgame/score"
	"github.com/wfunc/drumgame/shuffle"
	"github.com/wfunc/drumgame/sink"
	"github.com/wfunc/drumgame/state"
	"github.com/wfunc/drumgame/timer"
	"github.com/wfunc/drumgame/validate"
)

// ErrRoundInProgress is returned by StartRound when the engine is not idle.
var ErrRoundInProgress = errors.New("round already in progress")

// Permuter generates the index order of a new sequence.
type Permuter interface {
	Permutation(n int) []int
}

// Engine owns the authoritative sequence and timers of one match.
// It is not safe for concurrent use; round.Controller serializes access.
type Engine struct {
	settings Settings
	roster   *game.Roster
	permuter Permuter
	tracker  *score.Tracker
	timers   *timer.TimerManager
	machine  *state.BaseStateMachine

	presentation sink.Presentation
	sound        sink.Sound
	log          *zap.SugaredLogger

	sequence          game.Sequence
	position          int
	matchRemaining    time.Duration
	responseRemaining time.Duration
	matchClockRunning bool

	round           int
	roundsCompleted int
	totalMisses     int
	lastOutcome     game.Phase
}

type Option func(*Engine)

func WithPermuter(p Permuter) Option {
	return func(e *Engine) { e.permuter = p }
}

func WithPresentation(p sink.Presentation) Option {
	return func(e *Engine) { e.presentation = p }
}

func WithSound(s sink.Sound) Option {
	return func(e *Engine) { e.sound = s }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = l }
}

// New builds an idle engine. The roster and settings are checked by StartRound.
func New(settings Settings, roster *game.Roster, opts ...Option) *Engine {
	e := &Engine{
		settings:       settings,
		roster:         roster,
		tracker:        score.NewTracker(settings.CorrectBonus, settings.MissThreshold),
		timers:         timer.NewTimerManager(),
		matchRemaining: settings.MatchDuration,
		lastOutcome:    game.PhaseIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.permuter == nil {
		e.permuter = shuffle.New(nil)
	}
	if e.presentation == nil {
		e.presentation = sink.Nop{}
	}
	if e.sound == nil {
		e.sound = sink.Nop{}
	}
	if e.log == nil {
		e.log = logger.Log
	}

	e.machine = state.NewBaseStateMachine(game.PhaseIdle,
		&idleState{Base: state.Base{ID: game.PhaseIdle}, e: e},
		&showingState{Base: state.Base{ID: game.PhaseShowingSequence}, e: e},
		&awaitingState{Base: state.Base{ID: game.PhaseAwaitingInput}, e: e},
		&matchOverState{Base: state.Base{ID: game.PhaseMatchOver}, e: e},
	)
	never := func() bool { return false }
	e.machine.AddTransition(game.PhaseIdle, game.PhaseAwaitingInput, never)
	e.machine.AddTransition(game.PhaseMatchOver, game.PhaseShowingSequence, never)
	e.machine.AddTransition(game.PhaseMatchOver, game.PhaseAwaitingInput, never)
	e.machine.AddTransition(game.PhaseShowingSequence, game.PhaseAwaitingInput, func() bool {
		return len(e.sequence) > 0
	})
	return e
}

// StartRound leaves Idle and begins showing the first sequence.
func (e *Engine) StartRound() error {
	if e.Phase() != game.PhaseIdle {
		return ErrRoundInProgress
	}
	if err := e.settings.Validate(); err != nil {
		return err
	}
	if err := e.roster.Validate(); err != nil {
		return err
	}

	e.matchRemaining = e.settings.MatchDuration
	e.matchClockRunning = !e.settings.HoldMatchClock
	e.presentation.ShowText(sink.FieldMessage, "")
	e.presentation.ShowPanel(sink.PanelPlay)
	e.log.Infow("match started", "targets", e.roster.Size(), "match_duration", e.settings.MatchDuration)

	return e.machine.ChangeState(game.PhaseShowingSequence)
}

// Tick advances the match by dt. The match timer is checked first so that its
// expiry wins over anything else due on the same tick.
func (e *Engine) Tick(dt time.Duration) {
	if dt <= 0 {
		return
	}
	switch e.Phase() {
	case game.PhaseIdle, game.PhaseMatchOver:
		return
	}

	if e.matchClockRunning {
		e.matchRemaining -= dt
		if e.matchRemaining <= 0 {
			e.matchRemaining = 0
			e.changeState(game.PhaseMatchOver)
			return
		}
	}

	e.machine.GetCurrentState().OnUpdate(dt)
}

// Hit routes a strike to the current phase.
func (e *Engine) Hit(hit game.HitEvent) validate.Verdict {
	v := e.machine.GetCurrentState().HandleHit(hit)
	if v == validate.Ignored {
		e.log.Debugw("hit ignored", "target", hit.TargetID, "phase", e.Phase())
	}
	return v
}

// Reset cancels everything and returns to Idle with fresh counters.
func (e *Engine) Reset() {
	e.timers.Clear()
	e.tracker.Reset()
	e.sequence = nil
	e.position = 0
	e.matchRemaining = e.settings.MatchDuration
	e.responseRemaining = 0
	e.matchClockRunning = false
	e.round = 0
	e.roundsCompleted = 0
	e.totalMisses = 0
	e.lastOutcome = game.PhaseIdle

	e.changeState(game.PhaseIdle)
	e.log.Info("match reset")
}

func (e *Engine) Phase() game.Phase {
	return e.machine.Phase()
}

// Sequence returns a copy of the current sequence.
func (e *Engine) Sequence() game.Sequence {
	seq := make(game.Sequence, len(e.sequence))
	copy(seq, e.sequence)
	return seq
}

func (e *Engine) Position() int {
	return e.position
}

func (e *Engine) Settings() Settings {
	return e.settings
}

func (e *Engine) Snapshot() game.Snapshot {
	return game.Snapshot{
		Phase:                 e.Phase(),
		LastOutcome:           e.lastOutcome,
		Round:                 e.round,
		Position:              e.position,
		SequenceLen:           len(e.sequence),
		MatchTimeRemaining:    e.matchRemaining,
		ResponseTimeRemaining: e.responseRemaining,
		ResponseDuration:      e.settings.ResponseDuration,
		Score:                 e.tracker.Score(),
		MissCount:             e.tracker.Misses(),
		MissThreshold:         e.tracker.Threshold(),
		RoundsCompleted:       e.roundsCompleted,
		TotalMisses:           e.totalMisses,
	}
}

func (e *Engine) changeState(p game.Phase) {
	if err := e.machine.ChangeState(p); err != nil {
		e.log.Errorw("phase change rejected", "from", e.Phase(), "to", p, "error", err)
	}
}

func (e *Engine) newSequence() game.Sequence {
	perm := e.permuter.Permutation(e.roster.Size())
	seq := make(game.Sequence, 0, len(perm))
	for _, id := range perm {
		if t, ok := e.roster.Target(id); ok {
			seq = append(seq, t)
		}
	}
	return seq
}

func (e *Engine) completeRound() {
	e.lastOutcome = game.PhaseRoundWon
	e.roundsCompleted++
	total := e.tracker.OnCorrectCompletion()
	e.sound.PlayCorrect()
	e.log.Infow("round completed", "round", e.round, "score", total)
	e.changeState(game.PhaseShowingSequence)
}

func (e *Engine) miss(reason string) {
	e.lastOutcome = game.PhaseRoundLost
	e.totalMisses++
	penalized := e.tracker.OnMiss()
	e.sound.PlayWrong()
	e.position = 0
	e.log.Infow("round missed",
		"round", e.round,
		"reason", reason,
		"misses", e.tracker.Misses(),
		"penalized", penalized,
		"score", e.tracker.Score(),
	)
	e.changeState(game.PhaseShowingSequence)
}

func (e *Engine) clearAllHighlights() {
	for id := 0; id < e.roster.Size(); id++ {
		e.presentation.ClearHighlight(id)
	}
}
