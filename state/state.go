package state

import (
	"errors"
	"time"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/validate"
)

// 状态机接口
type StateMachine interface {
	ChangeState(id game.Phase) error
	GetCurrentState() State
	AddTransition(from, to game.Phase, condition func() bool) error
}

// State is one phase of a match. OnUpdate receives the elapsed time of the tick.
type State interface {
	OnEnter()
	OnExit()
	OnUpdate(dt time.Duration)
	GetID() game.Phase
	HandleHit(hit game.HitEvent) validate.Verdict
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// ErrUnknownState is returned when changing to a phase that was never registered.
var ErrUnknownState = errors.New("unknown state")

// BaseStateMachine switches between registered states. It is owned by a single writer
// and does no locking of its own.
type BaseStateMachine struct {
	currentState State
	states       map[game.Phase]State
	transitions  map[game.Phase]map[game.Phase]func() bool // fromState -> toState -> condition
}

// NewBaseStateMachine registers states and enters initial. initial must be one of states.
func NewBaseStateMachine(initial game.Phase, states ...State) *BaseStateMachine {
	machine := &BaseStateMachine{
		states:      make(map[game.Phase]State, len(states)),
		transitions: make(map[game.Phase]map[game.Phase]func() bool),
	}
	for _, s := range states {
		machine.states[s.GetID()] = s
	}
	machine.currentState = machine.states[initial]
	if machine.currentState != nil {
		machine.currentState.OnEnter()
	}
	return machine
}

func (sm *BaseStateMachine) ChangeState(id game.Phase) error {
	newState, ok := sm.states[id]
	if !ok {
		return ErrUnknownState
	}

	if sm.currentState != nil {
		// 检查是否有转换条件
		if conditions, exists := sm.transitions[sm.currentState.GetID()]; exists {
			if condition, exists := conditions[id]; exists {
				if condition != nil && !condition() {
					return ErrTransitionNotAllowed
				}
			}
		}
		sm.currentState.OnExit()
	}

	sm.currentState = newState
	sm.currentState.OnEnter()

	return nil
}

func (sm *BaseStateMachine) GetCurrentState() State {
	return sm.currentState
}

// Phase is the id of the current state.
func (sm *BaseStateMachine) Phase() game.Phase {
	if sm.currentState == nil {
		return game.PhaseIdle
	}
	return sm.currentState.GetID()
}

func (sm *BaseStateMachine) AddTransition(from, to game.Phase, condition func() bool) error {
	if _, exists := sm.transitions[from]; !exists {
		sm.transitions[from] = make(map[game.Phase]func() bool)
	}

	sm.transitions[from][to] = condition
	return nil
}

// Base gives states no-op defaults; embed it and override what a phase needs.
type Base struct {
	ID game.Phase
}

func (s *Base) GetID() game.Phase {
	return s.ID
}

func (s *Base) OnEnter() {}

func (s *Base) OnExit() {}

func (s *Base) OnUpdate(dt time.Duration) {}

func (s *Base) HandleHit(hit game.HitEvent) validate.Verdict {
	return validate.Ignored
}
