package game

import (
	"errors"
	"fmt"
)

var (
	errMachineStarted  = errors.New("state machine already started")
	errMachineExhaust  = errors.New("no further states")
	errMachineNoStates = errors.New("state machine has no states")
)

// StateMachine is a fixed linear sequence of named states, each bound to a
// callback. It advances only on an explicit Advance call, which invokes the
// entered state's callback synchronously. A callback may itself call
// Advance to chain transitions, but must not add states.
type StateMachine struct {
	names     []string
	callbacks []func()
	idx       int // -1 = unstarted
}

func NewStateMachine() *StateMachine {
	return &StateMachine{idx: -1}
}

// AddState appends a state. States cannot be added once the machine has
// started.
func (m *StateMachine) AddState(name string, fn func()) error {
	if m.idx >= 0 {
		return fmt.Errorf("%w: cannot add %q", errMachineStarted, name)
	}
	m.names = append(m.names, name)
	m.callbacks = append(m.callbacks, fn)
	return nil
}

// Advance enters the next state and runs its callback. Advancing past the
// last state fails.
func (m *StateMachine) Advance() error {
	if len(m.names) == 0 {
		return errMachineNoStates
	}
	if m.idx+1 >= len(m.names) {
		return fmt.Errorf("%w: at %q", errMachineExhaust, m.names[m.idx])
	}
	m.idx++
	if cb := m.callbacks[m.idx]; cb != nil {
		cb()
	}
	return nil
}

// Current returns the name of the current state, or "" when unstarted.
func (m *StateMachine) Current() string {
	if m.idx < 0 {
		return ""
	}
	return m.names[m.idx]
}

func (m *StateMachine) Started() bool {
	return m.idx >= 0
}

// Reset returns the machine to the unstarted position, keeping its states.
func (m *StateMachine) Reset() {
	m.idx = -1
}
