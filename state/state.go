// Package state provides the guarded lifecycle machine for a match:
// waiting -> playing -> ended.
package state

import (
	"errors"
	"sync"
)

// ID identifies a lifecycle state.
type ID string

const (
	Waiting ID = "waiting"
	Playing ID = "playing"
	Ended   ID = "ended"
)

// ErrTransitionNotAllowed is returned when a transition is missing or its
// guard condition rejects it.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// Machine is a small guarded state machine. Transitions must be declared
// up front; an undeclared transition is refused.
type Machine struct {
	current     ID
	transitions map[ID]map[ID]func() bool
	mutex       sync.RWMutex
}

func NewMachine(initial ID) *Machine {
	return &Machine{
		current:     initial,
		transitions: make(map[ID]map[ID]func() bool),
	}
}

// Allow declares a transition. A nil condition means unconditionally allowed.
func (m *Machine) Allow(from, to ID, condition func() bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.transitions[from]; !exists {
		m.transitions[from] = make(map[ID]func() bool)
	}
	m.transitions[from][to] = condition
}

func (m *Machine) ChangeState(to ID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	conditions, exists := m.transitions[m.current]
	if !exists {
		return ErrTransitionNotAllowed
	}
	condition, exists := conditions[to]
	if !exists {
		return ErrTransitionNotAllowed
	}
	if condition != nil && !condition() {
		return ErrTransitionNotAllowed
	}

	m.current = to
	return nil
}

func (m *Machine) Current() ID {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

// Is reports whether the machine currently sits in the given state.
func (m *Machine) Is(id ID) bool {
	return m.Current() == id
}
