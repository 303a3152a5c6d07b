// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statemachine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrInvalidTransition is returned when a transition is not registered.
var ErrInvalidTransition = errors.New("invalid state transition")

// TransitionValidator validates whether a state transition is allowed.
type TransitionValidator[T comparable] func(from, to T) error

// TransitionError describes a rejected transition.
type TransitionError[T comparable] struct {
	From T
	To   T
	Err  error
}

func (e *TransitionError[T]) Error() string {
	return fmt.Sprintf("cannot transition from %v to %v: %v", e.From, e.To, e.Err)
}

func (e *TransitionError[T]) Unwrap() error {
	return e.Err
}

// StateMachine is a transition table over a comparable state type.
// It holds no current state: callers pass the persisted state in and
// receive a verdict, which keeps one machine shareable across requests.
//
// The StateMachine is safe for concurrent use.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	// from state -> list of valid next states
	validTransitions map[T][]T
	validators       []TransitionValidator[T]
}

// New creates an empty StateMachine.
func New[T comparable]() *StateMachine[T] {
	return &StateMachine[T]{
		validTransitions: make(map[T][]T),
	}
}

// Allow registers the valid targets of from. Registering a state with no
// targets marks it as terminal.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.validTransitions[from]; !ok {
		sm.validTransitions[from] = make([]T, 0, len(to))
	}
	for _, target := range to {
		if !slices.Contains(sm.validTransitions[from], target) {
			sm.validTransitions[from] = append(sm.validTransitions[from], target)
		}
	}
	return sm
}

// AddValidator adds a validator run after the table check passes.
func (sm *StateMachine[T]) AddValidator(v TransitionValidator[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.validators = append(sm.validators, v)
	return sm
}

// CanTransition checks if a transition from one state to another is registered.
func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.validTransitions[from], to)
}

// Known reports whether state appears anywhere in the table.
func (sm *StateMachine[T]) Known(state T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if _, ok := sm.validTransitions[state]; ok {
		return true
	}
	for _, tos := range sm.validTransitions {
		if slices.Contains(tos, state) {
			return true
		}
	}
	return false
}

// IsTerminal reports whether state has no outgoing transitions.
func (sm *StateMachine[T]) IsTerminal(state T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.validTransitions[state]) == 0
}

// ValidNextStates returns a copy of the valid targets of from.
func (sm *StateMachine[T]) ValidNextStates(from T) []T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.validTransitions[from])
}

// Validate checks the table and then every validator. The returned error
// is a *TransitionError wrapping ErrInvalidTransition or the validator error.
func (sm *StateMachine[T]) Validate(from, to T) error {
	sm.mu.RLock()
	allowed := slices.Contains(sm.validTransitions[from], to)
	validators := slices.Clone(sm.validators)
	sm.mu.RUnlock()

	if !allowed {
		return &TransitionError[T]{From: from, To: to, Err: ErrInvalidTransition}
	}
	for _, v := range validators {
		if err := v(from, to); err != nil {
			return &TransitionError[T]{From: from, To: to, Err: err}
		}
	}
	return nil
}
