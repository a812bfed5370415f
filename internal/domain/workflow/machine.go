package workflow

import "context"

// StateMachine tracks a current state and validates transitions
type StateMachine interface {
	State() State

	// CanFire returns true if the trigger has a transition from the current
	// state. Guards are not evaluated.
	CanFire(trigger Trigger) bool

	// Fire moves to the first transition whose guard passes
	Fire(ctx context.Context, trigger Trigger) error

	PermittedTriggers() []Trigger
}
