package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when the trigger is not allowed in the current state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrGuardFailed is returned when every transition for the trigger is guarded off
	ErrGuardFailed = errors.New("guard condition failed")
)
