package domain

import (
	"errors"
	"fmt"
)

// Engine error sentinels, matched with errors.Is.
var (
	// ErrInvalidTime marks an input that does not denote a real instant.
	ErrInvalidTime = errors.New("invalid time")

	// ErrPhysicsModel marks a failure of the position model for a body.
	ErrPhysicsModel = errors.New("physics model failure")
)

// InvalidTimeError reports the offending BirthInput field.
// Not retryable.
type InvalidTimeError struct {
	Field  string // date | time | timezone | latitude | longitude
	Value  string
	Reason string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidTime.
func (e *InvalidTimeError) Is(target error) bool {
	return target == ErrInvalidTime
}

// PhysicsModelError reports that no position could be produced for a body.
// Fatal for the whole Blueprint.
type PhysicsModelError struct {
	Body   Body
	Reason string
	Err    error
}

func (e *PhysicsModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("position of %s: %s: %v", e.Body, e.Reason, e.Err)
	}
	return fmt.Sprintf("position of %s: %s", e.Body, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *PhysicsModelError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPhysicsModel.
func (e *PhysicsModelError) Is(target error) bool {
	return target == ErrPhysicsModel
}
