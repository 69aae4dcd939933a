package world

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a configuration the world cannot run with.
	ErrInvalidConfig = errors.New("world: invalid configuration")

	// ErrNoChemistry indicates a world built without a reaction table.
	ErrNoChemistry = errors.New("world: nil reaction table")
)

// StepError wraps a failure inside a tick with the phase it happened in.
type StepError struct {
	Tick  uint64
	Phase string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("tick %d (%s): %v", e.Tick, e.Phase, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
