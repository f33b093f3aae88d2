package scaffold

import (
	"errors"
	"fmt"
)

// ErrToolNotFound is returned when the runner executable cannot be resolved.
var ErrToolNotFound = errors.New("scaffolding tool not found")

// SpawnError wraps an OS-level failure to start or wait on the tool.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawning %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
