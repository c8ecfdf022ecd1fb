package progress

import (
	"errors"
	"fmt"
)

// ErrNoTask is returned, wrapped in a *NoTaskError, when a task lookup
// finds nothing.
var ErrNoTask = errors.New("no such task")

// NoTaskError identifies the task a lookup was looking for, either by name
// or by numeric id.
type NoTaskError struct {
	Name string
	ID   int
	ByID bool
}

func (e *NoTaskError) Error() string {
	if e.ByID {
		return fmt.Sprintf("%v (id: %d)", ErrNoTask, e.ID)
	}
	return fmt.Sprintf("%v (named: %s)", ErrNoTask, e.Name)
}

func (e *NoTaskError) Unwrap() error {
	return ErrNoTask
}
