package scaffold

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("scaffold: aborted")
	// ErrTypeExists is returned when the chosen type is already declared.
	ErrTypeExists = errors.New("scaffold: component type already exists")
)
