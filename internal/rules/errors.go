package rules

import "errors"

// Domain errors for the rules package. Check with errors.Is.
var (
	// ErrNotFound is returned when a rule ID does not exist.
	ErrNotFound = errors.New("rule: not found")

	// ErrExists is returned when creating a rule with an ID that already
	// exists.
	ErrExists = errors.New("rule: already exists")

	// ErrInvalidRule is returned when rule validation fails.
	ErrInvalidRule = errors.New("rule: invalid")

	// ErrInvalidName is returned when a rule name is empty or too long.
	ErrInvalidName = errors.New("rule: invalid name")

	// ErrExecutionNotFound is returned when an execution ID does not exist.
	ErrExecutionNotFound = errors.New("rule: execution not found")
)
