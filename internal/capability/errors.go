package capability

import "errors"

// Domain errors for the capability package. Check with errors.Is().
var (
	// ErrNotFound is returned when a capability ID is not registered.
	ErrNotFound = errors.New("capability: not found")

	// ErrIncompatible is returned when a capability reports it cannot run
	// on this machine.
	ErrIncompatible = errors.New("capability: incompatible")

	// ErrUnknownAction is returned when an action ID is not declared by
	// the capability.
	ErrUnknownAction = errors.New("capability: unknown action")

	// ErrInvalidParams is returned when parameters fail an action's specs.
	ErrInvalidParams = errors.New("capability: invalid parameters")

	// ErrInvalidDescriptor is returned when a descriptor violates its
	// uniqueness invariants.
	ErrInvalidDescriptor = errors.New("capability: invalid descriptor")

	// ErrExecutionFailed wraps a capability's internal execution error.
	ErrExecutionFailed = errors.New("capability: execution failed")

	// ErrBusUnavailable is returned when a command-bus capability has no
	// connected publisher.
	ErrBusUnavailable = errors.New("capability: command bus unavailable")
)
