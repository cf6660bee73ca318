package orchestrator

import "errors"

// Lifecycle and registration errors. Check with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start is called on a running
	// orchestrator.
	ErrAlreadyRunning = errors.New("orchestrator: already running")

	// ErrNotRunning is returned for operations requiring a running
	// orchestrator.
	ErrNotRunning = errors.New("orchestrator: not running")

	// ErrCapabilityNotFound is returned when a rule references a
	// capability that is not loaded.
	ErrCapabilityNotFound = errors.New("orchestrator: capability not found")
)
