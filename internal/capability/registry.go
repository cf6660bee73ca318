package capability

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Capability is the contract every pluggable backend implements. Concrete
// variants are selected by static identifier string, not by type.
type Capability interface {
	// Descriptor returns the static identity and action schema.
	Descriptor() Descriptor

	// Execute performs a declared action. Implementations validate the
	// parameter map themselves and return a descriptive error on mismatch.
	Execute(ctx context.Context, actionID string, params Params) error

	// Compatibility reports whether the capability can run here.
	Compatibility() Compatibility

	// Cleanup releases any resources the capability holds.
	Cleanup()
}

// Constructor builds a capability instance from shared dependencies.
type Constructor func(deps Deps) Capability

// Deps carries the shared collaborators handed to capability constructors.
type Deps struct {
	// Bus publishes hardware commands to external bridges. May be nil
	// when no broker is configured; bus-backed capabilities then report
	// themselves incompatible.
	Bus CommandPublisher

	Logger Logger
}

// CommandPublisher is the interface bus-backed capabilities publish
// through. Satisfied by the infrastructure MQTT client.
type CommandPublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// Registry discovers, holds, and routes invocations to capabilities.
//
// Discovery instantiates every known constructor, checks compatibility,
// and retains only capabilities reporting compatible=true. The map is
// read-mostly afterwards; UnloadAll clears it during shutdown.
//
// All public methods are thread-safe.
type Registry struct {
	constructors map[string]Constructor
	disabled     map[string]bool
	deps         Deps

	mu     sync.RWMutex
	loaded map[string]Capability

	logger Logger
}

// NewRegistry creates a capability registry with the built-in constructor
// table. disabledIDs lists capability IDs to skip during discovery.
func NewRegistry(deps Deps, disabledIDs []string) *Registry {
	if deps.Logger == nil {
		deps.Logger = noopLogger{}
	}

	disabled := make(map[string]bool, len(disabledIDs))
	for _, id := range disabledIDs {
		disabled[id] = true
	}

	r := &Registry{
		constructors: make(map[string]Constructor),
		disabled:     disabled,
		deps:         deps,
		loaded:       make(map[string]Capability),
		logger:       deps.Logger,
	}

	// Built-in backends, keyed by static identifier.
	r.RegisterConstructor(BacklightID, NewBacklight)
	r.RegisterConstructor(DisplayID, NewDisplay)

	return r
}

// RegisterConstructor adds a constructor to the table. Registering over an
// existing ID replaces it; intended for tests and external extensions.
func (r *Registry) RegisterConstructor(id string, ctor Constructor) {
	r.constructors[id] = ctor
}

// Discover instantiates every known capability, checks compatibility, and
// retains the compatible ones. Incompatible capabilities are excluded with
// a warning; warnings from compatible capabilities are surfaced but
// non-blocking. A descriptor violating its invariants excludes the
// capability.
func (r *Registry) Discover(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, ctor := range r.constructors {
		if r.disabled[id] {
			r.logger.Info("capability disabled by config", "capability", id)
			continue
		}

		impl := ctor(r.deps)

		desc := impl.Descriptor()
		if err := desc.Validate(); err != nil {
			r.logger.Error("capability descriptor rejected", "capability", id, "error", err)
			impl.Cleanup()
			continue
		}

		compat := impl.Compatibility()
		for _, w := range compat.Warnings {
			r.logger.Warn("capability warning", "capability", id, "warning", w)
		}
		if !compat.Compatible {
			r.logger.Warn("capability incompatible, excluded",
				"capability", id,
				"missing", compat.Missing,
			)
			impl.Cleanup()
			continue
		}

		r.loaded[desc.ID] = impl
		r.logger.Info("capability loaded",
			"capability", desc.ID,
			"version", desc.Version,
			"actions", len(desc.Actions),
		)
	}

	return nil
}

// Has reports whether a capability ID is loaded.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaded[id]
	return ok
}

// Get returns a loaded capability by ID.
func (r *Registry) Get(id string) (Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	impl, ok := r.loaded[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return impl, nil
}

// Invoke executes an action on a loaded capability, wrapping failures as
// execution errors.
func (r *Registry) Invoke(ctx context.Context, id, actionID string, params Params) error {
	impl, err := r.Get(id)
	if err != nil {
		return err
	}

	if err := impl.Execute(ctx, actionID, params); err != nil {
		return fmt.Errorf("%w: %s.%s: %w", ErrExecutionFailed, id, actionID, err)
	}
	return nil
}

// ListDescriptors returns the descriptors of all loaded capabilities,
// sorted by display name.
func (r *Registry) ListDescriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]Descriptor, 0, len(r.loaded))
	for _, impl := range r.loaded {
		descs = append(descs, impl.Descriptor())
	}
	sort.Slice(descs, func(i, j int) bool {
		return descs[i].DisplayName < descs[j].DisplayName
	})
	return descs
}

// Count returns the number of loaded capabilities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.loaded)
}

// UnloadAll calls every capability's cleanup hook and clears the registry.
// Callers must ensure no invocations are in flight.
func (r *Registry) UnloadAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, impl := range r.loaded {
		impl.Cleanup()
		r.logger.Debug("capability unloaded", "capability", id)
	}
	r.loaded = make(map[string]Capability)
}
