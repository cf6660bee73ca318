package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sundiald/sundial/internal/capability"
	"github.com/sundiald/sundial/internal/notify"
	"github.com/sundiald/sundial/internal/rules"
	"github.com/sundiald/sundial/internal/schedule"
)

// Logger defines the logging interface used by the Orchestrator.
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

// State is the orchestrator lifecycle state.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// FireRecorder receives one point per rule execution. Optional; satisfied
// by the InfluxDB client.
type FireRecorder interface {
	WriteRuleFire(ruleID, capabilityID, actionID, source, status string, duration time.Duration)
}

// EventHub broadcasts daemon events to connected clients. Optional;
// satisfied by the WebSocket hub.
type EventHub interface {
	Broadcast(channel string, payload any)
}

// Orchestrator owns the daemon lifecycle: it discovers capabilities, loads
// persisted rules into the schedule, runs the evaluation loop, and executes
// rules when their triggers fire.
//
// All public methods are thread-safe.
type Orchestrator struct {
	repo         rules.Repository
	capabilities *capability.Registry
	scheduler    *schedule.Registry
	notifier     notify.Notifier
	logger       Logger

	// Optional collaborators, guarded by stateMu: they may be attached
	// while dispatch goroutines are reading them.
	recorder FireRecorder
	hub      EventHub

	stateMu sync.Mutex
	state   State
}

// New creates an orchestrator. The schedule registry is wired afterwards
// via AttachScheduler, since the registry needs this orchestrator as its
// dispatcher.
func New(repo rules.Repository, capabilities *capability.Registry, notifier notify.Notifier, logger Logger) *Orchestrator {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Orchestrator{
		repo:         repo,
		capabilities: capabilities,
		notifier:     notifier,
		logger:       logger,
		state:        StateStopped,
	}
}

// AttachScheduler wires the schedule registry. The registry's dispatcher
// must be this orchestrator.
func (o *Orchestrator) AttachScheduler(scheduler *schedule.Registry) {
	o.scheduler = scheduler
}

// SetFireRecorder sets an optional time-series sink for rule executions.
// Safe to call while the orchestrator is running.
func (o *Orchestrator) SetFireRecorder(recorder FireRecorder) {
	o.stateMu.Lock()
	o.recorder = recorder
	o.stateMu.Unlock()
}

// SetEventHub sets an optional broadcast hub for daemon events.
// Safe to call while the orchestrator is running.
func (o *Orchestrator) SetEventHub(hub EventHub) {
	o.stateMu.Lock()
	o.hub = hub
	o.stateMu.Unlock()
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	return o.state
}

// Start brings the orchestrator up: capability discovery, location load,
// rule load, then the evaluation loop. Returns ErrAlreadyRunning if not
// stopped.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.stateMu.Lock()
	if o.state != StateStopped {
		o.stateMu.Unlock()
		return ErrAlreadyRunning
	}
	o.state = StateStarting
	o.stateMu.Unlock()

	if err := o.startUp(ctx); err != nil {
		o.stateMu.Lock()
		o.state = StateStopped
		o.stateMu.Unlock()
		return err
	}

	o.stateMu.Lock()
	o.state = StateRunning
	o.stateMu.Unlock()

	o.logger.Info("orchestrator running",
		"capabilities", o.capabilities.Count(),
		"scheduled", o.scheduler.Count(),
	)
	return nil
}

func (o *Orchestrator) startUp(ctx context.Context) error {
	if err := o.capabilities.Discover(ctx); err != nil {
		return fmt.Errorf("discovering capabilities: %w", err)
	}

	settings, err := o.repo.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	o.scheduler.SetLocation(settings.Latitude, settings.Longitude)
	if !settings.HasLocation() {
		o.logger.Warn("no location configured, solar triggers will not fire")
	}

	loaded, err := o.repo.ListEnabled(ctx)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	for _, rule := range loaded {
		if !o.capabilities.Has(rule.CapabilityID) {
			o.logger.Warn("rule skipped, capability unavailable",
				"rule_id", rule.ID,
				"rule_name", rule.Name,
				"capability", rule.CapabilityID,
			)
			continue
		}
		o.scheduler.Add(rule)
	}

	o.scheduler.Start()
	return nil
}

// Stop brings the orchestrator down: the loop halts, in-flight executions
// drain, the schedule empties, and capabilities unload. Stopping a stopped
// orchestrator returns ErrNotRunning.
func (o *Orchestrator) Stop() error {
	o.stateMu.Lock()
	if o.state != StateRunning {
		o.stateMu.Unlock()
		return ErrNotRunning
	}
	o.state = StateStopping
	o.stateMu.Unlock()

	o.scheduler.Stop()
	o.scheduler.Clear()
	o.capabilities.UnloadAll()

	o.stateMu.Lock()
	o.state = StateStopped
	o.stateMu.Unlock()

	o.logger.Info("orchestrator stopped")
	return nil
}
