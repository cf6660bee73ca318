package schedule

import (
	"sort"
	"sync"
	"time"

	"github.com/sundiald/sundial/internal/rules"
	"github.com/sundiald/sundial/internal/trigger"
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

// Dispatcher receives rules whose triggers have fired. Dispatch runs on a
// background goroutine per fire; implementations own their error handling
// since a fire has no caller to report to.
type Dispatcher interface {
	Dispatch(rule rules.AutomationRule, firedAt time.Time)
}

// StatsRecorder receives per-pass evaluation metrics. Optional.
type StatsRecorder interface {
	WriteSchedulerStats(evaluated, fired int, elapsed time.Duration)
}

// scheduledTask pairs a rule with its trigger bookkeeping. Bookkeeping
// survives rule updates so a re-saved rule does not re-fire.
type scheduledTask struct {
	rule rules.AutomationRule
	book trigger.Bookkeeping
}

// TaskInfo is a read-only snapshot of one scheduled task for debugging.
type TaskInfo struct {
	RuleID      string     `json:"rule_id"`
	RuleName    string     `json:"rule_name"`
	Trigger     string     `json:"trigger"`
	LastFire    *time.Time `json:"last_fire,omitempty"`
	NextFire    *time.Time `json:"next_fire,omitempty"`
	Description string     `json:"description"`
}

// Registry holds the scheduled task set and evaluates it on a fixed tick.
//
// Tasks are keyed by rule ID. The evaluation loop runs in its own goroutine
// (see loop.go); all public methods are thread-safe against it.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]*scheduledTask

	// Coordinates for solar trigger computation. Nil until set; solar
	// triggers never fire without them.
	latitude  *float64
	longitude *float64

	dispatcher Dispatcher
	stats      StatsRecorder
	interval   time.Duration
	logger     Logger

	// Loop state, guarded by mu.
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// dispatchWG tracks in-flight dispatch goroutines so Stop can wait
	// for them.
	dispatchWG sync.WaitGroup

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewRegistry creates a schedule registry. interval is the evaluation
// cadence; it must stay under a minute or exact-minute triggers can be
// skipped.
func NewRegistry(dispatcher Dispatcher, interval time.Duration, logger Logger) *Registry {
	if logger == nil {
		logger = noopLogger{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Registry{
		tasks:      make(map[string]*scheduledTask),
		dispatcher: dispatcher,
		interval:   interval,
		logger:     logger,
		now:        time.Now,
	}
}

// SetStatsRecorder sets an optional per-pass metrics sink.
func (r *Registry) SetStatsRecorder(stats StatsRecorder) {
	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
}

// SetLocation updates the coordinates used for solar computation and
// recomputes the next fire time of every solar task.
func (r *Registry) SetLocation(latitude, longitude *float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.latitude = latitude
	r.longitude = longitude

	now := r.now()
	for _, task := range r.tasks {
		if task.rule.Trigger.Kind == trigger.KindSolar {
			task.book.NextFire = r.nextSolarLocked(task.rule.Trigger, now)
		}
	}
}

// Add registers a rule for evaluation with fresh bookkeeping. Adding an
// already-present rule ID replaces it.
func (r *Registry) Add(rule rules.AutomationRule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task := &scheduledTask{rule: *rule.DeepCopy()}
	if rule.Trigger.Kind == trigger.KindSolar {
		task.book.NextFire = r.nextSolarLocked(rule.Trigger, r.now())
	}
	r.tasks[rule.ID] = task

	r.logger.Debug("schedule task added",
		"rule_id", rule.ID,
		"trigger", rule.Trigger.Describe(),
	)
}

// Update replaces a task's rule while preserving its last-fire time, so an
// edited interval rule does not fire immediately on save. Solar next-fire
// is recomputed against the new trigger. Updating an unknown rule adds it.
func (r *Registry) Update(rule rules.AutomationRule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[rule.ID]
	if !ok {
		task = &scheduledTask{}
		r.tasks[rule.ID] = task
	}

	task.rule = *rule.DeepCopy()
	task.book.NextFire = nil
	if rule.Trigger.Kind == trigger.KindSolar {
		task.book.NextFire = r.nextSolarLocked(rule.Trigger, r.now())
	}
}

// Remove drops a rule from the schedule. Removing an unknown ID is a no-op.
func (r *Registry) Remove(ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, ruleID)
}

// Clear drops every task. Used during shutdown and full reloads.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = make(map[string]*scheduledTask)
}

// Count returns the number of scheduled tasks.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// DebugInfo returns a snapshot of every scheduled task, sorted by rule
// name for stable listings.
func (r *Registry) DebugInfo() []TaskInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]TaskInfo, 0, len(r.tasks))
	for _, task := range r.tasks {
		infos = append(infos, TaskInfo{
			RuleID:      task.rule.ID,
			RuleName:    task.rule.Name,
			Trigger:     string(task.rule.Trigger.Kind),
			LastFire:    cloneTimePtr(task.book.LastFire),
			NextFire:    cloneTimePtr(task.book.NextFire),
			Description: task.rule.Trigger.Describe(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].RuleName < infos[j].RuleName
	})
	return infos
}

// nextSolarLocked computes a solar trigger's next fire time under r.mu.
// Returns nil without coordinates or during polar day/night.
func (r *Registry) nextSolarLocked(t trigger.Trigger, now time.Time) *time.Time {
	if r.latitude == nil || r.longitude == nil {
		return nil
	}
	return trigger.NextSolarFire(t, now, *r.latitude, *r.longitude)
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
