package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/sundiald/sundial/internal/rules"
	"github.com/sundiald/sundial/internal/trigger"
)

// fakeDispatcher records dispatched rules.
type fakeDispatcher struct {
	mu    sync.Mutex
	fires []dispatched
}

type dispatched struct {
	rule    rules.AutomationRule
	firedAt time.Time
}

func (f *fakeDispatcher) Dispatch(rule rules.AutomationRule, firedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fires = append(f.fires, dispatched{rule, firedAt})
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fires)
}

func (f *fakeDispatcher) last() dispatched {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fires[len(f.fires)-1]
}

// fakeStats records per-pass metrics.
type fakeStats struct {
	mu     sync.Mutex
	passes []struct{ evaluated, fired int }
}

func (f *fakeStats) WriteSchedulerStats(evaluated, fired int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passes = append(f.passes, struct{ evaluated, fired int }{evaluated, fired})
}

// newTestRegistry builds a registry with a controllable clock.
func newTestRegistry(t *testing.T, d Dispatcher, start time.Time) (*Registry, *time.Time) {
	t.Helper()
	r := NewRegistry(d, time.Second, nil)
	clock := start
	r.now = func() time.Time { return clock }
	return r, &clock
}

func intervalRule(id string, period time.Duration) rules.AutomationRule {
	return rules.AutomationRule{
		ID:           id,
		Name:         "rule " + id,
		Enabled:      true,
		Trigger:      trigger.NewInterval(period),
		CapabilityID: "keyboard-backlight",
		ActionID:     "set",
	}
}

func waitForDispatches(t *testing.T, r *Registry, d *fakeDispatcher, want int) {
	t.Helper()
	r.dispatchWG.Wait()
	if got := d.count(); got != want {
		t.Fatalf("dispatches = %d, want %d", got, want)
	}
}

func TestIntervalFiresImmediatelyThenWaits(t *testing.T) {
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	d := &fakeDispatcher{}
	r, clock := newTestRegistry(t, d, start)

	r.Add(intervalRule("r1", 10*time.Second))

	r.EvaluateOnce()
	waitForDispatches(t, r, d, 1)

	// Inside the period: no fire.
	*clock = start.Add(5 * time.Second)
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 1)

	// Period elapsed: fires again.
	*clock = start.Add(10 * time.Second)
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 2)

	if got := d.last().firedAt; !got.Equal(start.Add(10 * time.Second)) {
		t.Errorf("firedAt = %v, want pass snapshot", got)
	}
}

func TestTimeOfDayFiresOncePerMinute(t *testing.T) {
	noon := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)
	d := &fakeDispatcher{}
	r, clock := newTestRegistry(t, d, noon)

	rule := intervalRule("r1", 0)
	rule.Trigger = trigger.NewTimeOfDay(12, 0, nil)
	r.Add(rule)

	r.EvaluateOnce()
	waitForDispatches(t, r, d, 1)

	// Subsequent ticks inside the same minute are suppressed.
	*clock = noon.Add(time.Second)
	r.EvaluateOnce()
	*clock = noon.Add(30 * time.Second)
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 1)

	// Same time next day fires again.
	*clock = noon.AddDate(0, 0, 1)
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 2)
}

func TestSolarTaskNeedsLocation(t *testing.T) {
	// Just before sunrise over London on midsummer morning.
	start := time.Date(2025, time.June, 21, 3, 0, 0, 0, time.UTC)
	d := &fakeDispatcher{}
	r, clock := newTestRegistry(t, d, start)

	rule := intervalRule("r1", 0)
	rule.Trigger = trigger.NewSolar(trigger.EventSunrise, 0)
	r.Add(rule)

	// Without coordinates there is no target, so nothing ever fires.
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 0)

	lat, lon := 51.5, -0.1
	r.SetLocation(&lat, &lon)

	infos := r.DebugInfo()
	if len(infos) != 1 || infos[0].NextFire == nil {
		t.Fatalf("expected solar next fire after SetLocation, got %+v", infos)
	}

	// Jump the clock onto the target: the task fires.
	*clock = *infos[0].NextFire
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 1)

	// The target rolls forward past the fire instant.
	next := r.DebugInfo()[0].NextFire
	if next == nil || !next.After(*clock) {
		t.Errorf("next fire = %v, want a future target", next)
	}
}

func TestUpdatePreservesLastFire(t *testing.T) {
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	d := &fakeDispatcher{}
	r, clock := newTestRegistry(t, d, start)

	r.Add(intervalRule("r1", 10*time.Second))
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 1)

	// Re-saving the rule must not reset the interval timer.
	updated := intervalRule("r1", 10*time.Second)
	updated.Name = "renamed"
	r.Update(updated)

	*clock = start.Add(5 * time.Second)
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 1)

	*clock = start.Add(10 * time.Second)
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 2)
	if d.last().rule.Name != "renamed" {
		t.Errorf("dispatched rule name = %q, want updated rule", d.last().rule.Name)
	}
}

func TestAddResetsBookkeeping(t *testing.T) {
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	d := &fakeDispatcher{}
	r, clock := newTestRegistry(t, d, start)

	r.Add(intervalRule("r1", time.Hour))
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 1)

	// Add replaces with fresh bookkeeping, so the task fires immediately.
	*clock = start.Add(time.Second)
	r.Add(intervalRule("r1", time.Hour))
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 2)
}

func TestDisabledRuleNeverFires(t *testing.T) {
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	d := &fakeDispatcher{}
	r, clock := newTestRegistry(t, d, start)

	// An interval trigger would otherwise fire on the first pass.
	rule := intervalRule("r1", time.Second)
	rule.Enabled = false
	r.Add(rule)

	r.EvaluateOnce()
	*clock = start.Add(time.Minute)
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 0)
}

func TestRemoveAndClear(t *testing.T) {
	d := &fakeDispatcher{}
	r, _ := newTestRegistry(t, d, time.Now())

	r.Add(intervalRule("r1", time.Second))
	r.Add(intervalRule("r2", time.Second))
	if r.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", r.Count())
	}

	r.Remove("r1")
	if r.Count() != 1 {
		t.Errorf("Count() = %d after Remove, want 1", r.Count())
	}
	r.Remove("unknown")

	r.Clear()
	if r.Count() != 0 || len(r.DebugInfo()) != 0 {
		t.Errorf("registry not empty after Clear")
	}
}

func TestDebugInfoSortedByName(t *testing.T) {
	d := &fakeDispatcher{}
	r, _ := newTestRegistry(t, d, time.Now())

	a := intervalRule("x", time.Second)
	a.Name = "bravo"
	b := intervalRule("y", time.Second)
	b.Name = "alpha"
	r.Add(a)
	r.Add(b)

	infos := r.DebugInfo()
	if len(infos) != 2 || infos[0].RuleName != "alpha" || infos[1].RuleName != "bravo" {
		t.Errorf("DebugInfo order = %+v, want sorted by name", infos)
	}
}

func TestStatsRecorderSeesEveryPass(t *testing.T) {
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	d := &fakeDispatcher{}
	r, _ := newTestRegistry(t, d, start)
	stats := &fakeStats{}
	r.SetStatsRecorder(stats)

	r.Add(intervalRule("r1", time.Hour))
	r.EvaluateOnce()
	r.dispatchWG.Wait()

	stats.mu.Lock()
	defer stats.mu.Unlock()
	if len(stats.passes) != 1 {
		t.Fatalf("recorded %d passes, want 1", len(stats.passes))
	}
	if p := stats.passes[0]; p.evaluated != 1 || p.fired != 1 {
		t.Errorf("pass = %+v, want evaluated 1 fired 1", p)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	d := &fakeDispatcher{}
	r := NewRegistry(d, 10*time.Millisecond, nil)

	r.Add(intervalRule("r1", time.Millisecond))

	r.Start()
	r.Start() // idempotent

	deadline := time.After(2 * time.Second)
	for d.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("no dispatch before deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}

	r.Stop()
	r.Stop() // idempotent

	// After Stop returns, no further dispatches occur.
	settled := d.count()
	time.Sleep(50 * time.Millisecond)
	if got := d.count(); got != settled {
		t.Errorf("dispatches after Stop: %d -> %d", settled, got)
	}
}

func TestDispatchReceivesRuleCopy(t *testing.T) {
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)
	d := &fakeDispatcher{}
	r, _ := newTestRegistry(t, d, start)

	r.Add(intervalRule("r1", time.Hour))
	r.EvaluateOnce()
	waitForDispatches(t, r, d, 1)

	// Mutating the dispatched copy must not leak into the registry.
	got := d.last().rule
	got.Name = "mutated"
	if r.DebugInfo()[0].RuleName == "mutated" {
		t.Error("dispatched rule shares state with the registry")
	}
}
