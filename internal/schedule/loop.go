package schedule

import (
	"time"

	"github.com/sundiald/sundial/internal/trigger"
)

// Start launches the evaluation loop in its own goroutine. Starting an
// already-running registry is a no-op.
func (r *Registry) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})

	go r.run(r.stopCh, r.doneCh)

	r.logger.Info("scheduler started", "interval", r.interval)
}

// Stop halts the loop and blocks until the current pass and all in-flight
// dispatch goroutines finish. Stopping a stopped registry is a no-op.
func (r *Registry) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	close(stopCh)
	<-doneCh
	r.dispatchWG.Wait()

	r.logger.Info("scheduler stopped")
}

// run is the loop body. One goroutine, one pass at a time; passes cannot
// overlap no matter how slow evaluation gets.
func (r *Registry) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			r.evaluatePass()
		}
	}
}

// evaluatePass evaluates every task against a single time snapshot and
// dispatches fires on background goroutines. Holding r.mu for the whole
// pass keeps concurrent Add/Update/Remove calls from observing a half
// -evaluated set.
func (r *Registry) evaluatePass() {
	started := r.now()

	r.mu.Lock()

	// One snapshot per pass so every task sees the same instant.
	now := started
	fired := 0
	evaluated := len(r.tasks)

	for _, task := range r.tasks {
		// The orchestrator only schedules enabled rules, but Add does not
		// enforce that. Disabled rules never fire.
		if !task.rule.Enabled {
			continue
		}
		if !trigger.ShouldFire(task.rule.Trigger, task.book, now) {
			continue
		}

		// Apply bookkeeping before dispatch so a slow dispatch cannot
		// cause a duplicate fire on the next pass.
		fireTime := now
		task.book.LastFire = &fireTime
		if task.rule.Trigger.Kind == trigger.KindSolar {
			task.book.NextFire = r.nextSolarLocked(task.rule.Trigger, now)
		}

		fired++
		rule := *task.rule.DeepCopy()

		r.dispatchWG.Add(1)
		go func() {
			defer r.dispatchWG.Done()
			r.dispatcher.Dispatch(rule, fireTime)
		}()

		r.logger.Debug("trigger fired",
			"rule_id", rule.ID,
			"rule_name", rule.Name,
			"trigger", rule.Trigger.Describe(),
		)
	}

	stats := r.stats
	r.mu.Unlock()

	if stats != nil {
		stats.WriteSchedulerStats(evaluated, fired, time.Since(started))
	}
}

// EvaluateOnce runs a single evaluation pass immediately. Used by tests
// and by the debug API to force evaluation without waiting for the tick.
func (r *Registry) EvaluateOnce() {
	r.evaluatePass()
}
