package orchestrator

import (
	"context"
	"time"

	"github.com/sundiald/sundial/internal/rules"
)

// maxExecutionTime is the hard limit for a single rule execution. Command
// publishes are quick; anything slower is a stuck bus.
const maxExecutionTime = 30 * time.Second

// Dispatch implements schedule.Dispatcher. It runs on a background
// goroutine per fire; all errors are handled here and never propagate.
func (o *Orchestrator) Dispatch(rule rules.AutomationRule, firedAt time.Time) {
	o.execute(context.Background(), rule, firedAt, rules.SourceScheduled)
}

// ExecuteAutomation runs a rule immediately, bypassing its trigger. The
// execution outcome is returned to the caller as well as notified.
func (o *Orchestrator) ExecuteAutomation(ctx context.Context, ruleID string) error {
	rule, err := o.repo.GetByID(ctx, ruleID)
	if err != nil {
		return err
	}
	return o.execute(ctx, *rule, time.Now().UTC(), rules.SourceManual)
}

// execute invokes the rule's capability action and records the outcome in
// the execution log, the time-series sink, the notifier, and the event hub.
func (o *Orchestrator) execute(ctx context.Context, rule rules.AutomationRule, firedAt time.Time, source rules.ExecutionSource) error {
	execCtx, cancel := context.WithTimeout(ctx, maxExecutionTime)
	defer cancel()

	started := time.Now()
	invokeErr := o.capabilities.Invoke(execCtx, rule.CapabilityID, rule.ActionID, rule.Parameters)
	duration := time.Since(started)

	exec := &rules.RuleExecution{
		ID:         rules.GenerateID(),
		RuleID:     rule.ID,
		FiredAt:    firedAt,
		Source:     source,
		Status:     rules.StatusOK,
		DurationMS: int(duration.Milliseconds()),
	}

	if invokeErr != nil {
		msg := invokeErr.Error()
		exec.Status = rules.StatusFailed
		exec.Error = &msg

		o.logger.Error("automation execution failed",
			"rule_id", rule.ID,
			"rule_name", rule.Name,
			"capability", rule.CapabilityID,
			"action", rule.ActionID,
			"error", invokeErr,
		)
		o.notifier.SendError(rule.Name, msg)
	} else {
		o.logger.Info("automation executed",
			"rule_id", rule.ID,
			"rule_name", rule.Name,
			"capability", rule.CapabilityID,
			"action", rule.ActionID,
			"duration_ms", exec.DurationMS,
		)
		o.notifier.SendSuccess(rule.Name, rule.Trigger.Describe())
	}

	// Outcome recording is best-effort; the execution itself already
	// happened.
	if logErr := o.repo.CreateExecution(execCtx, exec); logErr != nil {
		o.logger.Error("failed to record execution", "rule_id", rule.ID, "error", logErr)
	}

	// Snapshot the optional collaborators: they may be attached after the
	// orchestrator starts, concurrently with dispatch goroutines.
	o.stateMu.Lock()
	recorder, hub := o.recorder, o.hub
	o.stateMu.Unlock()

	if recorder != nil {
		recorder.WriteRuleFire(rule.ID, rule.CapabilityID, rule.ActionID,
			string(source), string(exec.Status), duration)
	}

	if hub != nil {
		event := "rule.fired"
		if invokeErr != nil {
			event = "rule.failed"
		}
		hub.Broadcast(event, map[string]any{
			"rule_id":     rule.ID,
			"rule_name":   rule.Name,
			"capability":  rule.CapabilityID,
			"action":      rule.ActionID,
			"source":      string(source),
			"status":      string(exec.Status),
			"duration_ms": exec.DurationMS,
			"fired_at":    firedAt.Format(time.RFC3339),
		})
	}

	return invokeErr
}
