package orchestrator

import (
	"context"
	"fmt"

	"github.com/sundiald/sundial/internal/rules"
)

// RegisterAutomation validates a rule, verifies its capability is loaded,
// persists it, and (when enabled and the orchestrator is running) adds it
// to the schedule. An empty ID is generated.
func (o *Orchestrator) RegisterAutomation(ctx context.Context, rule *rules.AutomationRule) error {
	if rule != nil && rule.ID == "" {
		rule.ID = rules.GenerateID()
	}

	if err := rules.ValidateRule(rule); err != nil {
		return err
	}
	if err := o.checkAction(rule); err != nil {
		return err
	}

	if err := o.repo.Create(ctx, rule); err != nil {
		return err
	}

	if rule.Enabled && o.State() == StateRunning {
		o.scheduler.Add(*rule)
	}

	o.logger.Info("automation registered",
		"rule_id", rule.ID,
		"rule_name", rule.Name,
		"trigger", rule.Trigger.Describe(),
	)
	return nil
}

// UpdateAutomation validates and persists a changed rule, then reconciles
// the schedule: an enabled rule is updated in place (its fire history kept),
// a disabled one is removed.
func (o *Orchestrator) UpdateAutomation(ctx context.Context, rule *rules.AutomationRule) error {
	if err := rules.ValidateRule(rule); err != nil {
		return err
	}
	if err := o.checkAction(rule); err != nil {
		return err
	}

	if err := o.repo.Update(ctx, rule); err != nil {
		return err
	}

	if o.State() == StateRunning {
		if rule.Enabled {
			o.scheduler.Update(*rule)
		} else {
			o.scheduler.Remove(rule.ID)
		}
	}

	o.logger.Info("automation updated", "rule_id", rule.ID, "rule_name", rule.Name)
	return nil
}

// UnregisterAutomation deletes a rule and drops it from the schedule.
func (o *Orchestrator) UnregisterAutomation(ctx context.Context, ruleID string) error {
	if err := o.repo.Delete(ctx, ruleID); err != nil {
		return err
	}
	o.scheduler.Remove(ruleID)

	o.logger.Info("automation unregistered", "rule_id", ruleID)
	return nil
}

// ToggleAutomation flips a rule's enabled flag and reconciles the schedule.
// Returns the updated rule.
func (o *Orchestrator) ToggleAutomation(ctx context.Context, ruleID string) (*rules.AutomationRule, error) {
	rule, err := o.repo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	rule.Enabled = !rule.Enabled
	if err := o.repo.Update(ctx, rule); err != nil {
		return nil, err
	}

	if o.State() == StateRunning {
		if rule.Enabled {
			o.scheduler.Add(*rule)
		} else {
			o.scheduler.Remove(rule.ID)
		}
	}

	o.logger.Info("automation toggled", "rule_id", ruleID, "enabled", rule.Enabled)
	return rule, nil
}

// SetLocation persists new site coordinates and pushes them into the
// scheduler, which recomputes every solar target.
func (o *Orchestrator) SetLocation(ctx context.Context, settings *rules.GlobalSettings) error {
	if err := rules.ValidateSettings(settings); err != nil {
		return err
	}

	if err := o.repo.SaveSettings(ctx, settings); err != nil {
		return err
	}
	o.scheduler.SetLocation(settings.Latitude, settings.Longitude)

	if settings.HasLocation() {
		o.logger.Info("location updated",
			"latitude", *settings.Latitude,
			"longitude", *settings.Longitude,
			"auto", settings.AutoLocation,
		)
	} else {
		o.logger.Info("location cleared")
	}
	return nil
}

// checkAction verifies the rule's capability is loaded and declares the
// referenced action.
func (o *Orchestrator) checkAction(rule *rules.AutomationRule) error {
	impl, err := o.capabilities.Get(rule.CapabilityID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCapabilityNotFound, rule.CapabilityID)
	}
	if _, ok := impl.Descriptor().FindAction(rule.ActionID); !ok {
		return fmt.Errorf("%w: capability %s has no action %s",
			ErrCapabilityNotFound, rule.CapabilityID, rule.ActionID)
	}
	return nil
}
