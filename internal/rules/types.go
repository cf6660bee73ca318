package rules

import (
	"time"

	"github.com/sundiald/sundial/internal/capability"
	"github.com/sundiald/sundial/internal/trigger"
)

// AutomationRule binds a trigger to one capability action. When the trigger
// fires, the action runs with the stored parameters.
type AutomationRule struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Configuration
	Enabled bool `json:"enabled"`

	// When to fire
	Trigger trigger.Trigger `json:"trigger"`

	// What to do
	CapabilityID string            `json:"capability_id"`
	ActionID     string            `json:"action_id"`
	Parameters   capability.Params `json:"parameters,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RuleExecution records a single fire of a rule.
type RuleExecution struct {
	ID      string    `json:"id"`
	RuleID  string    `json:"rule_id"`
	FiredAt time.Time `json:"fired_at"`

	// Source is what initiated the fire.
	Source ExecutionSource `json:"source"`

	Status ExecutionStatus `json:"status"`
	Error  *string         `json:"error,omitempty"`

	DurationMS int `json:"duration_ms"`
}

// ExecutionSource identifies what initiated a rule fire.
type ExecutionSource string

const (
	SourceScheduled ExecutionSource = "scheduled"
	SourceManual    ExecutionSource = "manual"
)

// ExecutionStatus represents the outcome of a rule fire.
type ExecutionStatus string

const (
	StatusOK     ExecutionStatus = "ok"
	StatusFailed ExecutionStatus = "failed"
)

// GlobalSettings holds site-wide state shared by all rules. There is
// exactly one row; the coordinates drive solar trigger computation.
type GlobalSettings struct {
	// Latitude and Longitude are nil until a location has been set.
	// Solar triggers never fire without coordinates.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// AutoLocation marks the coordinates as externally supplied (geoip,
	// timezone lookup) rather than user-entered.
	AutoLocation bool `json:"auto_location"`

	UpdatedAt time.Time `json:"updated_at"`
}

// HasLocation reports whether both coordinates are set.
func (s GlobalSettings) HasLocation() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// DeepCopy creates an independent copy of the rule. The parameter map is
// cloned so cache copies cannot be mutated through shared references.
func (r *AutomationRule) DeepCopy() *AutomationRule {
	if r == nil {
		return nil
	}

	cpy := *r

	if r.Parameters != nil {
		cpy.Parameters = make(capability.Params, len(r.Parameters))
		for k, v := range r.Parameters {
			cpy.Parameters[k] = v
		}
	}
	if r.Trigger.DaysOfWeek != nil {
		cpy.Trigger.DaysOfWeek = append([]time.Weekday(nil), r.Trigger.DaysOfWeek...)
	}

	return &cpy
}
