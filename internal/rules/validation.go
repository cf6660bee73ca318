package rules

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	maxNameLength    = 100
	maxParameterKeys = 20
)

// ValidateRule performs full validation on a rule. Returns an error
// describing the first failure found.
func ValidateRule(r *AutomationRule) error {
	if r == nil {
		return ErrInvalidRule
	}

	if err := ValidateName(r.Name); err != nil {
		return err
	}

	if err := r.Trigger.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}

	if r.CapabilityID == "" {
		return fmt.Errorf("%w: capability_id is required", ErrInvalidRule)
	}
	if r.ActionID == "" {
		return fmt.Errorf("%w: action_id is required", ErrInvalidRule)
	}
	if len(r.Parameters) > maxParameterKeys {
		return fmt.Errorf("%w: parameters exceeds %d keys", ErrInvalidRule, maxParameterKeys)
	}

	return nil
}

// ValidateName checks that a rule name is non-blank and within bounds.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateSettings checks coordinate ranges. Both coordinates must be
// present together or absent together.
func ValidateSettings(s *GlobalSettings) error {
	if s == nil {
		return fmt.Errorf("%w: settings required", ErrInvalidRule)
	}

	if (s.Latitude == nil) != (s.Longitude == nil) {
		return fmt.Errorf("%w: latitude and longitude must be set together", ErrInvalidRule)
	}
	if s.Latitude != nil {
		if *s.Latitude < -90 || *s.Latitude > 90 {
			return fmt.Errorf("%w: latitude must be -90 to 90", ErrInvalidRule)
		}
		if *s.Longitude < -180 || *s.Longitude > 180 {
			return fmt.Errorf("%w: longitude must be -180 to 180", ErrInvalidRule)
		}
	}
	return nil
}

// GenerateID creates a new UUID for a rule or execution.
func GenerateID() string {
	return uuid.New().String()
}
