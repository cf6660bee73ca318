package capability

import (
	"fmt"
	"regexp"
)

// ParamType is the declared type tag of an action parameter.
type ParamType string

const (
	TypeString    ParamType = "string"
	TypeInteger   ParamType = "integer"
	TypeFloat     ParamType = "float"
	TypeBoolean   ParamType = "boolean"
	TypeTime      ParamType = "time"
	TypeDate      ParamType = "date"
	TypeSelection ParamType = "selection"
)

// ParamSpec describes a single action parameter: identity, type tag,
// whether it is required, an optional default, and optional validation
// bounds, options, or pattern.
type ParamSpec struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`

	// Default is applied when an optional parameter is absent.
	Default *Value `json:"default,omitempty"`

	// Min/Max bound integer and float parameters (inclusive).
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// Options enumerate legal values for selection parameters.
	Options []string `json:"options,omitempty"`

	// Pattern is a regular expression string parameters must match.
	Pattern string `json:"pattern,omitempty"`
}

// Action describes one named, versionless operation a capability supports.
type Action struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	Description string      `json:"description,omitempty"`
	Params      []ParamSpec `json:"params,omitempty"`
}

// Descriptor is the static identity and action schema of a capability.
type Descriptor struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Actions     []Action `json:"actions"`
}

// Compatibility reports whether a capability can run on this machine.
// Missing lists hard requirements that failed; Warnings are non-fatal.
type Compatibility struct {
	Compatible bool     `json:"compatible"`
	Missing    []string `json:"missing,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Validate checks descriptor invariants: action IDs unique within the
// capability, parameter IDs unique within each action.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidDescriptor)
	}

	actionIDs := make(map[string]bool, len(d.Actions))
	for _, a := range d.Actions {
		if a.ID == "" {
			return fmt.Errorf("%w: action id is required", ErrInvalidDescriptor)
		}
		if actionIDs[a.ID] {
			return fmt.Errorf("%w: duplicate action id %q", ErrInvalidDescriptor, a.ID)
		}
		actionIDs[a.ID] = true

		paramIDs := make(map[string]bool, len(a.Params))
		for _, p := range a.Params {
			if p.ID == "" {
				return fmt.Errorf("%w: action %q has a parameter without id", ErrInvalidDescriptor, a.ID)
			}
			if paramIDs[p.ID] {
				return fmt.Errorf("%w: action %q has duplicate parameter %q", ErrInvalidDescriptor, a.ID, p.ID)
			}
			paramIDs[p.ID] = true
		}
	}
	return nil
}

// FindAction returns the action descriptor with the given ID.
func (d Descriptor) FindAction(id string) (Action, bool) {
	for _, a := range d.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// ValidateParams checks a parameter map against an action's specs and
// applies defaults for absent optional parameters. Capabilities call this
// from Execute: the orchestrator passes parameters through untyped and
// expects a descriptive error on mismatch.
func ValidateParams(action Action, params Params) (Params, error) {
	resolved := make(Params, len(params))
	for k, v := range params {
		resolved[k] = v
	}

	for _, spec := range action.Params {
		v, present := resolved[spec.ID]
		if !present || v.IsNull() {
			if spec.Default != nil {
				resolved[spec.ID] = *spec.Default
				continue
			}
			if spec.Required {
				return nil, fmt.Errorf("%w: action %q requires parameter %q", ErrInvalidParams, action.ID, spec.ID)
			}
			continue
		}

		if err := checkValue(spec, v); err != nil {
			return nil, fmt.Errorf("%w: action %q parameter %q: %v", ErrInvalidParams, action.ID, spec.ID, err)
		}
	}

	return resolved, nil
}

// checkValue validates a single value against its spec.
func checkValue(spec ParamSpec, v Value) error {
	switch spec.Type {
	case TypeString, TypeTime, TypeDate:
		s, ok := v.AsString()
		if !ok {
			return fmt.Errorf("expected %s", spec.Type)
		}
		if spec.Pattern != "" {
			re, err := regexp.Compile(spec.Pattern)
			if err != nil {
				return fmt.Errorf("invalid pattern %q", spec.Pattern)
			}
			if !re.MatchString(s) {
				return fmt.Errorf("%q does not match %q", s, spec.Pattern)
			}
		}
	case TypeInteger:
		i, ok := v.AsInt()
		if !ok {
			return fmt.Errorf("expected integer")
		}
		return checkBounds(spec, float64(i))
	case TypeFloat:
		f, ok := v.AsFloat()
		if !ok {
			return fmt.Errorf("expected float")
		}
		return checkBounds(spec, f)
	case TypeBoolean:
		if _, ok := v.AsBool(); !ok {
			return fmt.Errorf("expected boolean")
		}
	case TypeSelection:
		s, ok := v.AsString()
		if !ok {
			return fmt.Errorf("expected selection")
		}
		for _, opt := range spec.Options {
			if s == opt {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of %v", s, spec.Options)
	default:
		return fmt.Errorf("unknown parameter type %q", spec.Type)
	}
	return nil
}

// checkBounds validates numeric bounds (inclusive).
func checkBounds(spec ParamSpec, f float64) error {
	if spec.Min != nil && f < *spec.Min {
		return fmt.Errorf("%v is below minimum %v", f, *spec.Min)
	}
	if spec.Max != nil && f > *spec.Max {
		return fmt.Errorf("%v is above maximum %v", f, *spec.Max)
	}
	return nil
}
