package capability

import (
	"context"
	"fmt"
)

// BacklightID is the static identifier of the keyboard backlight capability.
const BacklightID = "keyboard-backlight"

// fade bounds in milliseconds.
const (
	minFadeMS     = 100
	maxFadeMS     = 60000
	defaultFadeMS = 1000
)

// Backlight controls the keyboard backlight through an external hardware
// bridge on the command bus.
//
// A fade re-invoked mid-run supersedes the previous fade: both contend for
// the same backlight level on the bridge side, and the bridge applies the
// latest command.
type Backlight struct {
	bus    CommandPublisher
	logger Logger
}

// NewBacklight constructs the keyboard backlight capability.
func NewBacklight(deps Deps) Capability {
	return &Backlight{
		bus:    deps.Bus,
		logger: deps.Logger,
	}
}

// Descriptor implements Capability.
func (b *Backlight) Descriptor() Descriptor {
	level := ParamSpec{
		ID:          "level",
		DisplayName: "Level",
		Type:        TypeInteger,
		Required:    true,
		Min:         floatPtr(0),
		Max:         floatPtr(100),
	}

	return Descriptor{
		ID:          BacklightID,
		DisplayName: "Keyboard Backlight",
		Version:     "1.0.0",
		Description: "Keyboard backlight brightness via the command bus",
		Actions: []Action{
			{
				ID:          "set",
				DisplayName: "Set Brightness",
				Description: "Set the backlight to a fixed level",
				Params:      []ParamSpec{level},
			},
			{
				ID:          "fade",
				DisplayName: "Fade To",
				Description: "Fade the backlight to a level over a duration",
				Params: []ParamSpec{
					level,
					{
						ID:          "duration_ms",
						DisplayName: "Duration (ms)",
						Type:        TypeInteger,
						Default:     valuePtr(Int(defaultFadeMS)),
						Min:         floatPtr(minFadeMS),
						Max:         floatPtr(maxFadeMS),
					},
				},
			},
			{
				ID:          "off",
				DisplayName: "Off",
				Description: "Turn the backlight off",
			},
		},
	}
}

// Execute implements Capability. Parameters are validated against the
// action's specs before the command leaves the process.
func (b *Backlight) Execute(_ context.Context, actionID string, params Params) error {
	action, ok := b.Descriptor().FindAction(actionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, actionID)
	}

	resolved, err := ValidateParams(action, params)
	if err != nil {
		return err
	}

	return publishCommand(b.bus, BacklightID, actionID, resolved)
}

// Compatibility implements Capability.
func (b *Backlight) Compatibility() Compatibility {
	return busCompatibility(b.bus)
}

// Cleanup implements Capability. The bus is shared and owned elsewhere.
func (b *Backlight) Cleanup() {}

func floatPtr(f float64) *float64 { return &f }
func valuePtr(v Value) *Value     { return &v }
