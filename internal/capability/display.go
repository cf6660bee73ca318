package capability

import (
	"context"
	"fmt"
)

// DisplayID is the static identifier of the display capability.
const DisplayID = "display"

// Display controls monitor brightness and power state through an external
// hardware bridge on the command bus.
type Display struct {
	bus    CommandPublisher
	logger Logger
}

// NewDisplay constructs the display capability.
func NewDisplay(deps Deps) Capability {
	return &Display{
		bus:    deps.Bus,
		logger: deps.Logger,
	}
}

// Descriptor implements Capability.
func (d *Display) Descriptor() Descriptor {
	return Descriptor{
		ID:          DisplayID,
		DisplayName: "Display",
		Version:     "1.0.0",
		Description: "Monitor brightness and power via the command bus",
		Actions: []Action{
			{
				ID:          "set-brightness",
				DisplayName: "Set Brightness",
				Params: []ParamSpec{
					{
						ID:          "level",
						DisplayName: "Level",
						Type:        TypeInteger,
						Required:    true,
						Min:         floatPtr(0),
						Max:         floatPtr(100),
					},
				},
			},
			{
				ID:          "power",
				DisplayName: "Power State",
				Params: []ParamSpec{
					{
						ID:          "state",
						DisplayName: "State",
						Type:        TypeSelection,
						Required:    true,
						Options:     []string{"on", "off", "sleep"},
					},
				},
			},
		},
	}
}

// Execute implements Capability.
func (d *Display) Execute(_ context.Context, actionID string, params Params) error {
	action, ok := d.Descriptor().FindAction(actionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, actionID)
	}

	resolved, err := ValidateParams(action, params)
	if err != nil {
		return err
	}

	return publishCommand(d.bus, DisplayID, actionID, resolved)
}

// Compatibility implements Capability.
func (d *Display) Compatibility() Compatibility {
	return busCompatibility(d.bus)
}

// Cleanup implements Capability.
func (d *Display) Cleanup() {}
