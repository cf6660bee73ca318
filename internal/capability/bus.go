package capability

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/sundiald/sundial/internal/infrastructure/mqtt"
)

// busCommandQoS is at-least-once: a lost hardware command is a missed
// automation, a duplicate set is idempotent.
const busCommandQoS = 1

// publishCommand serialises an action invocation onto the command bus for
// an external hardware bridge to execute.
func publishCommand(bus CommandPublisher, capabilityID, actionID string, params Params) error {
	if bus == nil {
		return ErrBusUnavailable
	}

	payload, err := json.Marshal(map[string]any{
		"id":         uuid.New().String(),
		"capability": capabilityID,
		"action":     actionID,
		"parameters": params.Interface(),
	})
	if err != nil {
		return fmt.Errorf("marshalling command: %w", err)
	}

	topic := mqtt.CommandTopic(capabilityID)
	if err := bus.Publish(topic, payload, busCommandQoS, false); err != nil {
		return fmt.Errorf("publishing to %q: %w", topic, err)
	}
	return nil
}

// busCompatibility is the shared compatibility check for bus-backed
// capabilities: no bus is a hard requirement failure, a disconnected bus
// is only a warning since the client reconnects on its own.
func busCompatibility(bus CommandPublisher) Compatibility {
	if bus == nil {
		return Compatibility{
			Compatible: false,
			Missing:    []string{"mqtt command bus"},
		}
	}
	if !bus.IsConnected() {
		return Compatibility{
			Compatible: true,
			Warnings:   []string{"command bus not connected; commands fail until the broker is reachable"},
		}
	}
	return Compatibility{Compatible: true}
}
