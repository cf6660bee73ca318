// Package mqtt provides the command-bus connection for Sundial Core.
//
// The bus decouples the daemon from hardware: capability commands publish
// to sundial/command/{capability} and an external bridge applies them to
// the keyboard backlight, monitor, or whatever else it fronts. The same
// connection carries outbound notifications and daemon events.
//
// This package manages:
//   - Connection to the broker with auto-reconnect and backoff
//   - Publishing with QoS guarantees and payload size limits
//   - Subscriptions with wildcard support, restored on reconnect
//   - Last Will and Testament on sundial/system/status for crash detection
//
// The broker is optional; on machines without one, the daemon runs with the
// bus disabled and bus-backed capabilities exclude themselves at discovery.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.Publish(mqtt.CommandTopic("display"), payload, 1, false)
package mqtt
