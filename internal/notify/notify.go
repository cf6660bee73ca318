package notify

import (
	"encoding/json"
	"time"

	"github.com/sundiald/sundial/internal/infrastructure/mqtt"
)

// Notifier delivers user-facing messages about automation outcomes.
// Delivery is best-effort and fire-and-forget: implementations swallow
// their own failures, since a notification about a failure failing has
// nowhere useful to go.
type Notifier interface {
	// SendSuccess reports a successful automation fire.
	SendSuccess(ruleName, message string)

	// SendError reports a failed automation fire.
	SendError(ruleName, message string)
}

// Publisher is the bus interface the MQTT notifier publishes through.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// Logger is the logging interface used by notifier implementations.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MQTTNotifier publishes notifications to sundial/notify/{severity} for
// desktop widgets or bridges to surface.
type MQTTNotifier struct {
	bus    Publisher
	logger Logger
}

// NewMQTT creates a bus-backed notifier.
func NewMQTT(bus Publisher, logger Logger) *MQTTNotifier {
	return &MQTTNotifier{bus: bus, logger: logger}
}

// SendSuccess implements Notifier.
func (n *MQTTNotifier) SendSuccess(ruleName, message string) {
	n.publish("info", ruleName, message)
}

// SendError implements Notifier.
func (n *MQTTNotifier) SendError(ruleName, message string) {
	n.publish("error", ruleName, message)
}

func (n *MQTTNotifier) publish(severity, ruleName, message string) {
	if n.bus == nil || !n.bus.IsConnected() {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"severity":  severity,
		"rule":      ruleName,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	if err := n.bus.Publish(mqtt.NotifyTopic(severity), payload, 0, false); err != nil {
		if n.logger != nil {
			n.logger.Warn("notification publish failed", "severity", severity, "error", err)
		}
	}
}

// LogNotifier writes notifications to the structured log. The fallback
// when no broker is configured.
type LogNotifier struct {
	logger Logger
}

// NewLog creates a log-backed notifier.
func NewLog(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendSuccess implements Notifier.
func (n *LogNotifier) SendSuccess(ruleName, message string) {
	n.logger.Info("automation succeeded", "rule", ruleName, "detail", message)
}

// SendError implements Notifier.
func (n *LogNotifier) SendError(ruleName, message string) {
	n.logger.Error("automation failed", "rule", ruleName, "detail", message)
}
