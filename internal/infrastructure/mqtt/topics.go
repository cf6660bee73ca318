package mqtt

import "fmt"

// Sundial topic hierarchy. The daemon publishes commands, notifications,
// and its retained status; hardware bridges own the rest of the namespace.
//
//	sundial/command/{capability}   commands to hardware bridges
//	sundial/notify/{severity}      user-facing notifications
//	sundial/system/status          daemon online/offline status (retained)
const (
	// TopicPrefix is the root of the Sundial namespace.
	TopicPrefix = "sundial"

	// TopicSystemStatus carries the daemon's retained online/offline status
	// and its Last Will.
	TopicSystemStatus = TopicPrefix + "/system/status"
)

// CommandTopic returns the command topic for a capability.
//
// Example: sundial/command/keyboard-backlight
func CommandTopic(capabilityID string) string {
	return fmt.Sprintf("%s/command/%s", TopicPrefix, capabilityID)
}

// NotifyTopic returns the notification topic for a severity.
//
// Example: sundial/notify/error
func NotifyTopic(severity string) string {
	return fmt.Sprintf("%s/notify/%s", TopicPrefix, severity)
}
