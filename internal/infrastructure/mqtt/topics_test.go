package mqtt

import "testing"

func TestTopics(t *testing.T) {
	if got := CommandTopic("keyboard-backlight"); got != "sundial/command/keyboard-backlight" {
		t.Errorf("CommandTopic = %q", got)
	}
	if got := NotifyTopic("error"); got != "sundial/notify/error" {
		t.Errorf("NotifyTopic = %q", got)
	}
	if TopicSystemStatus != "sundial/system/status" {
		t.Errorf("TopicSystemStatus = %q", TopicSystemStatus)
	}
}
