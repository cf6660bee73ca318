package mqtt

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sundiald/sundial/internal/infrastructure/config"
)

// testConfig returns a broker config pointing at nothing in particular;
// these tests never open a network connection.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "localhost",
			Port:     1883,
			ClientID: "sundial-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{}

	if err := c.Publish("", []byte("x"), 0, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("sundial/command/display", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3 error = %v, want ErrInvalidQoS", err)
	}

	big := bytes.Repeat([]byte("a"), maxPayloadSize+1)
	if err := c.Publish("sundial/command/display", big, 0, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("oversized payload error = %v, want ErrPublishFailed", err)
	}

	if err := c.Publish("sundial/command/display", []byte("x"), 0, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected publish error = %v, want ErrNotConnected", err)
	}
	if err := c.PublishString("sundial/command/display", "x", 0, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected PublishString error = %v, want ErrNotConnected", err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	handler := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 0, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("sundial/#", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3 error = %v, want ErrInvalidQoS", err)
	}
	if err := c.Subscribe("sundial/#", 0, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler error = %v, want ErrSubscribeFailed", err)
	}
	if err := c.Subscribe("sundial/#", 0, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected subscribe error = %v, want ErrNotConnected", err)
	}
	if c.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount = %d, want 0 after failed subscribes", c.SubscriptionCount())
	}

	if err := c.Unsubscribe("sundial/#"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected unsubscribe error = %v, want ErrNotConnected", err)
	}
}

func TestCloseWithoutConnect(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close on unconnected client: %v", err)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.MQTTAuthConfig{Username: "user", Password: "pass"}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://localhost:1883" {
		t.Errorf("servers = %v", opts.Servers)
	}
	if opts.ClientID != "sundial-test" {
		t.Errorf("client id = %q", opts.ClientID)
	}
	if opts.Username != "user" || opts.Password != "pass" {
		t.Errorf("credentials not applied")
	}
	if !opts.CleanSession || !opts.AutoReconnect {
		t.Error("expected clean session with auto-reconnect")
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || !strings.HasPrefix(opts.Servers[0].String(), "ssl://") {
		t.Errorf("servers = %v, want ssl scheme", opts.Servers)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion < tlsMinVersion {
		t.Error("TLS config missing or below minimum version")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, "sundial-test")

	if !opts.WillEnabled {
		t.Fatal("will not enabled")
	}
	if opts.WillTopic != TopicSystemStatus {
		t.Errorf("will topic = %q, want %q", opts.WillTopic, TopicSystemStatus)
	}
	if !opts.WillRetained {
		t.Error("will must be retained")
	}

	var status map[string]string
	if err := json.Unmarshal(opts.WillPayload, &status); err != nil {
		t.Fatalf("will payload not JSON: %v", err)
	}
	if status["status"] != "offline" || status["reason"] != "unexpected_disconnect" {
		t.Errorf("will payload = %v", status)
	}
}

func TestBuildStatusPayload(t *testing.T) {
	var online map[string]string
	if err := json.Unmarshal(buildStatusPayload("sundial-test", "online", ""), &online); err != nil {
		t.Fatalf("online payload not JSON: %v", err)
	}
	if online["status"] != "online" || online["client_id"] != "sundial-test" {
		t.Errorf("online payload = %v", online)
	}
	if _, present := online["reason"]; present {
		t.Error("empty reason must be omitted")
	}
	if online["timestamp"] == "" {
		t.Error("timestamp missing")
	}

	var offline map[string]string
	if err := json.Unmarshal(buildStatusPayload("sundial-test", "offline", "graceful_shutdown"), &offline); err != nil {
		t.Fatalf("offline payload not JSON: %v", err)
	}
	if offline["reason"] != "graceful_shutdown" {
		t.Errorf("offline payload = %v", offline)
	}
}
