// Package notify delivers best-effort notifications about automation
// outcomes. The MQTT implementation publishes to sundial/notify/{severity};
// the log implementation is the fallback without a broker.
package notify
