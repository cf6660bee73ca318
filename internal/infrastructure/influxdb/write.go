package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteRuleFire records one automation rule execution.
//
// The write is non-blocking; points are batched and sent asynchronously.
// source is "scheduled" or "manual"; status is "ok" or "failed".
func (c *Client) WriteRuleFire(ruleID, capabilityID, actionID, source, status string, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"rule_fires",
		map[string]string{
			"rule_id":    ruleID,
			"capability": capabilityID,
			"action":     actionID,
			"source":     source,
			"status":     status,
		},
		map[string]interface{}{
			"duration_ms": duration.Milliseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSchedulerStats records one evaluation pass of the scheduler loop:
// how many triggers were examined and how many fired.
func (c *Client) WriteSchedulerStats(evaluated, fired int, elapsed time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"scheduler_ticks",
		nil,
		map[string]interface{}{
			"evaluated":  evaluated,
			"fired":      fired,
			"elapsed_us": elapsed.Microseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
// Keep tag cardinality low; fields carry the data.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
