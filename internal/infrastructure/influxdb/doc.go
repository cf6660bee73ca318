// Package influxdb provides time-series recording for Sundial Core.
//
// Every automation fire and scheduler evaluation pass can be recorded as a
// point, giving long-horizon visibility that the relational execution log
// is not suited for (per-rule fire rates, failure trends, tick timing).
//
// Writes are non-blocking: points are batched by the underlying client and
// flushed on an interval, with async errors surfaced through SetOnError.
// The integration is optional; when disabled in config the daemon simply
// does not construct a client.
package influxdb
