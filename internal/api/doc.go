// Package api provides the management HTTP API and WebSocket event stream
// for Sundial Core.
//
// It exposes rule CRUD with immediate schedule reconciliation, manual rule
// execution, capability descriptor listings, site location settings, and a
// schedule debug snapshot. The WebSocket hub pushes rule.fired/rule.failed
// events to subscribed clients.
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
