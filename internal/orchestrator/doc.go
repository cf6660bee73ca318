// Package orchestrator owns the automation lifecycle.
//
// Start walks stopped → starting → running: capabilities are discovered,
// the persisted location and enabled rules load into the schedule, and the
// evaluation loop begins. Stop walks running → stopping → stopped in the
// reverse order, draining in-flight executions before capabilities unload.
// Both are idempotent against their terminal states.
//
// The orchestrator is also the schedule's Dispatcher: when a trigger fires,
// it invokes the rule's capability action, logs the outcome to SQLite and
// the optional time-series sink, notifies, and broadcasts an event. Fires
// are isolated; one failing rule never affects another.
package orchestrator
