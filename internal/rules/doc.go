// Package rules defines automation rules and their persistence.
//
// An AutomationRule binds one trigger (time of day, solar event, or fixed
// interval) to one capability action with stored parameters. Rules live in
// SQLite alongside the single-row site settings that hold the coordinates
// solar triggers need, plus a bounded execution log of recent fires.
//
// The Repository interface abstracts persistence; SQLiteRepository is the
// production implementation. Trigger and parameter columns are JSON blobs,
// timestamps are RFC3339 strings.
package rules
