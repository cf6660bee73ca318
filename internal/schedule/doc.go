// Package schedule runs the trigger evaluation loop.
//
// The Registry holds one task per enabled rule: the rule itself plus the
// bookkeeping (last fire, precomputed solar target) its trigger needs. A
// single goroutine evaluates the whole set once per tick against one time
// snapshot, so passes never overlap and every task sees the same instant.
//
// Fires are dispatched on background goroutines and never block the loop;
// Stop waits for the loop and all in-flight dispatches before returning.
// Bookkeeping is applied before dispatch, which makes fires idempotent
// across passes (a minute-long time-of-day match fires once, not sixty
// times).
package schedule
