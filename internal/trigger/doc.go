// Package trigger defines the trigger tagged union and the pure firing
// decision logic for Sundial Core.
//
// Three structurally different trigger kinds exist:
//
//   - TimeOfDay: fires when the wall clock reaches an exact hour:minute on
//     selected weekdays, at most once per minute per calendar day.
//   - Solar: fires within a two-second window past a precomputed sunrise or
//     sunset target, with a duplicate-fire guard around the same target.
//   - Interval: fires immediately on first evaluation, then once per
//     elapsed period.
//
// ShouldFire is pure with respect to the task's bookkeeping: it only reads
// LastFire/NextFire, and the scheduling layer applies mutations after a
// true result. This keeps the decision logic trivially testable with
// synthetic clocks.
//
// Known constraint: time-of-day matching compares whole minutes, so the
// evaluation cadence must be shorter than 60 seconds.
package trigger
