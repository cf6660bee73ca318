package trigger

import (
	"time"

	"github.com/sundiald/sundial/internal/solar"
)

const (
	// solarFireWindow is the forward-looking window past a solar target in
	// which the trigger fires. Evaluation runs once per second, so a fire
	// instant is observed at most this long after the target.
	solarFireWindow = 2 * time.Second

	// solarDuplicateGuard suppresses a second fire when the last fire sits
	// within this distance of the same solar target.
	solarDuplicateGuard = time.Minute
)

// Bookkeeping is the per-task mutable state read by ShouldFire. The
// evaluator never mutates it; the caller applies updates after a true
// result.
type Bookkeeping struct {
	// LastFire is the instant of the most recent fire, nil before the first.
	LastFire *time.Time

	// NextFire is the precomputed absolute target instant. Populated only
	// for solar triggers; nil when no location is configured or no event
	// exists for the date.
	NextFire *time.Time
}

// ShouldFire decides whether a trigger's condition holds at now, given the
// task's bookkeeping. It is a pure function of its arguments.
//
// Time-of-day triggers compare whole minutes, so the caller's evaluation
// cadence must stay below 60 seconds or fires can be skipped.
func ShouldFire(t Trigger, book Bookkeeping, now time.Time) bool {
	switch t.Kind {
	case KindTimeOfDay:
		return shouldFireTimeOfDay(t, book, now)
	case KindSolar:
		return shouldFireSolar(book, now)
	case KindInterval:
		return shouldFireInterval(t, book, now)
	default:
		return false
	}
}

// shouldFireTimeOfDay fires when now's hour and minute match exactly, the
// weekday is selected, and the task has not already fired within the same
// minute of the same calendar day.
func shouldFireTimeOfDay(t Trigger, book Bookkeeping, now time.Time) bool {
	if now.Hour() != t.Hour || now.Minute() != t.Minute {
		return false
	}
	if !t.matchesDay(now.Weekday()) {
		return false
	}

	if last := book.LastFire; last != nil {
		sameDay := last.Year() == now.Year() && last.YearDay() == now.YearDay()
		if sameDay && last.Hour() == t.Hour && last.Minute() == t.Minute {
			return false
		}
	}
	return true
}

// shouldFireSolar fires when now sits within [target, target+2s) and the
// last fire is not already within a minute of the same target. A nil
// target (no location configured, or polar day/night) never fires.
func shouldFireSolar(book Bookkeeping, now time.Time) bool {
	target := book.NextFire
	if target == nil {
		return false
	}
	if now.Before(*target) || now.Sub(*target) >= solarFireWindow {
		return false
	}

	if last := book.LastFire; last != nil {
		delta := last.Sub(*target)
		if delta < 0 {
			delta = -delta
		}
		if delta < solarDuplicateGuard {
			return false
		}
	}
	return true
}

// shouldFireInterval fires immediately on first evaluation, then whenever
// a full period has elapsed since the last fire. Only one fire occurs per
// evaluation no matter how many periods were missed.
func shouldFireInterval(t Trigger, book Bookkeeping, now time.Time) bool {
	if book.LastFire == nil {
		return true
	}
	return now.Sub(*book.LastFire) >= t.Period()
}

// NextSolarFire computes a solar trigger's next target strictly after now:
// today's event if it has not yet passed, otherwise tomorrow's. Returns nil
// when no event exists for either date (polar day or night).
func NextSolarFire(t Trigger, now time.Time, latitude, longitude float64) *time.Time {
	if t.Kind != KindSolar {
		return nil
	}

	for _, date := range []time.Time{now, now.AddDate(0, 0, 1)} {
		event, ok := solarEventAt(t, date, latitude, longitude)
		if ok && event.After(now) {
			return &event
		}
	}
	return nil
}

// solarEventAt resolves the trigger's event instant for a given date.
func solarEventAt(t Trigger, date time.Time, latitude, longitude float64) (time.Time, bool) {
	switch t.Event {
	case EventSunrise:
		return solar.SunriseOffset(date, latitude, longitude, t.OffsetMinutes)
	case EventSunset:
		return solar.SunsetOffset(date, latitude, longitude, t.OffsetMinutes)
	default:
		return time.Time{}, false
	}
}
