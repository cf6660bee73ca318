package trigger

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind discriminates the trigger tagged union.
type Kind string

const (
	// KindTimeOfDay fires at a fixed wall-clock time on selected weekdays.
	KindTimeOfDay Kind = "time_of_day"

	// KindSolar fires at sunrise or sunset with an optional minute offset.
	KindSolar Kind = "solar"

	// KindInterval fires on a fixed period, starting immediately.
	KindInterval Kind = "interval"
)

// SolarEvent selects which solar instant a solar trigger tracks.
type SolarEvent string

const (
	EventSunrise SolarEvent = "sunrise"
	EventSunset  SolarEvent = "sunset"
)

// Trigger is the condition determining when an automation rule fires.
// Exactly one variant is active, selected by Kind; the remaining fields
// are meaningful only for their variant.
type Trigger struct {
	Kind Kind `json:"kind"`

	// TimeOfDay variant. An empty DaysOfWeek set means every day.
	Hour       int            `json:"hour,omitempty"`
	Minute     int            `json:"minute,omitempty"`
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"`

	// Solar variant.
	Event         SolarEvent `json:"event,omitempty"`
	OffsetMinutes int        `json:"offset_minutes,omitempty"`

	// Interval variant.
	PeriodMS int64 `json:"period_ms,omitempty"`
}

// NewTimeOfDay creates a time-of-day trigger. Hour and minute are clamped
// into valid range; an empty days set means every day.
func NewTimeOfDay(hour, minute int, days []time.Weekday) Trigger {
	return Trigger{
		Kind:       KindTimeOfDay,
		Hour:       clamp(hour, 0, 23),
		Minute:     clamp(minute, 0, 59),
		DaysOfWeek: normaliseDays(days),
	}
}

// NewSolar creates a solar-event trigger. offsetMinutes shifts the base
// event (negative = before).
func NewSolar(event SolarEvent, offsetMinutes int) Trigger {
	return Trigger{
		Kind:          KindSolar,
		Event:         event,
		OffsetMinutes: offsetMinutes,
	}
}

// NewInterval creates an interval trigger with the given period.
func NewInterval(period time.Duration) Trigger {
	return Trigger{
		Kind:     KindInterval,
		PeriodMS: period.Milliseconds(),
	}
}

// Period returns the interval variant's period as a Duration.
func (t Trigger) Period() time.Duration {
	return time.Duration(t.PeriodMS) * time.Millisecond
}

// Validate checks that the trigger is internally consistent.
func (t Trigger) Validate() error {
	switch t.Kind {
	case KindTimeOfDay:
		if t.Hour < 0 || t.Hour > 23 {
			return fmt.Errorf("%w: hour must be 0-23", ErrInvalidTrigger)
		}
		if t.Minute < 0 || t.Minute > 59 {
			return fmt.Errorf("%w: minute must be 0-59", ErrInvalidTrigger)
		}
		for _, d := range t.DaysOfWeek {
			if d < time.Sunday || d > time.Saturday {
				return fmt.Errorf("%w: invalid weekday %d", ErrInvalidTrigger, d)
			}
		}
		return nil
	case KindSolar:
		if t.Event != EventSunrise && t.Event != EventSunset {
			return fmt.Errorf("%w: event must be sunrise or sunset", ErrInvalidTrigger)
		}
		return nil
	case KindInterval:
		if t.PeriodMS <= 0 {
			return fmt.Errorf("%w: period must be positive", ErrInvalidTrigger)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTrigger, t.Kind)
	}
}

// Describe returns a short human-readable description for debug listings.
func (t Trigger) Describe() string {
	switch t.Kind {
	case KindTimeOfDay:
		when := fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
		if len(t.DaysOfWeek) == 0 {
			return "daily at " + when
		}
		names := make([]string, len(t.DaysOfWeek))
		for i, d := range t.DaysOfWeek {
			names[i] = d.String()[:3]
		}
		return "at " + when + " on " + strings.Join(names, ",")
	case KindSolar:
		desc := string(t.Event)
		switch {
		case t.OffsetMinutes > 0:
			desc += fmt.Sprintf(" +%dm", t.OffsetMinutes)
		case t.OffsetMinutes < 0:
			desc += fmt.Sprintf(" %dm", t.OffsetMinutes)
		}
		return desc
	case KindInterval:
		return "every " + t.Period().String()
	default:
		return "unknown"
	}
}

// matchesDay reports whether the weekday is selected by the time-of-day
// variant. An empty set means every day, never no days.
func (t Trigger) matchesDay(day time.Weekday) bool {
	if len(t.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range t.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// normaliseDays sorts and deduplicates a weekday set.
func normaliseDays(days []time.Weekday) []time.Weekday {
	if len(days) == 0 {
		return nil
	}
	seen := make(map[time.Weekday]bool, len(days))
	var out []time.Weekday
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
