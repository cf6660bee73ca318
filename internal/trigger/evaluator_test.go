package trigger

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestShouldFireTimeOfDay(t *testing.T) {
	trig := NewTimeOfDay(12, 0, nil)
	// 2025-06-02 is a Monday.
	match := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		book Bookkeeping
		now  time.Time
		want bool
	}{
		{"fires at exact match", Bookkeeping{}, match, true},
		{"fires later in the same minute", Bookkeeping{}, match.Add(30 * time.Second), true},
		{"wrong minute", Bookkeeping{}, match.Add(time.Minute), false},
		{"wrong hour", Bookkeeping{}, match.Add(time.Hour), false},
		{
			"suppressed after firing in the same minute",
			Bookkeeping{LastFire: timePtr(match)},
			match.Add(5 * time.Second),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldFire(trig, tt.book, tt.now); got != tt.want {
				t.Errorf("ShouldFire() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeOfDayFiresAgainNextDay(t *testing.T) {
	trig := NewTimeOfDay(12, 0, nil)
	monday := time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	book := Bookkeeping{LastFire: timePtr(monday)}
	if !ShouldFire(trig, book, tuesday) {
		t.Error("expected fire on the following day despite identical wall time")
	}
}

func TestTimeOfDayWeekdayFilter(t *testing.T) {
	trig := NewTimeOfDay(8, 30, []time.Weekday{time.Monday, time.Wednesday})

	monday := time.Date(2025, time.June, 2, 8, 30, 0, 0, time.UTC)
	if !ShouldFire(trig, Bookkeeping{}, monday) {
		t.Error("expected fire on a selected weekday")
	}

	tuesday := monday.AddDate(0, 0, 1)
	if ShouldFire(trig, Bookkeeping{}, tuesday) {
		t.Error("expected no fire on an unselected weekday")
	}
}

func TestShouldFireSolar(t *testing.T) {
	target := time.Date(2025, time.June, 2, 5, 12, 41, 0, time.UTC)

	tests := []struct {
		name string
		book Bookkeeping
		now  time.Time
		want bool
	}{
		{"nil target never fires", Bookkeeping{}, target, false},
		{"before target", Bookkeeping{NextFire: timePtr(target)}, target.Add(-time.Second), false},
		{"at target", Bookkeeping{NextFire: timePtr(target)}, target, true},
		{"inside window", Bookkeeping{NextFire: timePtr(target)}, target.Add(1900 * time.Millisecond), true},
		{"window boundary excluded", Bookkeeping{NextFire: timePtr(target)}, target.Add(2 * time.Second), false},
		{
			"duplicate guard suppresses refire",
			Bookkeeping{NextFire: timePtr(target), LastFire: timePtr(target.Add(time.Second))},
			target.Add(1500 * time.Millisecond),
			false,
		},
		{
			"old fire does not suppress a new target",
			Bookkeeping{NextFire: timePtr(target), LastFire: timePtr(target.Add(-24 * time.Hour))},
			target.Add(time.Second),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldFire(Trigger{Kind: KindSolar, Event: EventSunrise}, tt.book, tt.now)
			if got != tt.want {
				t.Errorf("ShouldFire() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldFireInterval(t *testing.T) {
	trig := NewInterval(100 * time.Millisecond)
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)

	if !ShouldFire(trig, Bookkeeping{}, start) {
		t.Error("expected immediate fire on first evaluation")
	}

	book := Bookkeeping{LastFire: timePtr(start)}
	if ShouldFire(trig, book, start.Add(50*time.Millisecond)) {
		t.Error("expected no fire before the period elapses")
	}
	if !ShouldFire(trig, book, start.Add(100*time.Millisecond)) {
		t.Error("expected fire once the period has elapsed")
	}
	// Missed periods collapse into a single fire decision.
	if !ShouldFire(trig, book, start.Add(time.Hour)) {
		t.Error("expected fire after many missed periods")
	}
}

func TestNextSolarFire(t *testing.T) {
	// London, midsummer, just after midnight: today's sunrise is ahead.
	now := time.Date(2025, time.June, 21, 0, 30, 0, 0, time.UTC)
	trig := NewSolar(EventSunrise, 0)

	next := NextSolarFire(trig, now, 51.5, -0.1)
	if next == nil {
		t.Fatal("expected a solar target at London latitude")
	}
	if !next.After(now) {
		t.Errorf("target %v not after now %v", next, now)
	}
	if next.YearDay() != now.YearDay() {
		t.Errorf("expected today's sunrise, got %v", next)
	}
}

func TestNextSolarFireRollsToTomorrow(t *testing.T) {
	// Late evening: sunrise already passed, so the target is tomorrow's.
	now := time.Date(2025, time.June, 21, 23, 0, 0, 0, time.UTC)
	trig := NewSolar(EventSunrise, 0)

	next := NextSolarFire(trig, now, 51.5, -0.1)
	if next == nil {
		t.Fatal("expected a solar target")
	}
	if !next.After(now) {
		t.Errorf("target %v not after now %v", next, now)
	}
	if next.Day() == now.Day() {
		t.Errorf("expected tomorrow's sunrise, got %v", next)
	}
}

func TestNextSolarFirePolarNight(t *testing.T) {
	now := time.Date(2025, time.December, 21, 12, 0, 0, 0, time.UTC)
	trig := NewSolar(EventSunrise, 0)

	if next := NextSolarFire(trig, now, 78.2, 15.6); next != nil {
		t.Errorf("expected nil target during polar night, got %v", next)
	}
}

func TestNextSolarFireNonSolarKind(t *testing.T) {
	now := time.Date(2025, time.June, 21, 12, 0, 0, 0, time.UTC)

	if next := NextSolarFire(NewInterval(time.Second), now, 51.5, -0.1); next != nil {
		t.Errorf("expected nil for non-solar trigger, got %v", next)
	}
}
