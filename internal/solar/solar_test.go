package solar

import (
	"testing"
	"time"
)

// date builds a UTC date at midnight.
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestSunriseBeforeSunset(t *testing.T) {
	d := date(2025, time.June, 21)

	sunrise, ok := Sunrise(d, 51.5, -0.1)
	if !ok {
		t.Fatal("expected sunrise at London latitude")
	}
	sunset, ok := Sunset(d, 51.5, -0.1)
	if !ok {
		t.Fatal("expected sunset at London latitude")
	}

	if !sunrise.Before(sunset) {
		t.Errorf("sunrise %v not before sunset %v", sunrise, sunset)
	}
}

func TestEquatorDaylightRoughlyTwelveHours(t *testing.T) {
	// At the equator day length stays close to 12 hours year round.
	for _, d := range []time.Time{
		date(2025, time.March, 20),
		date(2025, time.June, 21),
		date(2025, time.December, 21),
	} {
		sunrise, ok := Sunrise(d, 0, 0)
		if !ok {
			t.Fatalf("expected sunrise at equator on %v", d)
		}
		sunset, ok := Sunset(d, 0, 0)
		if !ok {
			t.Fatalf("expected sunset at equator on %v", d)
		}

		daylight := sunset.Sub(sunrise)
		if daylight < 11*time.Hour || daylight > 13*time.Hour {
			t.Errorf("equator daylight on %v = %v, want roughly 12h", d, daylight)
		}
	}
}

func TestPolarNightHasNoSunrise(t *testing.T) {
	// Svalbard in midwinter: the sun never rises.
	d := date(2025, time.December, 21)

	if _, ok := Sunrise(d, 78.2, 15.6); ok {
		t.Error("expected no sunrise during polar night")
	}
	if _, ok := Sunset(d, 78.2, 15.6); ok {
		t.Error("expected no sunset during polar night")
	}
}

func TestPolarDayHasNoSunset(t *testing.T) {
	// Svalbard in midsummer: the sun never sets.
	d := date(2025, time.June, 21)

	if _, ok := Sunrise(d, 78.2, 15.6); ok {
		t.Error("expected no sunrise during polar day")
	}
	if _, ok := Sunset(d, 78.2, 15.6); ok {
		t.Error("expected no sunset during polar day")
	}
}

func TestSunriseOffsetShiftsResult(t *testing.T) {
	d := date(2025, time.June, 21)

	base, ok := Sunrise(d, 51.5, -0.1)
	if !ok {
		t.Fatal("expected sunrise")
	}
	shifted, ok := SunriseOffset(d, 51.5, -0.1, -30)
	if !ok {
		t.Fatal("expected offset sunrise")
	}

	if got := base.Sub(shifted); got != 30*time.Minute {
		t.Errorf("offset -30m shifted by %v, want 30m earlier", got)
	}
}

func TestSunsetOffsetShiftsResult(t *testing.T) {
	d := date(2025, time.June, 21)

	base, ok := Sunset(d, 51.5, -0.1)
	if !ok {
		t.Fatal("expected sunset")
	}
	shifted, ok := SunsetOffset(d, 51.5, -0.1, 45)
	if !ok {
		t.Fatal("expected offset sunset")
	}

	if got := shifted.Sub(base); got != 45*time.Minute {
		t.Errorf("offset +45m shifted by %v, want 45m later", got)
	}
}

func TestEventPreservesDateAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	d := time.Date(2025, time.April, 10, 0, 0, 0, 0, loc)

	sunrise, ok := Sunrise(d, 48.2, 16.4)
	if !ok {
		t.Fatal("expected sunrise")
	}

	if sunrise.Location() != loc {
		t.Errorf("sunrise zone = %v, want %v", sunrise.Location(), loc)
	}
	y, m, day := sunrise.Date()
	if y != 2025 || m != time.April || day != 10 {
		t.Errorf("sunrise date = %d-%v-%d, want 2025-April-10", y, m, day)
	}
}
