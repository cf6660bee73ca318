package solar

import (
	"math"
	"time"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	// maxAxialTilt is the Earth's axial tilt used by the declination
	// approximation, in degrees.
	maxAxialTilt = 23.44

	// degreesPerHour is the Earth's rotation rate.
	degreesPerHour = 15.0

	daysPerYear    = 365.0
	solsticeOffset = 10 // days from Jan 1 to the (approximate) December solstice
	solarNoonHour  = 12.0
	secondsPerHour = 3600.0
)

// Sunrise returns the sunrise instant for the given date at the given
// coordinates. The result is anchored to the date's time zone.
//
// ok is false during polar day or polar night, when no sunrise exists for
// that date and latitude.
func Sunrise(date time.Time, latitude, longitude float64) (t time.Time, ok bool) {
	return eventTime(date, latitude, longitude, true)
}

// Sunset returns the sunset instant for the given date at the given
// coordinates. ok is false during polar day or polar night.
func Sunset(date time.Time, latitude, longitude float64) (t time.Time, ok bool) {
	return eventTime(date, latitude, longitude, false)
}

// SunriseOffset returns sunrise shifted by the given number of minutes
// (negative = before sunrise).
func SunriseOffset(date time.Time, latitude, longitude float64, offsetMinutes int) (t time.Time, ok bool) {
	base, ok := Sunrise(date, latitude, longitude)
	if !ok {
		return time.Time{}, false
	}
	return base.Add(time.Duration(offsetMinutes) * time.Minute), true
}

// SunsetOffset returns sunset shifted by the given number of minutes.
func SunsetOffset(date time.Time, latitude, longitude float64, offsetMinutes int) (t time.Time, ok bool) {
	base, ok := Sunset(date, latitude, longitude)
	if !ok {
		return time.Time{}, false
	}
	return base.Add(time.Duration(offsetMinutes) * time.Minute), true
}

// eventTime computes a sunrise or sunset instant using the declination
// cosine approximation:
//
//	declination = -23.44° · cos(2π/365 · (dayOfYear + 10))
//	cos(hourAngle) = -tan(latitude) · tan(declination)
//	solarNoon = 12h − longitude/15° + timezoneOffset
//	sunrise = solarNoon − hourAngle/15°
//	sunset  = solarNoon + hourAngle/15°
//
// Accuracy is on the order of minutes; this is not a precision ephemeris.
func eventTime(date time.Time, latitude, longitude float64, sunrise bool) (time.Time, bool) {
	hourAngle, ok := hourAngleDegrees(date.YearDay(), latitude)
	if !ok {
		return time.Time{}, false
	}

	// Midnight in the date's zone anchors the fractional-hour result.
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	_, tzOffsetSeconds := midnight.Zone()
	tzOffsetHours := float64(tzOffsetSeconds) / secondsPerHour

	noon := solarNoonHour - longitude/degreesPerHour + tzOffsetHours

	var eventHour float64
	if sunrise {
		eventHour = noon - hourAngle/degreesPerHour
	} else {
		eventHour = noon + hourAngle/degreesPerHour
	}

	return midnight.Add(time.Duration(eventHour * float64(time.Hour))), true
}

// hourAngleDegrees computes the sunrise/sunset hour angle for a day of year
// and latitude. ok is false when the sun never crosses the horizon (polar
// day or night).
func hourAngleDegrees(dayOfYear int, latitude float64) (angle float64, ok bool) {
	declination := -maxAxialTilt * math.Cos(2*math.Pi/daysPerYear*float64(dayOfYear+solsticeOffset))

	cosHourAngle := -math.Tan(latitude*degToRad) * math.Tan(declination*degToRad)
	if cosHourAngle < -1 || cosHourAngle > 1 {
		return 0, false
	}

	return math.Acos(cosHourAngle) * radToDeg, true
}
