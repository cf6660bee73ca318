// Package solar computes sunrise and sunset instants from a date and
// geographic coordinates.
//
// The model is a simplified declination/hour-angle approximation: solar
// declination from a single cosine term, the hour angle from
// acos(-tan(lat)·tan(decl)), and solar noon adjusted for longitude and the
// date's timezone offset. Expected error is a few minutes, which is
// adequate for automation triggers evaluated once per second; it is not a
// precision ephemeris.
//
// Beyond the polar circles there are dates with no sunrise or sunset; all
// functions report that case through their ok result rather than an error.
package solar
