// Package astro provides coordinate transformations for the sun's
// position in the local sky.
package astro

import (
	"math"
	"time"
)

// Horizontal is an observer-relative position.
type Horizontal struct {
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation in degrees (0=horizon, 90=zenith)
}

// SunHorizontal returns the sun's azimuth and elevation for an observer at
// instant t. Refraction is ignored.
func SunHorizontal(obs Coordinates, t time.Time) Horizontal {
	sc := NewSolarCoordinates(julianDayOf(t))
	return EquatorialToHorizontal(sc.RightAscension, sc.Declination, sc.ApparentSiderealTime, obs)
}

// EquatorialToHorizontal converts right ascension and declination into
// azimuth and elevation, given the Greenwich sidereal time theta0.
//
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(ra, dec, theta0 Angle, obs Coordinates) Horizontal {
	// Local hour angle = local sidereal time - RA
	ha := (theta0 + obs.LongitudeAngle() - ra).Unwound()

	alt := AltitudeOfCelestialBody(obs.LatitudeAngle(), dec, ha)

	lat := obs.LatitudeAngle().Radians()
	altRad := alt.Radians()
	cosAz := (math.Sin(dec.Radians()) - math.Sin(altRad)*math.Sin(lat)) / (math.Cos(altRad) * math.Cos(lat))
	// Clamp cosAz to [-1, 1] to handle floating point errors
	if cosAz > 1 {
		cosAz = 1
	} else if cosAz < -1 {
		cosAz = -1
	}

	az := math.Acos(cosAz)

	// West of the meridian once the hour angle is positive
	if math.Sin(ha.Radians()) > 0 {
		az = 2*math.Pi - az
	}

	return Horizontal{
		AzDeg: radToDeg(az),
		ElDeg: float64(alt),
	}
}
