// Package astro provides the low-precision Meeus series for the sun: Julian
// dates, longitudes, obliquity, nutation, sidereal time and transit/hour
// angle corrections.
package astro

import (
	"math"
)

// SiderealRate is the earth's rotation relative to the stars, in degrees
// per solar day.
const SiderealRate = 360.985647

// J2000 is the Julian day of the J2000.0 epoch.
const J2000 = 2451545.0

// JulianDay returns the Julian day for a Gregorian calendar date and a
// fractional hour of that day (Meeus p.61).
func JulianDay(year, month, day int, hours float64) float64 {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	a := y / 100
	b := 2 - a + a/4

	i0 := math.Trunc(365.25 * float64(y+4716))
	i1 := math.Trunc(30.6001 * float64(m+1))

	return i0 + i1 + float64(day) + hours/24 + float64(b) - 1524.5
}

// JulianCentury returns Julian centuries from J2000.0.
func JulianCentury(jd float64) float64 {
	return (jd - J2000) / 36525
}

// MeanSolarLongitude is the geometric mean longitude of the sun (Meeus p.163).
func MeanSolarLongitude(T float64) Angle {
	term1 := 280.4664567
	term2 := 36000.76983 * T
	term3 := 0.0003032 * T * T
	return Angle(term1 + term2 + term3).Unwound()
}

// MeanLunarLongitude is the mean longitude of the moon (Meeus p.144).
func MeanLunarLongitude(T float64) Angle {
	return Angle(218.3165 + 481267.8813*T).Unwound()
}

// AscendingLunarNodeLongitude is the longitude of the moon's ascending
// node (Meeus p.144).
func AscendingLunarNodeLongitude(T float64) Angle {
	term1 := 125.04452
	term2 := 1934.136261 * T
	term3 := 0.0020708 * T * T
	term4 := T * T * T / 450000
	return Angle(term1 - term2 + term3 + term4).Unwound()
}

// MeanSolarAnomaly is the mean anomaly of the sun (Meeus p.163).
func MeanSolarAnomaly(T float64) Angle {
	term1 := 357.52911
	term2 := 35999.05029 * T
	term3 := 0.0001537 * T * T
	return Angle(term1 + term2 - term3).Unwound()
}

// SolarEquationOfTheCenter is the sun's equation of the center (Meeus p.164).
func SolarEquationOfTheCenter(T float64, M Angle) Angle {
	mrad := M.Radians()
	term1 := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(mrad)
	term2 := (0.019993 - 0.000101*T) * math.Sin(2*mrad)
	term3 := 0.000289 * math.Sin(3*mrad)
	return Angle(term1 + term2 + term3)
}

// ApparentSolarLongitude is the apparent longitude of the sun, corrected
// for nutation and aberration (Meeus p.164).
func ApparentSolarLongitude(T float64, L0 Angle) Angle {
	longitude := L0 + SolarEquationOfTheCenter(T, MeanSolarAnomaly(T))
	omega := 125.04 - 1934.136*T
	lambda := float64(longitude) - 0.00569 - 0.00478*math.Sin(degToRad(omega))
	return Angle(lambda).Unwound()
}

// MeanObliquityOfTheEcliptic is the mean obliquity of the ecliptic (Meeus p.147).
func MeanObliquityOfTheEcliptic(T float64) Angle {
	term1 := 23.439291
	term2 := 0.013004167 * T
	term3 := 0.0000001639 * T * T
	term4 := 0.0000005036 * T * T * T
	return Angle(term1 - term2 - term3 + term4)
}

// ApparentObliquityOfTheEcliptic is the obliquity corrected for the
// apparent position of the sun (Meeus p.165).
func ApparentObliquityOfTheEcliptic(T float64, eps0 Angle) Angle {
	O := 125.04 - 1934.136*T
	return Angle(float64(eps0) + 0.00256*math.Cos(degToRad(O)))
}

// MeanSiderealTime is the mean sidereal time at Greenwich (Meeus p.88).
func MeanSiderealTime(T float64) Angle {
	jd := J2000 + T*36525
	term1 := 280.46061837
	term2 := 360.98564736629 * (jd - J2000)
	term3 := 0.000387933 * T * T
	term4 := T * T * T / 38710000
	return Angle(term1 + term2 + term3 - term4).Unwound()
}

// NutationInLongitude returns Δψ in degrees (Meeus p.144).
func NutationInLongitude(L0, Lp, omega Angle) float64 {
	term1 := (-17.2 / 3600) * math.Sin(omega.Radians())
	term2 := (1.32 / 3600) * math.Sin(2*L0.Radians())
	term3 := (0.23 / 3600) * math.Sin(2*Lp.Radians())
	term4 := (0.21 / 3600) * math.Sin(2*omega.Radians())
	return term1 - term2 - term3 + term4
}

// NutationInObliquity returns Δε in degrees (Meeus p.144).
func NutationInObliquity(L0, Lp, omega Angle) float64 {
	term1 := (9.2 / 3600) * math.Cos(omega.Radians())
	term2 := (0.57 / 3600) * math.Cos(2*L0.Radians())
	term3 := (0.10 / 3600) * math.Cos(2*Lp.Radians())
	term4 := (0.09 / 3600) * math.Cos(2*omega.Radians())
	return term1 + term2 + term3 - term4
}

// AltitudeOfCelestialBody returns the altitude of a body with declination
// dec seen from latitude phi at local hour angle H (Meeus p.93).
func AltitudeOfCelestialBody(phi, dec, H Angle) Angle {
	term1 := math.Sin(phi.Radians()) * math.Sin(dec.Radians())
	term2 := math.Cos(phi.Radians()) * math.Cos(dec.Radians()) * math.Cos(H.Radians())
	return AngleFromRadians(math.Asin(term1 + term2))
}

// ApproximateTransit returns the fraction of the day, in [0, 1), at which
// a body with right ascension alpha2 crosses the meridian (Meeus p.102).
func ApproximateTransit(L, theta0, alpha2 Angle) float64 {
	Lw := -L
	return normalizeToScale(float64(alpha2+Lw-theta0)/360, 1)
}

// CorrectedTransit refines the approximate transit m0 using interpolated
// right ascension and returns the transit in hours of the day (Meeus p.102).
func CorrectedTransit(m0 float64, L, theta0, alpha2, alpha1, alpha3 Angle) float64 {
	Lw := -L
	theta := Angle(float64(theta0) + SiderealRate*m0).Unwound()
	alpha := InterpolateAngles(alpha2, alpha1, alpha3, m0).Unwound()
	H := (theta - Lw - alpha).QuadrantShifted()
	dm := float64(H) / -360
	return (m0 + dm) * 24
}

// CorrectedHourAngle returns the hour of the day at which the sun reaches
// altitude h0 before or after transit (Meeus p.102). The result is NaN
// when the altitude is never reached on that day.
func CorrectedHourAngle(m0 float64, h0 Angle, c Coordinates, afterTransit bool,
	theta0, alpha2, alpha1, alpha3, delta2, delta1, delta3 Angle) float64 {

	Lw := -c.LongitudeAngle()
	phi := c.LatitudeAngle()

	term1 := math.Sin(h0.Radians()) - math.Sin(phi.Radians())*math.Sin(delta2.Radians())
	term2 := math.Cos(phi.Radians()) * math.Cos(delta2.Radians())
	H0 := AngleFromRadians(math.Acos(term1 / term2))

	m := m0 - float64(H0)/360
	if afterTransit {
		m = m0 + float64(H0)/360
	}

	theta := Angle(float64(theta0) + SiderealRate*m).Unwound()
	alpha := InterpolateAngles(alpha2, alpha1, alpha3, m).Unwound()
	delta := Angle(Interpolate(float64(delta2), float64(delta1), float64(delta3), m))
	H := theta - Lw - alpha
	h := AltitudeOfCelestialBody(phi, delta, H)

	term3 := float64(h - h0)
	term4 := 360 * math.Cos(delta.Radians()) * math.Cos(phi.Radians()) * math.Sin(H.Radians())
	dm := term3 / term4

	return (m + dm) * 24
}

// Interpolate is the three-point interpolation of Meeus p.24. y2 is the
// central value, y1 the previous and y3 the next sample; n is the
// interpolation factor.
func Interpolate(y2, y1, y3, n float64) float64 {
	a := y2 - y1
	b := y3 - y2
	c := b - a
	return y2 + (n/2)*(a+b+n*c)
}

// InterpolateAngles is Interpolate for angles, unwinding the differences so
// a wrap through 360° does not skew the result.
func InterpolateAngles(y2, y1, y3 Angle, n float64) Angle {
	a := (y2 - y1).Unwound()
	b := (y3 - y2).Unwound()
	c := b - a
	return Angle(float64(y2) + (n/2)*float64(a+b+c*Angle(n)))
}
