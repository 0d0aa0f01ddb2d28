// Package astro provides solar coordinates and the solar times of a date:
// transit, sunrise, sunset and the times the sun reaches a given altitude.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// SunriseAltitude is the apparent altitude of the sun's centre at sunrise
// and sunset: 50 arcminutes below the horizon for refraction and the solar
// semi-diameter.
const SunriseAltitude Angle = -50.0 / 60.0

// SolarCoordinates is the apparent position of the sun for a Julian day.
type SolarCoordinates struct {
	Declination          Angle // δ
	RightAscension       Angle // α, in [0, 360)
	ApparentSiderealTime Angle // θ0 at Greenwich
}

// NewSolarCoordinates computes the sun's apparent position (Meeus p.165)
// and the apparent sidereal time (Meeus p.88) for jd.
func NewSolarCoordinates(jd float64) SolarCoordinates {
	T := JulianCentury(jd)
	L0 := MeanSolarLongitude(T)
	Lp := MeanLunarLongitude(T)
	omega := AscendingLunarNodeLongitude(T)
	lambda := ApparentSolarLongitude(T, L0).Radians()

	theta0 := MeanSiderealTime(T)
	dPsi := NutationInLongitude(L0, Lp, omega)
	dEps := NutationInObliquity(L0, Lp, omega)

	eps0 := MeanObliquityOfTheEcliptic(T)
	epsApp := ApparentObliquityOfTheEcliptic(T, eps0).Radians()

	// Equatorial coordinates from the apparent ecliptic longitude
	dec := AngleFromRadians(math.Asin(math.Sin(epsApp) * math.Sin(lambda)))
	ra := AngleFromRadians(math.Atan2(math.Cos(epsApp)*math.Sin(lambda), math.Cos(lambda))).Unwound()

	// Apparent sidereal time: mean sidereal time plus the equation of the equinoxes
	ast := Angle(float64(theta0) + (dPsi*3600)*math.Cos(Angle(float64(eps0)+dEps).Radians())/3600)

	return SolarCoordinates{
		Declination:          dec,
		RightAscension:       ra,
		ApparentSiderealTime: ast,
	}
}

// SolarTime holds the transit, sunrise and sunset of one calendar date at
// one location, and answers altitude queries for that day.
//
// Instants are UTC. An instant is absent when the sun never reaches the
// requested altitude on that day.
type SolarTime struct {
	date     time.Time
	observer Coordinates

	prev, solar, next SolarCoordinates
	approxTransit     float64

	transit time.Time
	sunrise time.Time
	sunset  time.Time
}

// NewSolarTime computes solar events for the calendar date of date (as
// seen in date's location) at the observer's position.
func NewSolarTime(date time.Time, observer Coordinates) *SolarTime {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := day.AddDate(0, 0, -1)
	tomorrow := day.AddDate(0, 0, 1)

	st := &SolarTime{
		date:     day,
		observer: observer,
		prev:     NewSolarCoordinates(julianDayOf(yesterday)),
		solar:    NewSolarCoordinates(julianDayOf(day)),
		next:     NewSolarCoordinates(julianDayOf(tomorrow)),
	}

	st.approxTransit = ApproximateTransit(
		observer.LongitudeAngle(),
		st.solar.ApparentSiderealTime,
		st.solar.RightAscension,
	)
	transitHours := CorrectedTransit(
		st.approxTransit,
		observer.LongitudeAngle(),
		st.solar.ApparentSiderealTime,
		st.solar.RightAscension,
		st.prev.RightAscension,
		st.next.RightAscension,
	)

	st.transit, _ = settingHour(transitHours, day)
	st.sunrise, _ = settingHour(st.hourAngle(SunriseAltitude, false), day)
	st.sunset, _ = settingHour(st.hourAngle(SunriseAltitude, true), day)

	return st
}

// Date returns the UTC midnight of the computed calendar date.
func (st *SolarTime) Date() time.Time { return st.date }

// Observer returns the observer position.
func (st *SolarTime) Observer() Coordinates { return st.observer }

// Coordinates returns the sun's position at 0h UTC of the date.
func (st *SolarTime) Coordinates() SolarCoordinates { return st.solar }

// Transit returns solar noon.
func (st *SolarTime) Transit() (time.Time, bool) { return st.transit, !st.transit.IsZero() }

// Sunrise returns the time the sun's upper limb clears the horizon.
func (st *SolarTime) Sunrise() (time.Time, bool) { return st.sunrise, !st.sunrise.IsZero() }

// Sunset returns the time the sun's upper limb drops below the horizon.
func (st *SolarTime) Sunset() (time.Time, bool) { return st.sunset, !st.sunset.IsZero() }

// TimeForSolarAngle returns when the sun reaches altitude angle, before or
// after transit. ok is false when the altitude is not reached that day.
func (st *SolarTime) TimeForSolarAngle(angle Angle, afterTransit bool) (time.Time, bool) {
	return settingHour(st.hourAngle(angle, afterTransit), st.date)
}

// Afternoon returns the time after transit when an object's shadow equals
// shadowLength times its height plus its shadow at noon.
func (st *SolarTime) Afternoon(shadowLength float64) (time.Time, bool) {
	tangent := Angle(math.Abs(st.observer.Latitude - float64(st.solar.Declination)))
	inverse := shadowLength + math.Tan(tangent.Radians())
	angle := AngleFromRadians(math.Atan(1 / inverse))
	return st.TimeForSolarAngle(angle, true)
}

func (st *SolarTime) hourAngle(angle Angle, afterTransit bool) float64 {
	return CorrectedHourAngle(
		st.approxTransit,
		angle,
		st.observer,
		afterTransit,
		st.solar.ApparentSiderealTime,
		st.solar.RightAscension,
		st.prev.RightAscension,
		st.next.RightAscension,
		st.solar.Declination,
		st.prev.Declination,
		st.next.Declination,
	)
}

// settingHour converts fractional hours from midnight UTC of day into an
// instant, folding seconds into the nearest minute. Hours outside [0, 24)
// land on the previous or next day.
func settingHour(hours float64, day time.Time) (time.Time, bool) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return time.Time{}, false
	}

	h := math.Floor(hours)
	m := math.Floor((hours - h) * 60)
	s := math.Floor((hours - (h + m/60)) * 3600)

	minutes := math.Round(m + s/60)

	// time.Date carries minute and hour overflow into the day
	return time.Date(day.Year(), day.Month(), day.Day(), int(h), int(minutes), 0, 0, time.UTC), true
}

// julianDayOf returns the Julian day at the instant t.
func julianDayOf(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}
