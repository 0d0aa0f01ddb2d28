// Package astro provides the seasonal twilight model used at high
// latitudes.
package astro

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Shafaq is the twilight glow used to mark the end of evening twilight in
// the Moonsighting Committee method.
type Shafaq int

const (
	// ShafaqGeneral blends red and white glow.
	ShafaqGeneral Shafaq = iota
	// ShafaqAhmer is the red glow.
	ShafaqAhmer
	// ShafaqAbyad is the white glow.
	ShafaqAbyad
)

func (s Shafaq) String() string {
	switch s {
	case ShafaqGeneral:
		return "general"
	case ShafaqAhmer:
		return "ahmer"
	case ShafaqAbyad:
		return "abyad"
	default:
		return fmt.Sprintf("shafaq(%d)", int(s))
	}
}

// Valid reports whether s is a known shafaq.
func (s Shafaq) Valid() bool {
	return s >= ShafaqGeneral && s <= ShafaqAbyad
}

// MarshalText implements encoding.TextMarshaler.
func (s Shafaq) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown shafaq %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shafaq) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "general", "":
		*s = ShafaqGeneral
	case "ahmer", "red":
		*s = ShafaqAhmer
	case "abyad", "white":
		*s = ShafaqAbyad
	default:
		return fmt.Errorf("unknown shafaq %q", string(text))
	}
	return nil
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return julian.LeapYearGregorian(year)
}

// DayOfYear returns the ordinal day of t's calendar date, starting at 1.
func DayOfYear(t time.Time) int {
	return julian.DayOfYearGregorian(t.Year(), int(t.Month()), t.Day())
}

// DaysSinceSolstice returns the days elapsed since the winter solstice of
// the observer's hemisphere.
func DaysSinceSolstice(dayOfYear, year int, latitude float64) int {
	daysInYear := 365
	if IsLeapYear(year) {
		daysInYear = 366
	}

	if latitude >= 0 {
		lapsed := dayOfYear + 10
		if lapsed >= daysInYear {
			lapsed -= daysInYear
		}
		return lapsed
	}

	southernOffset := 172
	if IsLeapYear(year) {
		southernOffset = 173
	}
	lapsed := dayOfYear - southernOffset
	if lapsed < 0 {
		lapsed += daysInYear
	}
	return lapsed
}

// twilightCoefficients are the seasonal breakpoints a, b, c, d in minutes.
type twilightCoefficients struct {
	a, b, c, d float64
}

func morningCoefficients(latitude float64) twilightCoefficients {
	lat := math.Abs(latitude)
	return twilightCoefficients{
		a: 75 + 28.65/55*lat,
		b: 75 + 19.44/55*lat,
		c: 75 + 32.74/55*lat,
		d: 75 + 48.10/55*lat,
	}
}

func eveningCoefficients(latitude float64, shafaq Shafaq) twilightCoefficients {
	lat := math.Abs(latitude)
	switch shafaq {
	case ShafaqAhmer:
		return twilightCoefficients{
			a: 62 + 17.40/55*lat,
			b: 62 - 7.16/55*lat,
			c: 62 + 5.12/55*lat,
			d: 62 + 19.44/55*lat,
		}
	case ShafaqAbyad:
		return twilightCoefficients{
			a: 75 + 25.60/55*lat,
			b: 75 + 7.16/55*lat,
			c: 75 + 36.84/55*lat,
			d: 75 + 81.84/55*lat,
		}
	default:
		return twilightCoefficients{
			a: 75 + 25.60/55*lat,
			b: 75 + 2.050/55*lat,
			c: 75 - 9.21/55*lat,
			d: 75 + 6.14/55*lat,
		}
	}
}

// minutes interpolates the coefficients piecewise over the days since the
// solstice.
func (k twilightCoefficients) minutes(dyy float64) float64 {
	switch {
	case dyy < 91:
		return k.a + (k.b-k.a)/91*dyy
	case dyy < 137:
		return k.b + (k.c-k.b)/46*(dyy-91)
	case dyy < 183:
		return k.c + (k.d-k.c)/46*(dyy-137)
	case dyy < 229:
		return k.d + (k.c-k.d)/46*(dyy-183)
	case dyy < 275:
		return k.c + (k.b-k.c)/46*(dyy-229)
	default:
		return k.b + (k.a-k.b)/91*(dyy-275)
	}
}

// SeasonAdjustedMorningTwilight returns the earliest acceptable Fajr for
// the Moonsighting Committee method.
func SeasonAdjustedMorningTwilight(latitude float64, dayOfYear, year int, sunrise time.Time) time.Time {
	dyy := float64(DaysSinceSolstice(dayOfYear, year, latitude))
	adjustment := morningCoefficients(latitude).minutes(dyy)
	return sunrise.Add(time.Duration(math.Round(adjustment*-60)) * time.Second)
}

// SeasonAdjustedEveningTwilight returns the latest acceptable Isha for the
// Moonsighting Committee method, rounded to the nearest minute.
func SeasonAdjustedEveningTwilight(latitude float64, dayOfYear, year int, sunset time.Time, shafaq Shafaq) time.Time {
	dyy := float64(DaysSinceSolstice(dayOfYear, year, latitude))
	adjustment := eveningCoefficients(latitude, shafaq).minutes(dyy)
	adjusted := sunset.Add(time.Duration(math.Round(adjustment*60)) * time.Second)
	return RoundToNearestMinute(adjusted)
}

// RoundToNearestMinute rounds t to the nearest whole minute, half a minute
// rounding up.
func RoundToNearestMinute(t time.Time) time.Time {
	secs := t.Second()
	t = t.Add(-time.Duration(t.Nanosecond()))
	if secs >= 30 {
		return t.Add(time.Duration(60-secs) * time.Second)
	}
	return t.Add(-time.Duration(secs) * time.Second)
}
