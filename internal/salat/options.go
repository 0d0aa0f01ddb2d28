package salat

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-salat/internal/astro"
)

// Madhab selects the Asr shadow ratio.
type Madhab int

const (
	Shafi  Madhab = 1
	Hanafi Madhab = 2
)

// Shadow returns the shadow length multiplier used for Asr.
func (m Madhab) Shadow() int { return int(m) }

// Valid reports whether m is a known madhab.
func (m Madhab) Valid() bool { return m == Shafi || m == Hanafi }

func (m Madhab) String() string {
	switch m {
	case Shafi:
		return "Shafi"
	case Hanafi:
		return "Hanafi"
	default:
		return fmt.Sprintf("Madhab(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Madhab) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: unknown madhab %d", ErrInvalidParameters, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Madhab) UnmarshalText(text []byte) error {
	switch normalizeName(string(text)) {
	case "shafi", "standard", "1":
		*m = Shafi
	case "hanafi", "2":
		*m = Hanafi
	default:
		return fmt.Errorf("%w: unknown madhab %q", ErrInvalidParameters, string(text))
	}
	return nil
}

// HighLatitudeRule bounds Fajr and Isha by a portion of the night where
// twilight angles give impractical or no times.
type HighLatitudeRule string

const (
	// MiddleOfTheNight keeps Fajr after and Isha before the middle of the night.
	MiddleOfTheNight HighLatitudeRule = "MiddleOfTheNight"
	// SeventhOfTheNight keeps Fajr within the last seventh and Isha within
	// the first seventh of the night.
	SeventhOfTheNight HighLatitudeRule = "SeventhOfTheNight"
	// TwilightAngle uses angle/60 of the night.
	TwilightAngle HighLatitudeRule = "TwilightAngle"
)

// RecommendedHighLatitudeRule returns SeventhOfTheNight above 48° latitude
// and MiddleOfTheNight elsewhere.
func RecommendedHighLatitudeRule(c astro.Coordinates) HighLatitudeRule {
	if c.Latitude > 48 {
		return SeventhOfTheNight
	}
	return MiddleOfTheNight
}

// Valid reports whether r is a known rule.
func (r HighLatitudeRule) Valid() bool {
	switch r {
	case MiddleOfTheNight, SeventhOfTheNight, TwilightAngle:
		return true
	}
	return false
}

func (r HighLatitudeRule) String() string { return string(r) }

// MarshalText implements encoding.TextMarshaler.
func (r HighLatitudeRule) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: unknown high latitude rule %q", ErrInvalidParameters, string(r))
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *HighLatitudeRule) UnmarshalText(text []byte) error {
	switch normalizeName(string(text)) {
	case "middleofthenight", "middle":
		*r = MiddleOfTheNight
	case "seventhofthenight", "seventh":
		*r = SeventhOfTheNight
	case "twilightangle", "angle":
		*r = TwilightAngle
	default:
		return fmt.Errorf("%w: unknown high latitude rule %q", ErrInvalidParameters, string(text))
	}
	return nil
}

// Rounding is the policy applied to computed instants.
type Rounding string

const (
	// RoundingNearest rounds to the nearest minute, half a minute up.
	RoundingNearest Rounding = "nearest"
	// RoundingUp always advances to the next minute boundary.
	RoundingUp Rounding = "up"
	// RoundingNone keeps seconds.
	RoundingNone Rounding = "none"
)

// Valid reports whether r is a known policy.
func (r Rounding) Valid() bool {
	switch r {
	case RoundingNearest, RoundingUp, RoundingNone:
		return true
	}
	return false
}

func (r Rounding) String() string { return string(r) }

// Apply rounds t according to r. RoundingUp advances by the remainder of the
// minute even when t is already on a minute boundary.
func (r Rounding) Apply(t time.Time) time.Time {
	switch r {
	case RoundingUp:
		t = t.Add(-time.Duration(t.Nanosecond()))
		return t.Add(time.Duration(60-t.Second()) * time.Second)
	case RoundingNone:
		return t
	default:
		return astro.RoundToNearestMinute(t)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Rounding) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: unknown rounding %q", ErrInvalidParameters, string(r))
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rounding) UnmarshalText(text []byte) error {
	v := Rounding(normalizeName(string(text)))
	if !v.Valid() {
		return fmt.Errorf("%w: unknown rounding %q", ErrInvalidParameters, string(text))
	}
	*r = v
	return nil
}

// Shafaq is the twilight glow marking the end of evening twilight.
type Shafaq = astro.Shafaq

const (
	ShafaqGeneral = astro.ShafaqGeneral
	ShafaqAhmer   = astro.ShafaqAhmer
	ShafaqAbyad   = astro.ShafaqAbyad
)

// TimeAdjustments are per-prayer offsets in minutes.
type TimeAdjustments struct {
	Fajr    int `json:"fajr" yaml:"fajr"`
	Sunrise int `json:"sunrise" yaml:"sunrise"`
	Dhuhr   int `json:"dhuhr" yaml:"dhuhr"`
	Asr     int `json:"asr" yaml:"asr"`
	Maghrib int `json:"maghrib" yaml:"maghrib"`
	Isha    int `json:"isha" yaml:"isha"`
}

// For returns the offset for p. Prayers without an offset return zero.
func (a TimeAdjustments) For(p Prayer) int {
	switch p {
	case Fajr:
		return a.Fajr
	case Sunrise:
		return a.Sunrise
	case Dhuhr:
		return a.Dhuhr
	case Asr:
		return a.Asr
	case Maghrib:
		return a.Maghrib
	case Isha:
		return a.Isha
	default:
		return 0
	}
}

func validAngle(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 && v < 90
}
