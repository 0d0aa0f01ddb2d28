// Package astro provides the positional astronomy used to place the sun in
// the sky: Julian dates, solar coordinates, sidereal time, and the corrected
// transit and hour-angle procedures from Meeus.
package astro

import (
	"errors"
	"fmt"
	"math"
)

// Angle is an angle in degrees. Arithmetic on it is plain degree arithmetic.
type Angle float64

// AngleFromRadians converts radians to an Angle.
func AngleFromRadians(rad float64) Angle {
	return Angle(radToDeg(rad))
}

// Degrees returns the angle as a float in degrees.
func (a Angle) Degrees() float64 { return float64(a) }

// Radians returns the angle in radians.
func (a Angle) Radians() float64 { return degToRad(float64(a)) }

// Add returns a + b.
func (a Angle) Add(b Angle) Angle { return a + b }

// Sub returns a - b.
func (a Angle) Sub(b Angle) Angle { return a - b }

// Mul returns a * b.
func (a Angle) Mul(b Angle) Angle { return a * b }

// Div returns a / b.
func (a Angle) Div(b Angle) Angle { return a / b }

// Unwound maps the angle into [0, 360).
func (a Angle) Unwound() Angle {
	return Angle(normalizeToScale(float64(a), 360))
}

// QuadrantShifted maps the angle into [-180, 180].
func (a Angle) QuadrantShifted() Angle {
	d := float64(a)
	if d >= -180 && d <= 180 {
		return a
	}
	return Angle(d - 360*math.Round(d/360))
}

func (a Angle) String() string {
	return fmt.Sprintf("%.6f°", float64(a))
}

// normalizeToScale wraps v into [0, max).
func normalizeToScale(v, max float64) float64 {
	r := v - max*math.Floor(v/max)
	// Tiny negative inputs round up to max, and denormals stay negative.
	if r >= max || r < 0 {
		return 0
	}
	return r
}

// ErrInvalidCoordinates is returned for latitudes or longitudes outside
// their valid ranges.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates is an observer position on the earth, in degrees.
// Latitude is north positive, longitude east positive.
type Coordinates struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// NewCoordinates returns validated coordinates.
func NewCoordinates(lat, lon float64) (Coordinates, error) {
	c := Coordinates{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinates{}, err
	}
	return c, nil
}

// Validate checks that both components are finite and within range.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinates, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidCoordinates, c.Longitude)
	}
	return nil
}

// LatitudeAngle returns the latitude as an Angle.
func (c Coordinates) LatitudeAngle() Angle { return Angle(c.Latitude) }

// LongitudeAngle returns the longitude as an Angle.
func (c Coordinates) LongitudeAngle() Angle { return Angle(c.Longitude) }

func (c Coordinates) String() string {
	ns, ew := "N", "E"
	lat, lon := c.Latitude, c.Longitude
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.4f°%s %.4f°%s", lat, ns, lon, ew)
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
