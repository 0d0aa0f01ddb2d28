package astro

import "math"

// Makkah is the location of the Kaaba.
var Makkah = Coordinates{Latitude: 21.4225241, Longitude: 39.8261818}

// Qiblah returns the initial great-circle bearing from c to the Kaaba, in
// degrees clockwise from true north.
func Qiblah(c Coordinates) float64 {
	term1 := math.Sin(Makkah.LongitudeAngle().Radians() - c.LongitudeAngle().Radians())
	term2 := math.Cos(c.LatitudeAngle().Radians()) * math.Tan(Makkah.LatitudeAngle().Radians())
	term3 := math.Sin(c.LatitudeAngle().Radians()) * math.Cos(Makkah.LongitudeAngle().Radians()-c.LongitudeAngle().Radians())
	return float64(AngleFromRadians(math.Atan2(term1, term2-term3)).Unwound())
}
