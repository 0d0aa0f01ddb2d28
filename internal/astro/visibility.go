// Package astro provides elevation tiers for the sun.
package astro

// ElevationTier categorizes the sun's elevation into the usual daylight and
// twilight phases.
type ElevationTier int

const (
	ElevationNight        ElevationTier = iota // Below -18 degrees
	ElevationAstronomical                      // -18 to -12 degrees
	ElevationNautical                          // -12 to -6 degrees
	ElevationCivil                             // -6 degrees to sunrise altitude
	ElevationDay                               // Above sunrise altitude
)

func (t ElevationTier) String() string {
	switch t {
	case ElevationNight:
		return "night"
	case ElevationAstronomical:
		return "astronomical twilight"
	case ElevationNautical:
		return "nautical twilight"
	case ElevationCivil:
		return "civil twilight"
	case ElevationDay:
		return "day"
	default:
		return "unknown"
	}
}

// GetElevationTier returns the tier for a given solar elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg < -18:
		return ElevationNight
	case elDeg < -12:
		return ElevationAstronomical
	case elDeg < -6:
		return ElevationNautical
	case elDeg < float64(SunriseAltitude):
		return ElevationCivil
	default:
		return ElevationDay
	}
}
