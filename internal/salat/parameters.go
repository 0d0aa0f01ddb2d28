// Package salat provides the calculation parameters and their builder.
package salat

import "fmt"

// Parameters control how a schedule is derived from solar events.
type Parameters struct {
	Method Method

	// Angles are degrees below the horizon.
	FajrAngle    float64
	MaghribAngle float64
	IshaAngle    float64

	// IshaInterval, when positive, places Isha this many minutes after
	// sunset and overrides IshaAngle.
	IshaInterval int

	Madhab           Madhab
	HighLatitudeRule HighLatitudeRule

	// Adjustments are the caller's offsets; MethodAdjustments come with the
	// method preset. Both apply.
	Adjustments       TimeAdjustments
	MethodAdjustments TimeAdjustments

	Rounding Rounding
	Shafaq   Shafaq
}

// NewParameters returns the preset for method with the given madhab.
func NewParameters(method Method, madhab Madhab) Parameters {
	p := method.Parameters()
	p.Madhab = madhab
	return p
}

// NightPortions returns the fractions of the night bounding Fajr and Isha
// under the configured high latitude rule.
func (p Parameters) NightPortions() (fajr, isha float64) {
	switch p.HighLatitudeRule {
	case SeventhOfTheNight:
		return 1.0 / 7.0, 1.0 / 7.0
	case TwilightAngle:
		return p.FajrAngle / 60, p.IshaAngle / 60
	default:
		return 0.5, 0.5
	}
}

// TimeAdjustment returns the total offset in minutes for prayer.
func (p Parameters) TimeAdjustment(prayer Prayer) int {
	return p.Adjustments.For(prayer) + p.MethodAdjustments.For(prayer)
}

// Validate rejects parameters the schedule cannot honour. Values are never
// clamped.
func (p Parameters) Validate() error {
	if !p.Method.Valid() {
		return fmt.Errorf("%w: unknown method %q", ErrInvalidParameters, string(p.Method))
	}
	if !p.Madhab.Valid() {
		return fmt.Errorf("%w: unknown madhab %d", ErrInvalidParameters, int(p.Madhab))
	}
	if !p.HighLatitudeRule.Valid() {
		return fmt.Errorf("%w: unknown high latitude rule %q", ErrInvalidParameters, string(p.HighLatitudeRule))
	}
	if !p.Rounding.Valid() {
		return fmt.Errorf("%w: unknown rounding %q", ErrInvalidParameters, string(p.Rounding))
	}
	if !p.Shafaq.Valid() {
		return fmt.Errorf("%w: unknown shafaq %d", ErrInvalidParameters, int(p.Shafaq))
	}

	angles := []struct {
		name  string
		value float64
	}{
		{"fajr", p.FajrAngle},
		{"maghrib", p.MaghribAngle},
		{"isha", p.IshaAngle},
	}
	for _, a := range angles {
		if !validAngle(a.value) {
			return fmt.Errorf("%w: %s angle %v outside [0, 90)", ErrInvalidParameters, a.name, a.value)
		}
	}

	if p.IshaInterval < 0 {
		return fmt.Errorf("%w: negative isha interval %d", ErrInvalidParameters, p.IshaInterval)
	}
	return nil
}

// Configuration builds Parameters fluently. The zero-configuration defaults
// are the Other method, Shafi, MiddleOfTheNight, nearest rounding and the
// general shafaq.
type Configuration struct {
	params Parameters
}

// NewConfiguration starts from the defaults.
func NewConfiguration() *Configuration {
	return &Configuration{params: Other.Parameters()}
}

// ConfigurationFor starts from the preset of method.
func ConfigurationFor(method Method) *Configuration {
	return &Configuration{params: method.Parameters()}
}

// Method records the method the parameters were derived from.
func (c *Configuration) Method(m Method) *Configuration {
	c.params.Method = m
	return c
}

// FajrAngle sets the sun depression for Fajr in degrees.
func (c *Configuration) FajrAngle(deg float64) *Configuration {
	c.params.FajrAngle = deg
	return c
}

// MaghribAngle sets the sun depression for Maghrib; zero means sunset.
func (c *Configuration) MaghribAngle(deg float64) *Configuration {
	c.params.MaghribAngle = deg
	return c
}

// IshaAngle sets the sun depression for Isha in degrees.
func (c *Configuration) IshaAngle(deg float64) *Configuration {
	c.params.IshaAngle = deg
	return c
}

// IshaInterval sets a fixed Isha interval in minutes and clears the Isha angle.
func (c *Configuration) IshaInterval(minutes int) *Configuration {
	c.params.IshaAngle = 0
	c.params.IshaInterval = minutes
	return c
}

// Madhab sets the Asr shadow convention.
func (c *Configuration) Madhab(m Madhab) *Configuration {
	c.params.Madhab = m
	return c
}

// HighLatitudeRule sets the bound on Fajr and Isha for short nights.
func (c *Configuration) HighLatitudeRule(r HighLatitudeRule) *Configuration {
	c.params.HighLatitudeRule = r
	return c
}

// Adjustments sets per-prayer user offsets in minutes.
func (c *Configuration) Adjustments(a TimeAdjustments) *Configuration {
	c.params.Adjustments = a
	return c
}

// MethodAdjustments sets the method's own per-prayer offsets.
func (c *Configuration) MethodAdjustments(a TimeAdjustments) *Configuration {
	c.params.MethodAdjustments = a
	return c
}

// Rounding sets how instants are rounded to the minute.
func (c *Configuration) Rounding(r Rounding) *Configuration {
	c.params.Rounding = r
	return c
}

// Shafaq selects the evening twilight used by MoonsightingCommittee.
func (c *Configuration) Shafaq(s Shafaq) *Configuration {
	c.params.Shafaq = s
	return c
}

// Build validates and returns the parameters.
func (c *Configuration) Build() (Parameters, error) {
	if err := c.params.Validate(); err != nil {
		return Parameters{}, err
	}
	return c.params, nil
}
