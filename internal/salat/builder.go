package salat

import (
	"errors"
	"time"

	"github.com/litescript/ls-salat/internal/astro"
)

// Schedule collects the inputs of a PrayerTimes computation.
//
//	pt, err := salat.NewSchedule().
//		On(date).
//		ForLocation(coords).
//		WithParameters(params).
//		Build()
type Schedule struct {
	date   time.Time
	coords astro.Coordinates
	params Parameters

	hasDate   bool
	hasCoords bool
	hasParams bool
}

// NewSchedule returns an empty schedule builder.
func NewSchedule() *Schedule {
	return &Schedule{}
}

// On sets the calendar date. A zero time counts as no date.
func (s *Schedule) On(date time.Time) *Schedule {
	s.date = date
	s.hasDate = !date.IsZero()
	return s
}

// ForLocation sets the observer position.
func (s *Schedule) ForLocation(c astro.Coordinates) *Schedule {
	s.coords = c
	s.hasCoords = true
	return s
}

// WithParameters sets the calculation parameters.
func (s *Schedule) WithParameters(p Parameters) *Schedule {
	s.params = p
	s.hasParams = true
	return s
}

// Build computes the schedule. Every missing input is reported; each
// error wraps ErrConfiguration.
func (s *Schedule) Build() (*PrayerTimes, error) {
	var errs []error
	if !s.hasDate {
		errs = append(errs, ErrMissingDate)
	}
	if !s.hasCoords {
		errs = append(errs, ErrMissingCoordinates)
	}
	if !s.hasParams {
		errs = append(errs, ErrMissingParameters)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return New(s.date, s.coords, s.params)
}
