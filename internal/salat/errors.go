package salat

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned when a schedule is requested without the
// inputs needed to compute it.
var ErrConfiguration = errors.New("salat: incomplete schedule configuration")

var (
	ErrMissingDate        = fmt.Errorf("%w: date is required", ErrConfiguration)
	ErrMissingCoordinates = fmt.Errorf("%w: coordinates are required", ErrConfiguration)
	ErrMissingParameters  = fmt.Errorf("%w: parameters are required", ErrConfiguration)
)

// ErrInvalidParameters is wrapped by every Parameters validation failure.
var ErrInvalidParameters = errors.New("salat: invalid parameters")
