package demand

import "errors"

var (
	// ErrUnsupportedUnit is returned when a timeseries unit conversion is
	// requested for units outside the supported set.
	ErrUnsupportedUnit = errors.New("unsupported timeseries unit")

	// ErrUnknownTier is returned for an SHS threshold outside the household
	// tier scale.
	ErrUnknownTier = errors.New("unknown household tier")
)
