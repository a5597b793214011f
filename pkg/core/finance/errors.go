package finance

import "errors"

// Sentinel errors surfaced by the engine. Callers match with errors.Is.
var (
	// ErrInvalidRange reports a non-positive projection horizon or an
	// inconsistent year range.
	ErrInvalidRange = errors.New("invalid projection range")

	// ErrDegenerateFit reports a tariff goal-seek whose fitted slope is
	// (near) zero, i.e. the cash flow does not respond to the tariff.
	ErrDegenerateFit = errors.New("degenerate fit: cash flow insensitive to tariff")

	// ErrNoConvergence reports an IRR computation with no real root in the
	// valid discount-rate domain.
	ErrNoConvergence = errors.New("irr did not converge")
)
