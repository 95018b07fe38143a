package path

import "errors"

// Sentinel errors for contract violations and degraded inputs. Callers match
// them with errors.Is; the wrapped messages carry the offending values.
var (
	// ErrUnsupportedManeuver reports a maneuver type the converter cannot
	// consume.
	ErrUnsupportedManeuver = errors.New("unsupported maneuver type")

	// ErrInvalidStride reports a non-positive downsampling stride.
	ErrInvalidStride = errors.New("downsample stride must be positive")

	// ErrEmptyPath reports an operation that needs at least one point.
	ErrEmptyPath = errors.New("empty path")

	// ErrInsufficientPoints reports too few distinct points to fit a curve.
	ErrInsufficientPoints = errors.New("insufficient distinct points for curve fit")
)
