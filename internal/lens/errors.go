package lens

import "errors"

var (
	// ErrUnsupportedDistortionKind is returned for the deprecated Poly4 form
	// on any inverse or refit path, and for unknown equation values.
	ErrUnsupportedDistortionKind = errors.New("lens: unsupported distortion kind")

	// ErrInvalidArgument is returned when the exact inverse is asked for a
	// radius outside the range the search is valid for.
	ErrInvalidArgument = errors.New("lens: invalid argument")

	// ErrDegenerateFit is returned when the inverse polynomial fit has
	// coincident sample radii.
	ErrDegenerateFit = errors.New("lens: degenerate cubic fit")

	ErrBufferTooSmall  = errors.New("lens: buffer too small")
	ErrUnknownVersion  = errors.New("lens: unknown record version")
	ErrFixedPointRange = errors.New("lens: value out of fixed-point range")
)
