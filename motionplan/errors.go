package motionplan

import (
	"github.com/pkg/errors"
)

// ErrFeatureNotSupported is returned by a backend that cannot perform a requested operation.
var ErrFeatureNotSupported = errors.New("feature not supported by backend")

// NewFeatureNotSupportedError returns an error wrapping ErrFeatureNotSupported for the named feature.
func NewFeatureNotSupportedError(feature string) error {
	return errors.Wrap(ErrFeatureNotSupported, feature)
}

// NewInvalidWeightError is returned when a constraint weight is outside (0, 1].
func NewInvalidWeightError(weight float64) error {
	return errors.Errorf("constraint weight must be in (0, 1], got %v", weight)
}

// NewNegativeToleranceError is returned when a constraint tolerance is negative.
func NewNegativeToleranceError(tolerance float64) error {
	return errors.Errorf("constraint tolerance must not be negative, got %v", tolerance)
}
