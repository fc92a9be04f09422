package motionplan

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestErrors(t *testing.T) {
	err := NewFeatureNotSupportedError("plan motion")
	test.That(t, errors.Is(err, ErrFeatureNotSupported), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldEqual, "plan motion: feature not supported by backend")

	test.That(t, NewInvalidWeightError(0).Error(), test.ShouldContainSubstring, "got 0")
	test.That(t, NewNegativeToleranceError(-2).Error(), test.ShouldContainSubstring, "got -2")
}
