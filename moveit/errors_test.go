package moveit

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestErrorCode(t *testing.T) {
	test.That(t, Success.String(), test.ShouldEqual, "SUCCESS")
	test.That(t, NoIKSolution.String(), test.ShouldEqual, "NO_IK_SOLUTION")
	test.That(t, ErrorCode(42).String(), test.ShouldEqual, "UNKNOWN_ERROR_CODE(42)")

	test.That(t, checkErrorCode("/compute_ik", ErrorCodes{Val: Success}), test.ShouldBeNil)
	err := checkErrorCode("/compute_ik", ErrorCodes{Val: NoIKSolution})
	test.That(t, err, test.ShouldBeError, "/compute_ik failed with error code NO_IK_SOLUTION (-31)")

	wrapped := errors.Wrap(err, "planning")
	test.That(t, IsErrorCode(wrapped, NoIKSolution), test.ShouldBeTrue)
	test.That(t, IsErrorCode(wrapped, PlanningFailed), test.ShouldBeFalse)
	test.That(t, IsErrorCode(errors.New("other"), NoIKSolution), test.ShouldBeFalse)
}
