package moveit

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode is the value of moveit_msgs/MoveItErrorCodes.
type ErrorCode int32

// MoveIt error codes.
const (
	Success                                  ErrorCode = 1
	Failure                                  ErrorCode = 99999
	PlanningFailed                           ErrorCode = -1
	InvalidMotionPlan                        ErrorCode = -2
	MotionPlanInvalidatedByEnvironmentChange ErrorCode = -3
	ControlFailed                            ErrorCode = -4
	UnableToAquireSensorData                 ErrorCode = -5
	TimedOut                                 ErrorCode = -6
	Preempted                                ErrorCode = -7
	StartStateInCollision                    ErrorCode = -10
	StartStateViolatesPathConstraints        ErrorCode = -11
	GoalInCollision                          ErrorCode = -12
	GoalViolatesPathConstraints              ErrorCode = -13
	GoalConstraintsViolated                  ErrorCode = -14
	InvalidGroupName                         ErrorCode = -15
	InvalidGoalConstraints                   ErrorCode = -16
	InvalidRobotState                        ErrorCode = -17
	InvalidLinkName                          ErrorCode = -18
	InvalidObjectName                        ErrorCode = -19
	FrameTransformFailure                    ErrorCode = -21
	CollisionCheckingUnavailable             ErrorCode = -22
	RobotStateStale                          ErrorCode = -23
	SensorInfoStale                          ErrorCode = -24
	NoIKSolution                             ErrorCode = -31
)

var errorCodeNames = map[ErrorCode]string{
	Success:                                  "SUCCESS",
	Failure:                                  "FAILURE",
	PlanningFailed:                           "PLANNING_FAILED",
	InvalidMotionPlan:                        "INVALID_MOTION_PLAN",
	MotionPlanInvalidatedByEnvironmentChange: "MOTION_PLAN_INVALIDATED_BY_ENVIRONMENT_CHANGE",
	ControlFailed:                            "CONTROL_FAILED",
	UnableToAquireSensorData:                 "UNABLE_TO_AQUIRE_SENSOR_DATA",
	TimedOut:                                 "TIMED_OUT",
	Preempted:                                "PREEMPTED",
	StartStateInCollision:                    "START_STATE_IN_COLLISION",
	StartStateViolatesPathConstraints:        "START_STATE_VIOLATES_PATH_CONSTRAINTS",
	GoalInCollision:                          "GOAL_IN_COLLISION",
	GoalViolatesPathConstraints:              "GOAL_VIOLATES_PATH_CONSTRAINTS",
	GoalConstraintsViolated:                  "GOAL_CONSTRAINTS_VIOLATED",
	InvalidGroupName:                         "INVALID_GROUP_NAME",
	InvalidGoalConstraints:                   "INVALID_GOAL_CONSTRAINTS",
	InvalidRobotState:                        "INVALID_ROBOT_STATE",
	InvalidLinkName:                          "INVALID_LINK_NAME",
	InvalidObjectName:                        "INVALID_OBJECT_NAME",
	FrameTransformFailure:                    "FRAME_TRANSFORM_FAILURE",
	CollisionCheckingUnavailable:             "COLLISION_CHECKING_UNAVAILABLE",
	RobotStateStale:                          "ROBOT_STATE_STALE",
	SensorInfoStale:                          "SENSOR_INFO_STALE",
	NoIKSolution:                             "NO_IK_SOLUTION",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_ERROR_CODE(%d)", int32(c))
}

// ErrorCodes is moveit_msgs/MoveItErrorCodes.
type ErrorCodes struct {
	Val ErrorCode `json:"val"`
}

// Error is returned when a MoveIt service answers with an error code other than SUCCESS.
type Error struct {
	Service string
	Code    ErrorCode
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed with error code %s (%d)", e.Service, e.Code, int32(e.Code))
}

// NewError returns an Error for a service response.
func NewError(service string, code ErrorCode) error {
	return &Error{Service: service, Code: code}
}

// IsErrorCode reports whether err is a MoveIt error with the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var moveitErr *Error
	return errors.As(err, &moveitErr) && moveitErr.Code == code
}

func checkErrorCode(service string, codes ErrorCodes) error {
	if codes.Val == Success {
		return nil
	}
	return NewError(service, codes.Val)
}
