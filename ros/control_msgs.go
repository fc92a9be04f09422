package ros

import (
	"fmt"

	"github.com/pkg/errors"
)

// FollowJointTrajectoryAction is the action type of joint trajectory controllers.
const FollowJointTrajectoryAction = "control_msgs/FollowJointTrajectoryAction"

// JointTolerance is control_msgs/JointTolerance.
type JointTolerance struct {
	Name         string  `json:"name"`
	Position     float64 `json:"position"`
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
}

// FollowJointTrajectoryGoal is control_msgs/FollowJointTrajectoryGoal.
type FollowJointTrajectoryGoal struct {
	Trajectory        JointTrajectory  `json:"trajectory"`
	PathTolerance     []JointTolerance `json:"path_tolerance"`
	GoalTolerance     []JointTolerance `json:"goal_tolerance"`
	GoalTimeTolerance Duration         `json:"goal_time_tolerance"`
}

// FollowJointTrajectoryFeedback is control_msgs/FollowJointTrajectoryFeedback.
type FollowJointTrajectoryFeedback struct {
	Header     Header               `json:"header"`
	JointNames []string             `json:"joint_names"`
	Desired    JointTrajectoryPoint `json:"desired"`
	Actual     JointTrajectoryPoint `json:"actual"`
	Error      JointTrajectoryPoint `json:"error"`
}

// TrajectoryErrorCode is the error_code of a FollowJointTrajectoryResult.
type TrajectoryErrorCode int32

// trajectory execution results.
const (
	TrajectorySuccessful            TrajectoryErrorCode = 0
	TrajectoryInvalidGoal           TrajectoryErrorCode = -1
	TrajectoryInvalidJoints         TrajectoryErrorCode = -2
	TrajectoryOldHeaderTimestamp    TrajectoryErrorCode = -3
	TrajectoryPathToleranceViolated TrajectoryErrorCode = -4
	TrajectoryGoalToleranceViolated TrajectoryErrorCode = -5
)

func (c TrajectoryErrorCode) String() string {
	switch c {
	case TrajectorySuccessful:
		return "SUCCESSFUL"
	case TrajectoryInvalidGoal:
		return "INVALID_GOAL"
	case TrajectoryInvalidJoints:
		return "INVALID_JOINTS"
	case TrajectoryOldHeaderTimestamp:
		return "OLD_HEADER_TIMESTAMP"
	case TrajectoryPathToleranceViolated:
		return "PATH_TOLERANCE_VIOLATED"
	case TrajectoryGoalToleranceViolated:
		return "GOAL_TOLERANCE_VIOLATED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(c))
	}
}

// FollowJointTrajectoryResult is control_msgs/FollowJointTrajectoryResult.
type FollowJointTrajectoryResult struct {
	ErrorCode   TrajectoryErrorCode `json:"error_code"`
	ErrorString string              `json:"error_string"`
}

// Err returns nil when the trajectory was executed successfully.
func (r FollowJointTrajectoryResult) Err() error {
	if r.ErrorCode == TrajectorySuccessful {
		return nil
	}
	if r.ErrorString == "" {
		return errors.Errorf("trajectory execution failed: %s", r.ErrorCode)
	}
	return errors.Errorf("trajectory execution failed: %s: %s", r.ErrorCode, r.ErrorString)
}
