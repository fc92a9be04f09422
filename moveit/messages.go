// Package moveit implements a planning backend on top of MoveIt, reached through a rosbridge
// client. It converts planning requests into moveit_msgs service calls and topic messages and
// converts the answers back.
package moveit

import (
	"encoding/json"

	"go.viam.com/fab/ros"
)

// CollisionObjectOperation is what a CollisionObject message does to the planning scene.
type CollisionObjectOperation int8

// collision object operations.
const (
	OperationAdd    CollisionObjectOperation = 0
	OperationRemove CollisionObjectOperation = 1
	OperationAppend CollisionObjectOperation = 2
	OperationMove   CollisionObjectOperation = 3
)

// CollisionObject is moveit_msgs/CollisionObject.
type CollisionObject struct {
	Header         ros.Header               `json:"header"`
	ID             string                   `json:"id"`
	Type           ros.ObjectType           `json:"type"`
	Primitives     []ros.SolidPrimitive     `json:"primitives"`
	PrimitivePoses []ros.Pose               `json:"primitive_poses"`
	Meshes         []ros.Mesh               `json:"meshes"`
	MeshPoses      []ros.Pose               `json:"mesh_poses"`
	Planes         []ros.Plane              `json:"planes"`
	PlanePoses     []ros.Pose               `json:"plane_poses"`
	Operation      CollisionObjectOperation `json:"operation"`
}

// NewCollisionObject returns an empty collision object with the given id.
func NewCollisionObject(id string, op CollisionObjectOperation) CollisionObject {
	return CollisionObject{
		Header:         ros.NewHeader(""),
		ID:             id,
		Primitives:     []ros.SolidPrimitive{},
		PrimitivePoses: []ros.Pose{},
		Meshes:         []ros.Mesh{},
		MeshPoses:      []ros.Pose{},
		Planes:         []ros.Plane{},
		PlanePoses:     []ros.Pose{},
		Operation:      op,
	}
}

// ROSType returns moveit_msgs/CollisionObject.
func (CollisionObject) ROSType() string { return "moveit_msgs/CollisionObject" }

// AttachedCollisionObject is moveit_msgs/AttachedCollisionObject.
type AttachedCollisionObject struct {
	LinkName      string              `json:"link_name"`
	Object        CollisionObject     `json:"object"`
	TouchLinks    []string            `json:"touch_links"`
	DetachPosture ros.JointTrajectory `json:"detach_posture"`
	Weight        float64             `json:"weight"`
}

// ROSType returns moveit_msgs/AttachedCollisionObject.
func (AttachedCollisionObject) ROSType() string { return "moveit_msgs/AttachedCollisionObject" }

// JointConstraint is moveit_msgs/JointConstraint.
type JointConstraint struct {
	JointName      string  `json:"joint_name"`
	Position       float64 `json:"position"`
	ToleranceAbove float64 `json:"tolerance_above"`
	ToleranceBelow float64 `json:"tolerance_below"`
	Weight         float64 `json:"weight"`
}

// BoundingVolume is moveit_msgs/BoundingVolume.
type BoundingVolume struct {
	Primitives     []ros.SolidPrimitive `json:"primitives"`
	PrimitivePoses []ros.Pose           `json:"primitive_poses"`
	Meshes         []ros.Mesh           `json:"meshes"`
	MeshPoses      []ros.Pose           `json:"mesh_poses"`
}

// PositionConstraint is moveit_msgs/PositionConstraint.
type PositionConstraint struct {
	Header            ros.Header     `json:"header"`
	LinkName          string         `json:"link_name"`
	TargetPointOffset ros.Vector3    `json:"target_point_offset"`
	ConstraintRegion  BoundingVolume `json:"constraint_region"`
	Weight            float64        `json:"weight"`
}

// OrientationConstraint is moveit_msgs/OrientationConstraint.
type OrientationConstraint struct {
	Header                 ros.Header     `json:"header"`
	Orientation            ros.Quaternion `json:"orientation"`
	LinkName               string         `json:"link_name"`
	AbsoluteXAxisTolerance float64        `json:"absolute_x_axis_tolerance"`
	AbsoluteYAxisTolerance float64        `json:"absolute_y_axis_tolerance"`
	AbsoluteZAxisTolerance float64        `json:"absolute_z_axis_tolerance"`
	Weight                 float64        `json:"weight"`
}

// Constraints is moveit_msgs/Constraints. Visibility constraints are never sent.
type Constraints struct {
	Name                   string                  `json:"name"`
	JointConstraints       []JointConstraint       `json:"joint_constraints"`
	PositionConstraints    []PositionConstraint    `json:"position_constraints"`
	OrientationConstraints []OrientationConstraint `json:"orientation_constraints"`
	VisibilityConstraints  []json.RawMessage       `json:"visibility_constraints"`
}

// TrajectoryConstraints is moveit_msgs/TrajectoryConstraints.
type TrajectoryConstraints struct {
	Constraints []Constraints `json:"constraints"`
}

// RobotState is moveit_msgs/RobotState.
type RobotState struct {
	JointState               ros.JointState            `json:"joint_state"`
	MultiDOFJointState       ros.MultiDOFJointState    `json:"multi_dof_joint_state"`
	AttachedCollisionObjects []AttachedCollisionObject `json:"attached_collision_objects"`
	IsDiff                   bool                      `json:"is_diff"`
}

// RobotTrajectory is moveit_msgs/RobotTrajectory.
type RobotTrajectory struct {
	JointTrajectory         ros.JointTrajectory         `json:"joint_trajectory"`
	MultiDOFJointTrajectory ros.MultiDOFJointTrajectory `json:"multi_dof_joint_trajectory"`
}

// PositionIKRequest is moveit_msgs/PositionIKRequest.
type PositionIKRequest struct {
	GroupName       string          `json:"group_name"`
	RobotState      RobotState      `json:"robot_state"`
	Constraints     Constraints     `json:"constraints"`
	AvoidCollisions bool            `json:"avoid_collisions"`
	IKLinkName      string          `json:"ik_link_name"`
	PoseStamped     ros.PoseStamped `json:"pose_stamped"`
	Timeout         ros.Duration    `json:"timeout"`
	Attempts        int             `json:"attempts"`
}

// WorkspaceParameters is moveit_msgs/WorkspaceParameters.
type WorkspaceParameters struct {
	Header    ros.Header  `json:"header"`
	MinCorner ros.Vector3 `json:"min_corner"`
	MaxCorner ros.Vector3 `json:"max_corner"`
}

// DefaultWorkspaceParameters returns a workspace of 200 meters around the origin of frameID.
func DefaultWorkspaceParameters(frameID string) WorkspaceParameters {
	return WorkspaceParameters{
		Header:    ros.NewHeader(frameID),
		MinCorner: ros.Vector3{X: -100, Y: -100, Z: -100},
		MaxCorner: ros.Vector3{X: 100, Y: 100, Z: 100},
	}
}

// MotionPlanRequest is moveit_msgs/MotionPlanRequest.
type MotionPlanRequest struct {
	WorkspaceParameters          WorkspaceParameters   `json:"workspace_parameters"`
	StartState                   RobotState            `json:"start_state"`
	GoalConstraints              []Constraints         `json:"goal_constraints"`
	PathConstraints              Constraints           `json:"path_constraints"`
	TrajectoryConstraints        TrajectoryConstraints `json:"trajectory_constraints"`
	PlannerID                    string                `json:"planner_id"`
	GroupName                    string                `json:"group_name"`
	NumPlanningAttempts          int                   `json:"num_planning_attempts"`
	AllowedPlanningTime          float64               `json:"allowed_planning_time"`
	MaxVelocityScalingFactor     float64               `json:"max_velocity_scaling_factor"`
	MaxAccelerationScalingFactor float64               `json:"max_acceleration_scaling_factor"`
}

// MotionPlanResponse is moveit_msgs/MotionPlanResponse.
type MotionPlanResponse struct {
	TrajectoryStart RobotState      `json:"trajectory_start"`
	GroupName       string          `json:"group_name"`
	Trajectory      RobotTrajectory `json:"trajectory"`
	PlanningTime    float64         `json:"planning_time"`
	ErrorCode       ErrorCodes      `json:"error_code"`
}

// PlanningSceneComponents is moveit_msgs/PlanningSceneComponents, a bitmask of scene parts.
type PlanningSceneComponents struct {
	Components uint32 `json:"components"`
}

// planning scene components.
const (
	SceneSettings              uint32 = 1
	RobotStateComponent        uint32 = 2
	RobotStateAttachedObjects  uint32 = 4
	WorldObjectNames           uint32 = 8
	WorldObjectGeometry        uint32 = 16
	Octomap                    uint32 = 32
	Transforms                 uint32 = 64
	AllowedCollisionMatrix     uint32 = 128
	LinkPaddingAndScaling      uint32 = 256
	ObjectColors               uint32 = 512
	defaultSceneComponentsMask        = SceneSettings | RobotStateComponent | RobotStateAttachedObjects |
		WorldObjectNames | WorldObjectGeometry | AllowedCollisionMatrix | ObjectColors
)

// PlanningSceneWorld is moveit_msgs/PlanningSceneWorld.
type PlanningSceneWorld struct {
	CollisionObjects []CollisionObject `json:"collision_objects"`
	Octomap          json.RawMessage   `json:"octomap,omitempty"`
}

// PlanningScene is moveit_msgs/PlanningScene. Parts this package does not interpret are kept raw.
type PlanningScene struct {
	Name                   string             `json:"name"`
	RobotState             RobotState         `json:"robot_state"`
	RobotModelName         string             `json:"robot_model_name"`
	FixedFrameTransforms   json.RawMessage    `json:"fixed_frame_transforms,omitempty"`
	AllowedCollisionMatrix json.RawMessage    `json:"allowed_collision_matrix,omitempty"`
	LinkPadding            json.RawMessage    `json:"link_padding,omitempty"`
	LinkScale              json.RawMessage    `json:"link_scale,omitempty"`
	ObjectColors           json.RawMessage    `json:"object_colors,omitempty"`
	World                  PlanningSceneWorld `json:"world"`
	IsDiff                 bool               `json:"is_diff"`
}
