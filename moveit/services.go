package moveit

import "go.viam.com/fab/ros"

// MoveIt services and topics.
const (
	computeIKService          = "/compute_ik"
	computeFKService          = "/compute_fk"
	cartesianPathService      = "/compute_cartesian_path"
	motionPlanService         = "/plan_kinematic_path"
	planningSceneService      = "/get_planning_scene"
	collisionObjectTopic      = "/collision_object"
	attachedCollisionTopic    = "/attached_collision_object"
	followJointTrajectoryName = "/follow_joint_trajectory"
)

type serviceDescription struct {
	name string
	typ  string
}

var (
	getPositionIK    = serviceDescription{computeIKService, "moveit_msgs/GetPositionIK"}
	getPositionFK    = serviceDescription{computeFKService, "moveit_msgs/GetPositionFK"}
	getCartesianPath = serviceDescription{cartesianPathService, "moveit_msgs/GetCartesianPath"}
	getMotionPlan    = serviceDescription{motionPlanService, "moveit_msgs/GetMotionPlan"}
	getPlanningScene = serviceDescription{planningSceneService, "moveit_msgs/GetPlanningScene"}
)

// GetPositionIKRequest is the request of moveit_msgs/GetPositionIK.
type GetPositionIKRequest struct {
	IKRequest PositionIKRequest `json:"ik_request"`
}

// GetPositionIKResponse is the response of moveit_msgs/GetPositionIK.
type GetPositionIKResponse struct {
	Solution  RobotState `json:"solution"`
	ErrorCode ErrorCodes `json:"error_code"`
}

// GetPositionFKRequest is the request of moveit_msgs/GetPositionFK.
type GetPositionFKRequest struct {
	Header      ros.Header `json:"header"`
	FKLinkNames []string   `json:"fk_link_names"`
	RobotState  RobotState `json:"robot_state"`
}

// GetPositionFKResponse is the response of moveit_msgs/GetPositionFK.
type GetPositionFKResponse struct {
	PoseStamped []ros.PoseStamped `json:"pose_stamped"`
	FKLinkNames []string          `json:"fk_link_names"`
	ErrorCode   ErrorCodes        `json:"error_code"`
}

// GetCartesianPathRequest is the request of moveit_msgs/GetCartesianPath.
type GetCartesianPathRequest struct {
	Header          ros.Header  `json:"header"`
	StartState      RobotState  `json:"start_state"`
	GroupName       string      `json:"group_name"`
	LinkName        string      `json:"link_name"`
	Waypoints       []ros.Pose  `json:"waypoints"`
	MaxStep         float64     `json:"max_step"`
	JumpThreshold   float64     `json:"jump_threshold"`
	AvoidCollisions bool        `json:"avoid_collisions"`
	PathConstraints Constraints `json:"path_constraints"`
}

// GetCartesianPathResponse is the response of moveit_msgs/GetCartesianPath.
type GetCartesianPathResponse struct {
	StartState RobotState      `json:"start_state"`
	Solution   RobotTrajectory `json:"solution"`
	Fraction   float64         `json:"fraction"`
	ErrorCode  ErrorCodes      `json:"error_code"`
}

// GetMotionPlanRequest is the request of moveit_msgs/GetMotionPlan.
type GetMotionPlanRequest struct {
	MotionPlanRequest MotionPlanRequest `json:"motion_plan_request"`
}

// GetMotionPlanResponse is the response of moveit_msgs/GetMotionPlan.
type GetMotionPlanResponse struct {
	MotionPlanResponse MotionPlanResponse `json:"motion_plan_response"`
}

// GetPlanningSceneRequest is the request of moveit_msgs/GetPlanningScene.
type GetPlanningSceneRequest struct {
	Components PlanningSceneComponents `json:"components"`
}

// GetPlanningSceneResponse is the response of moveit_msgs/GetPlanningScene.
type GetPlanningSceneResponse struct {
	Scene PlanningScene `json:"scene"`
}
