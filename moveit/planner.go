package moveit

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/fab/logging"
	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/ros"
	"go.viam.com/fab/spatialmath"
)

// defaultExecutionTimeout bounds trajectory execution when the context has no deadline and the
// trajectory is shorter.
const defaultExecutionTimeout = 3 * time.Second

// Planner is a planning backend talking to MoveIt. All lengths it sends and receives are in meters.
type Planner struct {
	client *ros.Client
	model  *referenceframe.Model
	logger logging.Logger

	mu            sync.Mutex
	trajectoryAct *ros.ActionClient
}

var _ motionplan.Backend = (*Planner)(nil)

// NewPlanner returns a planner for the robot described by model.
func NewPlanner(client *ros.Client, model *referenceframe.Model, logger logging.Logger) (*Planner, error) {
	if client == nil {
		return nil, errors.New("moveit planner needs a rosbridge client")
	}
	if model == nil {
		return nil, referenceframe.ErrNoModelInformation
	}
	return &Planner{client: client, model: model, logger: logger.Sublogger("moveit")}, nil
}

// Close releases the topics and the action client of the planner.
func (p *Planner) Close(ctx context.Context) error {
	p.mu.Lock()
	act := p.trajectoryAct
	p.trajectoryAct = nil
	p.mu.Unlock()

	err := multierr.Combine(
		p.client.Unadvertise(ctx, collisionObjectTopic),
		p.client.Unadvertise(ctx, attachedCollisionTopic),
	)
	if act != nil {
		err = multierr.Combine(err, act.Close(ctx))
	}
	return err
}

func (p *Planner) call(ctx context.Context, svc serviceDescription, req, resp interface{}) error {
	p.logger.CDebugw(ctx, "calling moveit", "service", svc.name)
	return p.client.CallService(ctx, svc.name, svc.typ, req, resp)
}

func (p *Planner) baseLink(link string) string {
	if link != "" {
		return link
	}
	return p.model.Root().Name
}

func (p *Planner) endEffectorLink(link string) string {
	if link != "" {
		return link
	}
	return p.model.EndEffectorLinkName()
}

func (p *Planner) jointTypes(names []string) ([]referenceframe.JointType, error) {
	return p.model.JointTypesByNames(names)
}

// InverseKinematics calls /compute_ik. The returned configuration has a value for every joint the
// solution names, which may include joints outside the group.
func (p *Planner) InverseKinematics(
	ctx context.Context,
	frame spatialmath.Frame,
	start referenceframe.Configuration,
	group string,
	opts motionplan.IKOptions,
) (referenceframe.Configuration, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return referenceframe.Configuration{}, err
	}
	header := ros.NewHeader(p.baseLink(opts.BaseLink))
	state, err := robotState(start, header, opts.AttachedCollisionMeshes)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	constraints, err := constraintsMsg(opts.Constraints, header)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	req := GetPositionIKRequest{IKRequest: PositionIKRequest{
		GroupName:       group,
		RobotState:      state,
		Constraints:     constraints,
		AvoidCollisions: !opts.AllowCollisions,
		IKLinkName:      opts.EndEffectorLink,
		PoseStamped:     ros.PoseStamped{Header: header, Pose: ros.PoseFromFrame(frame)},
		Timeout:         ros.DurationFrom(opts.Timeout),
		Attempts:        opts.Attempts,
	}}
	var resp GetPositionIKResponse
	if err := p.call(ctx, getPositionIK, req, &resp); err != nil {
		return referenceframe.Configuration{}, err
	}
	if err := checkErrorCode(getPositionIK.name, resp.ErrorCode); err != nil {
		return referenceframe.Configuration{}, err
	}
	return configurationFromJointState(resp.Solution.JointState, p.jointTypes)
}

// ForwardKinematics calls /compute_fk and returns the frame of the link in the base link.
func (p *Planner) ForwardKinematics(
	ctx context.Context,
	cfg referenceframe.Configuration,
	group string,
	opts motionplan.FKOptions,
) (spatialmath.Frame, error) {
	header := ros.NewHeader(p.baseLink(opts.BaseLink))
	state, err := robotState(cfg, header, nil)
	if err != nil {
		return spatialmath.Frame{}, err
	}
	link := p.endEffectorLink(opts.Link)
	req := GetPositionFKRequest{Header: header, FKLinkNames: []string{link}, RobotState: state}
	var resp GetPositionFKResponse
	if err := p.call(ctx, getPositionFK, req, &resp); err != nil {
		return spatialmath.Frame{}, err
	}
	if err := checkErrorCode(getPositionFK.name, resp.ErrorCode); err != nil {
		return spatialmath.Frame{}, err
	}
	if len(resp.PoseStamped) == 0 {
		return spatialmath.Frame{}, errors.Errorf("%s returned no pose for link %s", getPositionFK.name, link)
	}
	return resp.PoseStamped[0].Pose.Frame()
}

// PlanCartesianMotion calls /compute_cartesian_path with frames expressed in the base link.
func (p *Planner) PlanCartesianMotion(
	ctx context.Context,
	frames []spatialmath.Frame,
	start referenceframe.Configuration,
	group string,
	opts motionplan.CartesianOptions,
) (*motionplan.JointTrajectory, error) {
	if len(frames) == 0 {
		return nil, errors.New("cartesian motion needs at least one frame")
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	header := ros.NewHeader(p.baseLink(opts.BaseLink))
	state, err := robotState(start, header, opts.AttachedCollisionMeshes)
	if err != nil {
		return nil, err
	}
	pathConstraints, err := constraintsMsg(opts.PathConstraints, header)
	if err != nil {
		return nil, err
	}
	req := GetCartesianPathRequest{
		Header:          header,
		StartState:      state,
		GroupName:       group,
		LinkName:        p.endEffectorLink(opts.EndEffectorLink),
		Waypoints:       lo.Map(frames, func(f spatialmath.Frame, _ int) ros.Pose { return ros.PoseFromFrame(f) }),
		MaxStep:         opts.MaxStep,
		JumpThreshold:   opts.JumpThreshold,
		AvoidCollisions: !opts.AllowCollisions,
		PathConstraints: pathConstraints,
	}
	var resp GetCartesianPathResponse
	if err := p.call(ctx, getCartesianPath, req, &resp); err != nil {
		return nil, err
	}
	if err := checkErrorCode(getCartesianPath.name, resp.ErrorCode); err != nil {
		return nil, err
	}
	traj, err := trajectoryFromMsg(resp.Solution.JointTrajectory, resp.StartState.JointState, p.jointTypes)
	if err != nil {
		return nil, err
	}
	traj.Fraction = resp.Fraction
	traj.AttachedCollisionMeshes = opts.AttachedCollisionMeshes
	return traj, nil
}

// PlanMotion calls /plan_kinematic_path.
func (p *Planner) PlanMotion(
	ctx context.Context,
	goal motionplan.Constraints,
	start referenceframe.Configuration,
	group string,
	opts motionplan.MotionOptions,
) (*motionplan.JointTrajectory, error) {
	if goal.Empty() {
		return nil, errors.New("motion planning needs goal constraints")
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	baseLink := p.baseLink(opts.BaseLink)
	header := ros.NewHeader(baseLink)
	state, err := robotState(start, header, opts.AttachedCollisionMeshes)
	if err != nil {
		return nil, err
	}
	goalMsg, err := constraintsMsg(goal, header)
	if err != nil {
		return nil, errors.Wrap(err, "goal constraints")
	}
	pathMsg, err := constraintsMsg(opts.PathConstraints, header)
	if err != nil {
		return nil, errors.Wrap(err, "path constraints")
	}
	req := GetMotionPlanRequest{MotionPlanRequest: MotionPlanRequest{
		WorkspaceParameters:          DefaultWorkspaceParameters(baseLink),
		StartState:                   state,
		GoalConstraints:              []Constraints{goalMsg},
		PathConstraints:              pathMsg,
		TrajectoryConstraints:        TrajectoryConstraints{Constraints: []Constraints{}},
		PlannerID:                    opts.PlannerID,
		GroupName:                    group,
		NumPlanningAttempts:          opts.NumPlanningAttempts,
		AllowedPlanningTime:          opts.AllowedPlanningTime.Seconds(),
		MaxVelocityScalingFactor:     opts.MaxVelocityScaling,
		MaxAccelerationScalingFactor: opts.MaxAccelerationScaling,
	}}
	var resp GetMotionPlanResponse
	if err := p.call(ctx, getMotionPlan, req, &resp); err != nil {
		return nil, err
	}
	plan := resp.MotionPlanResponse
	if err := checkErrorCode(getMotionPlan.name, plan.ErrorCode); err != nil {
		return nil, err
	}
	traj, err := trajectoryFromMsg(plan.Trajectory.JointTrajectory, plan.TrajectoryStart.JointState, p.jointTypes)
	if err != nil {
		return nil, err
	}
	traj.PlanningTime = secondsToDuration(plan.PlanningTime)
	traj.AttachedCollisionMeshes = opts.AttachedCollisionMeshes
	return traj, nil
}

// PlanningScene calls /get_planning_scene requesting every component the snapshot reports.
func (p *Planner) PlanningScene(ctx context.Context) (*motionplan.PlanningSceneSnapshot, error) {
	scene, err := p.RawPlanningScene(ctx)
	if err != nil {
		return nil, err
	}
	state, err := configurationFromJointState(scene.RobotState.JointState, p.jointTypes)
	if err != nil {
		return nil, errors.Wrap(err, "planning scene robot state")
	}
	return &motionplan.PlanningSceneSnapshot{
		Name:       scene.Name,
		RobotState: state,
		WorldObjectIDs: lo.Map(scene.World.CollisionObjects, func(co CollisionObject, _ int) string {
			return co.ID
		}),
		AttachedObjectIDs: lo.Map(scene.RobotState.AttachedCollisionObjects, func(aco AttachedCollisionObject, _ int) string {
			return aco.Object.ID
		}),
	}, nil
}

// RawPlanningScene returns the planning scene message as MoveIt reports it.
func (p *Planner) RawPlanningScene(ctx context.Context) (*PlanningScene, error) {
	req := GetPlanningSceneRequest{Components: PlanningSceneComponents{Components: defaultSceneComponentsMask}}
	var resp GetPlanningSceneResponse
	if err := p.call(ctx, getPlanningScene, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Scene, nil
}

func (p *Planner) rootName(cm motionplan.CollisionMesh) motionplan.CollisionMesh {
	if cm.RootName == "" {
		cm.RootName = p.model.Root().Name
	}
	return cm
}

func (p *Planner) publishCollisionMesh(ctx context.Context, cm motionplan.CollisionMesh, op CollisionObjectOperation) error {
	co, err := collisionObject(p.rootName(cm), op)
	if err != nil {
		return err
	}
	p.logger.Debugw("updating planning scene", "id", cm.ID, "operation", op)
	return p.client.Publish(ctx, collisionObjectTopic, co)
}

// AddCollisionMesh adds a mesh to the planning scene, replacing any object with the same id.
func (p *Planner) AddCollisionMesh(ctx context.Context, cm motionplan.CollisionMesh) error {
	return p.publishCollisionMesh(ctx, cm, OperationAdd)
}

// AppendCollisionMesh adds the geometry of a mesh to the object with the same id.
func (p *Planner) AppendCollisionMesh(ctx context.Context, cm motionplan.CollisionMesh) error {
	return p.publishCollisionMesh(ctx, cm, OperationAppend)
}

// RemoveCollisionMesh removes an object from the planning scene.
func (p *Planner) RemoveCollisionMesh(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("cannot remove a collision mesh without an id")
	}
	return p.client.Publish(ctx, collisionObjectTopic, NewCollisionObject(id, OperationRemove))
}

// AddAttachedCollisionMesh attaches a mesh to a robot link.
func (p *Planner) AddAttachedCollisionMesh(ctx context.Context, acm motionplan.AttachedCollisionMesh) error {
	aco, err := attachedCollisionObject(acm, OperationAdd)
	if err != nil {
		return err
	}
	p.logger.Debugw("attaching collision mesh", "id", acm.ID, "link", acm.LinkName)
	return p.client.Publish(ctx, attachedCollisionTopic, aco)
}

// RemoveAttachedCollisionMesh detaches a mesh from whichever link it is attached to and removes it.
func (p *Planner) RemoveAttachedCollisionMesh(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("cannot remove an attached collision mesh without an id")
	}
	aco := AttachedCollisionObject{
		Object:        NewCollisionObject(id, OperationRemove),
		TouchLinks:    []string{},
		DetachPosture: ros.JointTrajectory{Header: ros.NewHeader(""), JointNames: []string{}, Points: []ros.JointTrajectoryPoint{}},
	}
	return p.client.Publish(ctx, attachedCollisionTopic, aco)
}

func (p *Planner) trajectoryAction(ctx context.Context) (*ros.ActionClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.trajectoryAct != nil {
		return p.trajectoryAct, nil
	}
	act, err := ros.NewActionClient(ctx, p.client, followJointTrajectoryName, ros.FollowJointTrajectoryAction, p.logger)
	if err != nil {
		return nil, err
	}
	p.trajectoryAct = act
	return act, nil
}

// FollowJointTrajectory executes a trajectory through the follow_joint_trajectory action and waits
// for it to finish. Without a context deadline, execution may take twice the trajectory duration
// and at least three seconds.
func (p *Planner) FollowJointTrajectory(ctx context.Context, traj *motionplan.JointTrajectory) error {
	msg, err := TrajectoryMsg(traj)
	if err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		timeout := 2 * traj.TimeFromStart()
		if timeout < defaultExecutionTimeout {
			timeout = defaultExecutionTimeout
		}
		var cancel context.CancelFunc
		ctx, cancel = p.client.Clock().WithTimeout(ctx, timeout)
		defer cancel()
	}
	act, err := p.trajectoryAction(ctx)
	if err != nil {
		return err
	}
	goal, err := act.SendGoal(ctx, ros.FollowJointTrajectoryGoal{
		Trajectory:    msg,
		PathTolerance: []ros.JointTolerance{},
		GoalTolerance: []ros.JointTolerance{},
	}, nil)
	if err != nil {
		return err
	}
	var result ros.FollowJointTrajectoryResult
	status, err := goal.Wait(ctx, &result)
	if err != nil {
		if ctx.Err() != nil {
			// a goal left running would keep moving the robot
			cancelCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			err = multierr.Combine(err, goal.Cancel(cancelCtx))
		}
		return err
	}
	if err := result.Err(); err != nil {
		return err
	}
	if status != ros.GoalSucceeded {
		return errors.Errorf("trajectory execution ended with status %s", status)
	}
	return nil
}

// FollowConfigurations moves through configurations, reaching each at the matching time from
// start with zero velocity.
func (p *Planner) FollowConfigurations(
	ctx context.Context,
	jointNames []string,
	configurations []referenceframe.Configuration,
	timesteps []time.Duration,
) error {
	traj, err := motionplan.NewTimedTrajectory(jointNames, configurations, timesteps)
	if err != nil {
		return err
	}
	return p.FollowJointTrajectory(ctx, traj)
}

// DirectURMoveL sends a URScript program moving linearly through frames, in meters in the robot
// base frame, to the UR driver. Zero parameters are left to the controller.
func (p *Planner) DirectURMoveL(ctx context.Context, frames []spatialmath.Frame, acceleration, velocity, duration, radius float64) error {
	if len(frames) == 0 {
		return errors.New("movel needs at least one frame")
	}
	script := ros.NewMoveLScript(frames, acceleration, velocity, duration, radius)
	return p.client.Publish(ctx, ros.URScriptTopic, script.Message())
}
