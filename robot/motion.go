package robot

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/spatialmath"
)

func (r *Robot) backend() (motionplan.Backend, error) {
	if r.Backend == nil {
		return nil, ErrNoClient
	}
	return r.Backend, nil
}

// toMeters is the factor that converts model units to meters.
func (r *Robot) toMeters() float64 {
	return 1 / r.Model.ScaleFactor()
}

// startConfiguration fills in the zero configuration of the group for an empty start and checks
// that a given one has a value for every configurable joint of the group.
func (r *Robot) startConfiguration(start referenceframe.Configuration, group string) (referenceframe.Configuration, error) {
	joints, err := r.ConfigurableJoints(group)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	if len(start.Values) == 0 {
		return referenceframe.ZeroConfiguration(joints), nil
	}
	if err := start.Validate(); err != nil {
		return referenceframe.Configuration{}, err
	}
	if len(start.Values) != len(joints) {
		return referenceframe.Configuration{}, NewStartConfigurationError(group, len(start.Values), len(joints))
	}
	if !start.HasNames() {
		start = start.Copy()
		start.Names = lo.Map(joints, func(j *referenceframe.Joint, _ int) string { return j.Name })
	}
	return start, nil
}

// groupConfiguration picks the values of the configurable joints of the group out of a backend
// result.
func (r *Robot) groupConfiguration(cfg referenceframe.Configuration, group string) (referenceframe.Configuration, error) {
	joints, err := r.ConfigurableJoints(group)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	values, err := cfg.JointDict()
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	out := referenceframe.ZeroConfiguration(joints)
	for i, name := range out.Names {
		v, ok := values[name]
		if !ok {
			return referenceframe.Configuration{}, NewMissingJointValueError(name)
		}
		out.Values[i] = v
	}
	return out, nil
}

// attachedMeshes returns the meshes in meters, with the tool appended when one is attached.
func (r *Robot) attachedMeshes(acms []motionplan.AttachedCollisionMesh) ([]motionplan.AttachedCollisionMesh, error) {
	out := make([]motionplan.AttachedCollisionMesh, 0, len(acms)+1)
	for _, acm := range acms {
		out = append(out, acm.Scaled(r.toMeters()))
	}
	if r.Tool != nil {
		acm, err := r.Tool.AttachedCollisionMesh()
		if err != nil {
			return nil, err
		}
		out = append(out, acm.Scaled(r.toMeters()))
	}
	return out, nil
}

// backendConstraints moves constraints given in world coordinates and model units into robot
// coordinates and meters.
func (r *Robot) backendConstraints(c motionplan.Constraints) motionplan.Constraints {
	return c.Transformed(r.worldToRobot()).Scaled(r.toMeters(), r.prismaticJointNames())
}

// backendFrame moves a target frame of the tool center given in world coordinates into robot
// coordinates and meters, targeting the tool link when a tool is attached.
func (r *Robot) backendFrame(frame spatialmath.Frame) spatialmath.Frame {
	frame = r.WorldToRobot(frame)
	if r.Tool != nil {
		frame = r.Tool.ToTool0Frame(frame)
	}
	return frame.Scaled(r.toMeters())
}

// InverseKinematics finds a configuration of the group that places the end effector, or the tool
// center when a tool is attached, at frame given in world coordinates. An empty group means the
// main group and an empty start means the zero configuration.
func (r *Robot) InverseKinematics(
	ctx context.Context,
	frame spatialmath.Frame,
	start referenceframe.Configuration,
	group string,
	opts motionplan.IKOptions,
) (referenceframe.Configuration, error) {
	b, err := r.backend()
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return referenceframe.Configuration{}, err
	}
	group = r.resolveGroup(group)
	start, err = r.startConfiguration(start, group)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	if opts.EndEffectorLink == "" && r.Tool != nil {
		opts.EndEffectorLink = r.Tool.LinkName
	}
	opts.Constraints = r.backendConstraints(opts.Constraints)
	if opts.AttachedCollisionMeshes, err = r.attachedMeshes(opts.AttachedCollisionMeshes); err != nil {
		return referenceframe.Configuration{}, err
	}

	cfg, err := b.InverseKinematics(ctx, r.backendFrame(frame), start.Scaled(r.toMeters()), group, opts)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	cfg, err = r.groupConfiguration(cfg, group)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	return cfg.Scaled(r.ScaleFactor()), nil
}

// ForwardKinematics returns the frame, in world coordinates, of the end effector of the group or
// of opts.Link. With a tool attached and no link given, the tool center frame is returned.
func (r *Robot) ForwardKinematics(
	ctx context.Context,
	cfg referenceframe.Configuration,
	group string,
	opts motionplan.FKOptions,
) (spatialmath.Frame, error) {
	b, err := r.backend()
	if err != nil {
		return spatialmath.Frame{}, err
	}
	group = r.resolveGroup(group)
	cfg, err = r.startConfiguration(cfg, group)
	if err != nil {
		return spatialmath.Frame{}, err
	}
	toolCenter := opts.Link == "" && r.Tool != nil
	if opts.Link == "" {
		if toolCenter {
			opts.Link = r.Tool.LinkName
		} else if opts.Link, err = r.EndEffectorLinkName(group); err != nil {
			return spatialmath.Frame{}, err
		}
	}

	frame, err := b.ForwardKinematics(ctx, cfg.Scaled(r.toMeters()), group, opts)
	if err != nil {
		return spatialmath.Frame{}, err
	}
	frame = frame.Scaled(r.ScaleFactor())
	if toolCenter {
		frame = r.Tool.FromTool0Frame(frame)
	}
	return r.RobotToWorld(frame), nil
}

// PlanCartesianMotion plans a linear motion of the end effector, or the tool center, through frames
// given in world coordinates.
func (r *Robot) PlanCartesianMotion(
	ctx context.Context,
	frames []spatialmath.Frame,
	start referenceframe.Configuration,
	group string,
	opts motionplan.CartesianOptions,
) (*motionplan.JointTrajectory, error) {
	b, err := r.backend()
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, errors.New("cartesian motion needs at least one frame")
	}
	group = r.resolveGroup(group)
	start, err = r.startConfiguration(start, group)
	if err != nil {
		return nil, err
	}
	if opts.EndEffectorLink == "" && r.Tool != nil {
		opts.EndEffectorLink = r.Tool.LinkName
	}
	opts.MaxStep *= r.toMeters()
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.PathConstraints = r.backendConstraints(opts.PathConstraints)
	if opts.AttachedCollisionMeshes, err = r.attachedMeshes(opts.AttachedCollisionMeshes); err != nil {
		return nil, err
	}

	targets := lo.Map(frames, func(f spatialmath.Frame, _ int) spatialmath.Frame { return r.backendFrame(f) })
	traj, err := b.PlanCartesianMotion(ctx, targets, start.Scaled(r.toMeters()), group, opts)
	if err != nil {
		return nil, err
	}
	if traj.Fraction < 1 {
		r.logger.Warnw("cartesian path is incomplete", "fraction", traj.Fraction)
	}
	return traj.Scaled(r.ScaleFactor()), nil
}

// PlanMotion plans a free motion of the group to a configuration satisfying goal, whose frames are
// given in world coordinates.
func (r *Robot) PlanMotion(
	ctx context.Context,
	goal motionplan.Constraints,
	start referenceframe.Configuration,
	group string,
	opts motionplan.MotionOptions,
) (*motionplan.JointTrajectory, error) {
	b, err := r.backend()
	if err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	group = r.resolveGroup(group)
	start, err = r.startConfiguration(start, group)
	if err != nil {
		return nil, err
	}
	opts.PathConstraints = r.backendConstraints(opts.PathConstraints)
	if opts.AttachedCollisionMeshes, err = r.attachedMeshes(opts.AttachedCollisionMeshes); err != nil {
		return nil, err
	}

	traj, err := b.PlanMotion(ctx, r.backendConstraints(goal), start.Scaled(r.toMeters()), group, opts)
	if err != nil {
		return nil, err
	}
	return traj.Scaled(r.ScaleFactor()), nil
}

// FollowTrajectory executes a trajectory planned for this robot.
func (r *Robot) FollowTrajectory(ctx context.Context, trajectory *motionplan.JointTrajectory) error {
	b, err := r.backend()
	if err != nil {
		return err
	}
	if trajectory == nil || len(trajectory.Points) == 0 {
		return errors.New("cannot follow an empty trajectory")
	}
	return b.FollowJointTrajectory(ctx, trajectory.Scaled(r.toMeters()))
}
