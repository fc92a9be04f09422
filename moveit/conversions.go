package moveit

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/ros"
	"go.viam.com/fab/spatialmath"
)

// JointTypesByNames looks up the types of joints named in MoveIt messages.
type JointTypesByNames func(names []string) ([]referenceframe.JointType, error)

func robotState(cfg referenceframe.Configuration, header ros.Header, acms []motionplan.AttachedCollisionMesh) (RobotState, error) {
	if err := cfg.Validate(); err != nil {
		return RobotState{}, err
	}
	if !cfg.HasNames() && len(cfg.Values) > 0 {
		return RobotState{}, errors.New("start configuration needs joint names")
	}
	state := RobotState{
		JointState: ros.JointState{
			Header:   header,
			Name:     append([]string{}, cfg.Names...),
			Position: append([]float64{}, cfg.Values...),
			Velocity: []float64{},
			Effort:   []float64{},
		},
		MultiDOFJointState: ros.MultiDOFJointState{
			Header:     header,
			JointNames: []string{},
			Transforms: []ros.Transform{},
			Twist:      []ros.Twist{},
			Wrench:     []ros.Wrench{},
		},
		AttachedCollisionObjects: []AttachedCollisionObject{},
	}
	for _, acm := range acms {
		aco, err := attachedCollisionObject(acm, OperationAdd)
		if err != nil {
			return RobotState{}, err
		}
		state.AttachedCollisionObjects = append(state.AttachedCollisionObjects, aco)
	}
	return state, nil
}

func constraintsMsg(c motionplan.Constraints, header ros.Header) (Constraints, error) {
	out := Constraints{
		JointConstraints: lo.Map(c.Joints, func(jc motionplan.JointConstraint, _ int) JointConstraint {
			return JointConstraint{
				JointName:      jc.JointName,
				Position:       jc.Value,
				ToleranceAbove: jc.ToleranceAbove,
				ToleranceBelow: jc.ToleranceBelow,
				Weight:         jc.Weight,
			}
		}),
		PositionConstraints: make([]PositionConstraint, 0, len(c.Positions)),
		OrientationConstraints: lo.Map(c.Orientations, func(oc motionplan.OrientationConstraint, _ int) OrientationConstraint {
			return OrientationConstraint{
				Header:                 header,
				Orientation:            ros.QuaternionFrom(oc.Quaternion),
				LinkName:               oc.LinkName,
				AbsoluteXAxisTolerance: oc.Tolerances[0],
				AbsoluteYAxisTolerance: oc.Tolerances[1],
				AbsoluteZAxisTolerance: oc.Tolerances[2],
				Weight:                 oc.Weight,
			}
		}),
		VisibilityConstraints: []json.RawMessage{},
	}
	for _, pc := range c.Positions {
		region, err := boundingVolumeMsg(pc.Volume)
		if err != nil {
			return Constraints{}, errors.Wrapf(err, "position constraint on %s", pc.LinkName)
		}
		out.PositionConstraints = append(out.PositionConstraints, PositionConstraint{
			Header:           header,
			LinkName:         pc.LinkName,
			ConstraintRegion: region,
			Weight:           pc.Weight,
		})
	}
	return out, nil
}

func boundingVolumeMsg(bv motionplan.BoundingVolume) (BoundingVolume, error) {
	if err := bv.Validate(); err != nil {
		return BoundingVolume{}, err
	}
	out := BoundingVolume{
		Primitives:     []ros.SolidPrimitive{},
		PrimitivePoses: []ros.Pose{},
		Meshes:         []ros.Mesh{},
		MeshPoses:      []ros.Pose{},
	}
	switch bv.Type {
	case motionplan.BoxVolume:
		out.Primitives = append(out.Primitives, ros.SolidPrimitiveFromBox(*bv.Box))
		out.PrimitivePoses = append(out.PrimitivePoses, ros.PoseFromFrame(bv.Box.Frame))
	case motionplan.SphereVolume:
		out.Primitives = append(out.Primitives, ros.SolidPrimitiveFromSphere(*bv.Sphere))
		out.PrimitivePoses = append(out.PrimitivePoses, ros.PoseFromFrame(spatialmath.NewFrameFromPoint(bv.Sphere.Center)))
	case motionplan.MeshVolume:
		out.Meshes = append(out.Meshes, ros.MeshFromMesh(bv.Mesh))
		out.MeshPoses = append(out.MeshPoses, ros.IdentityPose)
	}
	return out, nil
}

func collisionObject(cm motionplan.CollisionMesh, op CollisionObjectOperation) (CollisionObject, error) {
	if err := cm.Validate(); err != nil {
		return CollisionObject{}, err
	}
	co := NewCollisionObject(cm.ID, op)
	co.Header = ros.NewHeader(cm.RootName)
	co.Meshes = append(co.Meshes, ros.MeshFromMesh(cm.Mesh))
	co.MeshPoses = append(co.MeshPoses, ros.PoseFromFrame(cm.Frame))
	return co, nil
}

func attachedCollisionObject(acm motionplan.AttachedCollisionMesh, op CollisionObjectOperation) (AttachedCollisionObject, error) {
	// the mesh pose is relative to the link it is attached to
	acm.RootName = acm.LinkName
	co, err := collisionObject(acm.CollisionMesh, op)
	if err != nil {
		return AttachedCollisionObject{}, err
	}
	return AttachedCollisionObject{
		LinkName:      acm.LinkName,
		Object:        co,
		TouchLinks:    append([]string{}, acm.TouchLinks...),
		DetachPosture: ros.JointTrajectory{Header: ros.NewHeader(""), JointNames: []string{}, Points: []ros.JointTrajectoryPoint{}},
		Weight:        acm.Weight,
	}, nil
}

func configurationFromJointState(js ros.JointState, types JointTypesByNames) (referenceframe.Configuration, error) {
	jointTypes, err := types(js.Name)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	return referenceframe.NewConfiguration(append([]float64{}, js.Position...), jointTypes, append([]string{}, js.Name...))
}

func trajectoryFromMsg(jt ros.JointTrajectory, start ros.JointState, types JointTypesByNames) (*motionplan.JointTrajectory, error) {
	jointTypes, err := types(jt.JointNames)
	if err != nil {
		return nil, err
	}
	traj := &motionplan.JointTrajectory{JointNames: jt.JointNames, Fraction: 1}
	for i, p := range jt.Points {
		cfg, err := referenceframe.NewConfiguration(p.Positions, jointTypes, jt.JointNames)
		if err != nil {
			return nil, errors.Wrapf(err, "trajectory point %d", i)
		}
		traj.Points = append(traj.Points, motionplan.JointTrajectoryPoint{
			Configuration: cfg,
			Velocities:    p.Velocities,
			Accelerations: p.Accelerations,
			Effort:        p.Effort,
			TimeFromStart: p.TimeFromStart.Duration(),
		})
	}
	if len(start.Name) > 0 {
		traj.StartConfiguration, err = configurationFromJointState(start, types)
		if err != nil {
			return nil, errors.Wrap(err, "trajectory start state")
		}
	}
	return traj, traj.Validate()
}

// TrajectoryMsg converts a trajectory to trajectory_msgs/JointTrajectory. Points without velocities
// are sent with zero velocities.
func TrajectoryMsg(traj *motionplan.JointTrajectory) (ros.JointTrajectory, error) {
	if err := traj.Validate(); err != nil {
		return ros.JointTrajectory{}, err
	}
	out := ros.JointTrajectory{
		Header:     ros.NewHeader(""),
		JointNames: traj.JointNames,
		Points:     make([]ros.JointTrajectoryPoint, 0, len(traj.Points)),
	}
	n := len(traj.JointNames)
	for _, p := range traj.Points {
		velocities := p.Velocities
		if len(velocities) == 0 {
			velocities = make([]float64, n)
		}
		out.Points = append(out.Points, ros.JointTrajectoryPoint{
			Positions:     p.Configuration.Values,
			Velocities:    velocities,
			Accelerations: orEmpty(p.Accelerations),
			Effort:        orEmpty(p.Effort),
			TimeFromStart: ros.DurationFrom(p.TimeFromStart),
		})
	}
	return out, nil
}

// TrajectoryFromMsg converts a trajectory_msgs/JointTrajectory, e.g. one replayed from a bag.
func TrajectoryFromMsg(jt ros.JointTrajectory, types JointTypesByNames) (*motionplan.JointTrajectory, error) {
	return trajectoryFromMsg(jt, ros.JointState{}, types)
}

func orEmpty(values []float64) []float64 {
	if values == nil {
		return []float64{}
	}
	return values
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
