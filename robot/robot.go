// Package robot ties a kinematic model, its planning semantics, an optional tool and a planning
// backend together into one programmable robot.
package robot

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/fab/logging"
	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/spatialmath"
)

// Robot is a robot model together with everything needed to plan for it. Lengths in frames,
// meshes and prismatic joint values are in model units, which are meters scaled by
// ScaleFactor.
type Robot struct {
	Model     *referenceframe.Model
	Semantics *referenceframe.Semantics
	Backend   motionplan.Backend
	Tool      *Tool

	rcf    spatialmath.Frame
	logger logging.Logger
}

// New creates a robot. Semantics and backend may be nil; semantics are checked against the model.
func New(
	model *referenceframe.Model,
	semantics *referenceframe.Semantics,
	backend motionplan.Backend,
	logger logging.Logger,
) (*Robot, error) {
	if model == nil {
		return nil, referenceframe.ErrNoModelInformation
	}
	if semantics != nil {
		if err := semantics.Resolve(model); err != nil {
			return nil, errors.Wrap(err, "invalid semantics")
		}
	}
	return &Robot{
		Model:     model,
		Semantics: semantics,
		Backend:   backend,
		rcf:       spatialmath.WorldXY(),
		logger:    logger.Sublogger(model.Name()),
	}, nil
}

// Basic creates a robot whose model is a single link and that has no semantics or backend.
func Basic(name string, logger logging.Logger) (*Robot, error) {
	model, err := referenceframe.NewModel(name, []*referenceframe.Link{{Name: "base_link"}}, nil)
	if err != nil {
		return nil, err
	}
	return New(model, nil, nil, logger)
}

// Name returns the name of the model.
func (r *Robot) Name() string {
	return r.Model.Name()
}

// Logger returns the logger of the robot.
func (r *Robot) Logger() logging.Logger {
	return r.logger
}

// GroupNames returns the planning groups.
func (r *Robot) GroupNames() ([]string, error) {
	if r.Semantics == nil {
		return nil, ErrNoSemantics
	}
	return r.Semantics.GroupNames(), nil
}

// MainGroupName returns the first planning group.
func (r *Robot) MainGroupName() (string, error) {
	if r.Semantics == nil {
		return "", ErrNoSemantics
	}
	return r.Semantics.MainGroupName(), nil
}

// resolveGroup returns the main group for an empty group name when semantics are available.
func (r *Robot) resolveGroup(group string) string {
	if group == "" && r.Semantics != nil {
		return r.Semantics.MainGroupName()
	}
	return group
}

// EndEffectorLinkName returns the last link of the group, or of the whole model when there are no
// semantics.
func (r *Robot) EndEffectorLinkName(group string) (string, error) {
	if r.Semantics == nil {
		return r.Model.EndEffectorLinkName(), nil
	}
	return r.Semantics.EndEffectorLinkName(r.resolveGroup(group))
}

// BaseLinkName returns the first link of the group, or of the model's first configurable joint
// when there are no semantics.
func (r *Robot) BaseLinkName(group string) (string, error) {
	if r.Semantics == nil {
		return r.Model.BaseLinkName(), nil
	}
	return r.Semantics.BaseLinkName(r.resolveGroup(group))
}

// ConfigurableJoints returns the joints a configuration of the group sets.
func (r *Robot) ConfigurableJoints(group string) ([]*referenceframe.Joint, error) {
	if r.Semantics == nil {
		return r.Model.ConfigurableJoints(), nil
	}
	return r.Semantics.ConfigurableJoints(r.Model, r.resolveGroup(group))
}

// ConfigurableJointNames returns the names of ConfigurableJoints.
func (r *Robot) ConfigurableJointNames(group string) ([]string, error) {
	joints, err := r.ConfigurableJoints(group)
	if err != nil {
		return nil, err
	}
	return lo.Map(joints, func(j *referenceframe.Joint, _ int) string { return j.Name }), nil
}

// JointTypesByNames returns the types of the named joints.
func (r *Robot) JointTypesByNames(names []string) ([]referenceframe.JointType, error) {
	return r.Model.JointTypesByNames(names)
}

// ZeroConfiguration returns the zero configuration of the group.
func (r *Robot) ZeroConfiguration(group string) (referenceframe.Configuration, error) {
	joints, err := r.ConfigurableJoints(group)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	return referenceframe.ZeroConfiguration(joints), nil
}

// ScaleFactor returns the number of model units per meter.
func (r *Robot) ScaleFactor() float64 {
	return r.Model.ScaleFactor()
}

// Scale scales the model and the attached tool by factor.
func (r *Robot) Scale(factor float64) error {
	if err := r.Model.Scale(factor); err != nil {
		return err
	}
	r.rcf = r.rcf.Scaled(factor)
	if r.Tool != nil {
		r.Tool = r.Tool.Scaled(factor)
	}
	return nil
}

// RCF returns the robot coordinate frame expressed in world coordinates.
func (r *Robot) RCF() spatialmath.Frame {
	return r.rcf
}

// SetRCF places the robot in the world.
func (r *Robot) SetRCF(frame spatialmath.Frame) {
	r.rcf = frame
}

// WorldToRobot expresses a frame given in world coordinates in robot coordinates.
func (r *Robot) WorldToRobot(frame spatialmath.Frame) spatialmath.Frame {
	return r.worldToRobot().TransformFrame(frame)
}

// RobotToWorld expresses a frame given in robot coordinates in world coordinates.
func (r *Robot) RobotToWorld(frame spatialmath.Frame) spatialmath.Frame {
	return spatialmath.TransformationFromFrame(r.rcf).TransformFrame(frame)
}

func (r *Robot) worldToRobot() spatialmath.Transformation {
	return spatialmath.TransformationFrameToFrame(spatialmath.WorldXY(), r.rcf)
}

// AttachTool attaches a tool to the end effector link of the main group.
func (r *Robot) AttachTool(tool *Tool) error {
	if tool == nil {
		return errors.New("cannot attach a nil tool")
	}
	if tool.LinkName == "" {
		link, err := r.EndEffectorLinkName("")
		if err != nil {
			return err
		}
		tool.LinkName = link
	}
	if _, err := r.Model.LinkByName(tool.LinkName); err != nil {
		return errors.Wrapf(err, "cannot attach tool %s", tool.Name)
	}
	r.Tool = tool
	r.logger.Debugw("tool attached", "tool", tool.Name, "link", tool.LinkName)
	return nil
}

// DetachTool removes the tool.
func (r *Robot) DetachTool() {
	r.Tool = nil
}

// ToTool0Frame converts a tool center frame into the frame of the link the tool is attached to.
func (r *Robot) ToTool0Frame(tcf spatialmath.Frame) (spatialmath.Frame, error) {
	if r.Tool == nil {
		return spatialmath.Frame{}, ErrNoTool
	}
	return r.Tool.ToTool0Frame(tcf), nil
}

// FromTool0Frame converts a frame of the link the tool is attached to into the tool center frame.
func (r *Robot) FromTool0Frame(t0cf spatialmath.Frame) (spatialmath.Frame, error) {
	if r.Tool == nil {
		return spatialmath.Frame{}, ErrNoTool
	}
	return r.Tool.FromTool0Frame(t0cf), nil
}

func (r *Robot) prismaticJointNames() []string {
	return lo.FilterMap(r.Model.Joints(), func(j *referenceframe.Joint, _ int) (string, bool) {
		return j.Name, j.Type == referenceframe.Prismatic
	})
}
