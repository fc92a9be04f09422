package robot

import (
	"github.com/pkg/errors"

	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/spatialmath"
)

// Tool is an end effector attached to a robot link. Frame is the tool center frame expressed in
// the frame of that link.
type Tool struct {
	Name      string
	Visual    *spatialmath.Mesh
	Collision *spatialmath.Mesh
	Frame     spatialmath.Frame
	// LinkName is the link the tool hangs from; empty means the end effector of the main group.
	LinkName   string
	TouchLinks []string
}

// NewTool creates a tool. The collision mesh defaults to the visual mesh.
func NewTool(name string, visual, collision *spatialmath.Mesh, frame spatialmath.Frame) (*Tool, error) {
	if name == "" {
		return nil, errors.New("tool needs a name")
	}
	if visual == nil {
		return nil, errors.Errorf("tool %s needs a visual mesh", name)
	}
	if err := visual.Validate(); err != nil {
		return nil, errors.Wrapf(err, "tool %s", name)
	}
	if collision == nil {
		collision = visual
	} else if err := collision.Validate(); err != nil {
		return nil, errors.Wrapf(err, "tool %s", name)
	}
	return &Tool{Name: name, Visual: visual, Collision: collision, Frame: frame}, nil
}

// Scaled returns a copy with meshes and frame scaled by factor.
func (t *Tool) Scaled(factor float64) *Tool {
	out := *t
	out.Visual = t.Visual.Scaled(factor)
	out.Collision = t.Collision.Scaled(factor)
	out.Frame = t.Frame.Scaled(factor)
	return &out
}

// AttachedCollisionMesh returns the collision mesh of the tool attached to its link.
func (t *Tool) AttachedCollisionMesh() (motionplan.AttachedCollisionMesh, error) {
	cm, err := motionplan.NewCollisionMesh(t.Name, t.Collision, spatialmath.WorldXY(), t.LinkName)
	if err != nil {
		return motionplan.AttachedCollisionMesh{}, err
	}
	return motionplan.NewAttachedCollisionMesh(cm, t.LinkName, t.TouchLinks, 1)
}

// ToTool0Frame returns the frame of the tool link for a tool center frame; both share coordinates.
func (t *Tool) ToTool0Frame(tcf spatialmath.Frame) spatialmath.Frame {
	toolInLink := spatialmath.TransformationFromFrame(t.Frame)
	return spatialmath.TransformationFromFrame(tcf).Mul(toolInLink.Inverse()).TransformFrame(spatialmath.WorldXY())
}

// FromTool0Frame returns the tool center frame for a frame of the tool link.
func (t *Tool) FromTool0Frame(t0cf spatialmath.Frame) spatialmath.Frame {
	return spatialmath.TransformationFromFrame(t0cf).TransformFrame(t.Frame)
}
