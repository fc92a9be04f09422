package motionplan

import (
	"github.com/pkg/errors"

	"go.viam.com/fab/spatialmath"
)

// DefaultAttachLink is the link a mesh is attached to when none is given.
const DefaultAttachLink = "ee_link"

// CollisionMesh is an obstacle placed in the planning scene. The mesh vertices are expressed in
// Frame, which itself is expressed in the frame of the link named RootName.
type CollisionMesh struct {
	ID       string
	Mesh     *spatialmath.Mesh
	Frame    spatialmath.Frame
	RootName string
}

// NewCollisionMesh creates a collision mesh placed at frame. An empty root name is filled in by the
// planning scene.
func NewCollisionMesh(id string, mesh *spatialmath.Mesh, frame spatialmath.Frame, rootName string) (CollisionMesh, error) {
	cm := CollisionMesh{ID: id, Mesh: mesh, Frame: frame, RootName: rootName}
	if err := cm.Validate(); err != nil {
		return CollisionMesh{}, err
	}
	return cm, nil
}

// Validate checks that the mesh has an id and valid geometry.
func (cm CollisionMesh) Validate() error {
	if cm.ID == "" {
		return errors.New("collision mesh needs an id")
	}
	if cm.Mesh == nil {
		return errors.Errorf("collision mesh '%s' has no mesh", cm.ID)
	}
	if err := cm.Frame.Validate(); err != nil {
		return errors.Wrapf(err, "collision mesh '%s'", cm.ID)
	}
	return errors.Wrapf(cm.Mesh.Validate(), "collision mesh '%s'", cm.ID)
}

// Scaled returns a copy with the mesh and the frame origin multiplied by factor.
func (cm CollisionMesh) Scaled(factor float64) CollisionMesh {
	out := cm
	if cm.Mesh != nil {
		out.Mesh = cm.Mesh.Scaled(factor)
	}
	out.Frame = cm.Frame.Scaled(factor)
	return out
}

// AttachedCollisionMesh is a collision mesh that moves with a robot link. Collisions between the
// mesh and TouchLinks are ignored.
type AttachedCollisionMesh struct {
	CollisionMesh
	LinkName   string
	TouchLinks []string
	Weight     float64
}

// NewAttachedCollisionMesh attaches a collision mesh to a link. An empty link name means
// DefaultAttachLink, no touch links means the attach link itself and a zero weight means 1.
func NewAttachedCollisionMesh(cm CollisionMesh, linkName string, touchLinks []string, weight float64) (AttachedCollisionMesh, error) {
	if err := cm.Validate(); err != nil {
		return AttachedCollisionMesh{}, err
	}
	if linkName == "" {
		linkName = DefaultAttachLink
	}
	if len(touchLinks) == 0 {
		touchLinks = []string{linkName}
	}
	if weight == 0 {
		weight = 1
	}
	if weight < 0 {
		return AttachedCollisionMesh{}, errors.Errorf("attached mesh weight must not be negative, got %v", weight)
	}
	return AttachedCollisionMesh{CollisionMesh: cm, LinkName: linkName, TouchLinks: touchLinks, Weight: weight}, nil
}

// Scaled returns a copy with the underlying collision mesh scaled.
func (acm AttachedCollisionMesh) Scaled(factor float64) AttachedCollisionMesh {
	out := acm
	out.CollisionMesh = acm.CollisionMesh.Scaled(factor)
	return out
}
