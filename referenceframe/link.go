package referenceframe

import (
	"github.com/pkg/errors"

	"go.viam.com/fab/spatialmath"
)

// Geometry is one visual or collision element of a link. Exactly one of the shape fields is set.
type Geometry struct {
	// Origin places the shape in the frame of the link.
	Origin   spatialmath.Frame     `json:"origin"`
	Box      *spatialmath.Box      `json:"box,omitempty"`
	Sphere   *spatialmath.Sphere   `json:"sphere,omitempty"`
	Cylinder *spatialmath.Cylinder `json:"cylinder,omitempty"`
	Mesh     *spatialmath.Mesh     `json:"mesh,omitempty"`
	// MeshFile refers to a mesh resource that has not been loaded, e.g. a package:// url.
	MeshFile string `json:"mesh_file,omitempty"`
}

func (g Geometry) validate() error {
	count := 0
	for _, set := range []bool{g.Box != nil, g.Sphere != nil, g.Cylinder != nil, g.Mesh != nil, g.MeshFile != ""} {
		if set {
			count++
		}
	}
	if count != 1 {
		return errors.Errorf("geometry must have exactly one shape, has %d", count)
	}
	if g.Mesh != nil {
		return g.Mesh.Validate()
	}
	return nil
}

func (g Geometry) scaled(factor float64) Geometry {
	out := Geometry{Origin: g.Origin.Scaled(factor), MeshFile: g.MeshFile}
	if g.Box != nil {
		b := g.Box.Scaled(factor)
		out.Box = &b
	}
	if g.Sphere != nil {
		s := g.Sphere.Scaled(factor)
		out.Sphere = &s
	}
	if g.Cylinder != nil {
		c := g.Cylinder.Scaled(factor)
		out.Cylinder = &c
	}
	if g.Mesh != nil {
		out.Mesh = g.Mesh.Scaled(factor)
	}
	return out
}

// Link is a rigid body of a robot.
type Link struct {
	Name      string
	Visual    []Geometry
	Collision []Geometry
	// Joints are the joints this link is the parent of, in declaration order.
	Joints []*Joint
	// ParentJoint is nil for the root link.
	ParentJoint *Joint
}

// LinkConfig is the JSON representation of a link.
type LinkConfig struct {
	Name      string     `json:"name"`
	Visual    []Geometry `json:"visual,omitempty"`
	Collision []Geometry `json:"collision,omitempty"`
}

// ParseConfig converts a LinkConfig into a Link with no joints attached.
func (cfg LinkConfig) ParseConfig() (*Link, error) {
	for _, g := range append(append([]Geometry{}, cfg.Visual...), cfg.Collision...) {
		if err := g.validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid geometry on link '%s'", cfg.Name)
		}
	}
	return &Link{Name: cfg.Name, Visual: cfg.Visual, Collision: cfg.Collision}, nil
}

func (l *Link) toConfig() LinkConfig {
	return LinkConfig{Name: l.Name, Visual: l.Visual, Collision: l.Collision}
}
