package ros

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/fab/spatialmath"
)

// MeshTriangle is shape_msgs/MeshTriangle.
type MeshTriangle struct {
	VertexIndices [3]int `json:"vertex_indices"`
}

// Mesh is shape_msgs/Mesh.
type Mesh struct {
	Triangles []MeshTriangle `json:"triangles"`
	Vertices  []Point        `json:"vertices"`
}

// MeshFromMesh converts a triangle mesh.
func MeshFromMesh(m *spatialmath.Mesh) Mesh {
	return Mesh{
		Triangles: lo.Map(m.Faces, func(f [3]int, _ int) MeshTriangle { return MeshTriangle{VertexIndices: f} }),
		Vertices:  lo.Map(m.Vertices, func(v r3.Vector, _ int) Point { return PointFrom(v) }),
	}
}

// ToMesh converts the message back to a triangle mesh.
func (m Mesh) ToMesh() (*spatialmath.Mesh, error) {
	return spatialmath.NewMesh(
		lo.Map(m.Vertices, func(p Point, _ int) r3.Vector { return p.Vector() }),
		lo.Map(m.Triangles, func(t MeshTriangle, _ int) [3]int { return t.VertexIndices }),
	)
}

// ROSType returns shape_msgs/Mesh.
func (Mesh) ROSType() string { return "shape_msgs/Mesh" }

// SolidPrimitiveType enumerates the shapes of a SolidPrimitive.
type SolidPrimitiveType uint8

// solid primitive types.
const (
	PrimitiveBox      SolidPrimitiveType = 1
	PrimitiveSphere   SolidPrimitiveType = 2
	PrimitiveCylinder SolidPrimitiveType = 3
	PrimitiveCone     SolidPrimitiveType = 4
)

// indices into SolidPrimitive.Dimensions.
const (
	BoxX           = 0
	BoxY           = 1
	BoxZ           = 2
	SphereRadius   = 0
	CylinderHeight = 0
	CylinderRadius = 1
	ConeHeight     = 0
	ConeRadius     = 1
)

// SolidPrimitive is shape_msgs/SolidPrimitive.
type SolidPrimitive struct {
	Type       SolidPrimitiveType `json:"type"`
	Dimensions []float64          `json:"dimensions"`
}

// SolidPrimitiveFromBox returns the primitive of a box, leaving its pose to the caller.
func SolidPrimitiveFromBox(b spatialmath.Box) SolidPrimitive {
	return SolidPrimitive{Type: PrimitiveBox, Dimensions: []float64{b.XSize, b.YSize, b.ZSize}}
}

// SolidPrimitiveFromSphere returns the primitive of a sphere.
func SolidPrimitiveFromSphere(s spatialmath.Sphere) SolidPrimitive {
	return SolidPrimitive{Type: PrimitiveSphere, Dimensions: []float64{s.Radius}}
}

// SolidPrimitiveFromCylinder returns the primitive of a cylinder.
func SolidPrimitiveFromCylinder(c spatialmath.Cylinder) SolidPrimitive {
	return SolidPrimitive{Type: PrimitiveCylinder, Dimensions: []float64{c.Height, c.Radius}}
}

// Validate checks that the primitive has the dimensions its type needs.
func (p SolidPrimitive) Validate() error {
	want := map[SolidPrimitiveType]int{PrimitiveBox: 3, PrimitiveSphere: 1, PrimitiveCylinder: 2, PrimitiveCone: 2}
	n, ok := want[p.Type]
	if !ok {
		return errors.Errorf("unknown solid primitive type %d", p.Type)
	}
	if len(p.Dimensions) != n {
		return errors.Errorf("solid primitive of type %d needs %d dimensions but has %d", p.Type, n, len(p.Dimensions))
	}
	return nil
}

// ROSType returns shape_msgs/SolidPrimitive.
func (SolidPrimitive) ROSType() string { return "shape_msgs/SolidPrimitive" }

// Plane is shape_msgs/Plane, the plane ax + by + cz + d = 0.
type Plane struct {
	Coef [4]float64 `json:"coef"`
}

// PlaneFromFrame returns the xy plane of f.
func PlaneFromFrame(f spatialmath.Frame) Plane {
	n := f.ZAxis()
	return Plane{Coef: [4]float64{n.X, n.Y, n.Z, -n.Dot(f.Point)}}
}

// ROSType returns shape_msgs/Plane.
func (Plane) ROSType() string { return "shape_msgs/Plane" }

// ObjectType is object_recognition_msgs/ObjectType.
type ObjectType struct {
	Key string `json:"key"`
	DB  string `json:"db"`
}
