package spatialmath

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Ordered list of box vertices.
var boxVertices = [8]r3.Vector{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: -1},
}

// The sets of indices of the box vertices that tile the box exterior.
var boxTriangles = [12][3]int{
	{0, 1, 3},
	{0, 2, 3},
	{0, 1, 5},
	{0, 4, 5},
	{0, 2, 6},
	{0, 4, 6},
	{7, 1, 3},
	{7, 2, 3},
	{7, 1, 5},
	{7, 4, 5},
	{7, 2, 6},
	{7, 4, 6},
}

// Box is an axis aligned box centered on the origin of Frame.
type Box struct {
	Frame Frame   `json:"frame"`
	XSize float64 `json:"xsize"`
	YSize float64 `json:"ysize"`
	ZSize float64 `json:"zsize"`
}

// NewBox creates a box, returning an error if any dimension is not positive.
func NewBox(frame Frame, xsize, ysize, zsize float64) (Box, error) {
	if xsize <= 0 || ysize <= 0 || zsize <= 0 {
		return Box{}, newBadGeometryDimensionsError("box")
	}
	return Box{Frame: frame, XSize: xsize, YSize: ysize, ZSize: zsize}, nil
}

// Dimensions returns the sizes along x, y and z.
func (b Box) Dimensions() r3.Vector {
	return r3.Vector{X: b.XSize, Y: b.YSize, Z: b.ZSize}
}

// Vertices returns the eight corners of the box in world coordinates.
func (b Box) Vertices() []r3.Vector {
	t := TransformationFromFrame(b.Frame)
	half := b.Dimensions().Mul(0.5)
	verts := make([]r3.Vector, 0, len(boxVertices))
	for _, v := range boxVertices {
		verts = append(verts, t.TransformPoint(r3.Vector{X: v.X * half.X, Y: v.Y * half.Y, Z: v.Z * half.Z}))
	}
	return verts
}

// ToMesh returns a triangle mesh covering the surface of the box.
func (b Box) ToMesh() *Mesh {
	faces := make([][3]int, len(boxTriangles))
	copy(faces, boxTriangles[:])
	return &Mesh{Vertices: b.Vertices(), Faces: faces}
}

// Scaled returns a copy of the box scaled about the world origin.
func (b Box) Scaled(factor float64) Box {
	return Box{Frame: b.Frame.Scaled(factor), XSize: b.XSize * factor, YSize: b.YSize * factor, ZSize: b.ZSize * factor}
}

// Sphere is a sphere around a center point.
type Sphere struct {
	Center r3.Vector `json:"center"`
	Radius float64   `json:"radius"`
}

// NewSphere creates a sphere, returning an error if the radius is not positive.
func NewSphere(center r3.Vector, radius float64) (Sphere, error) {
	if radius <= 0 {
		return Sphere{}, newBadGeometryDimensionsError("sphere")
	}
	return Sphere{Center: center, Radius: radius}, nil
}

type sphereJSON struct {
	Center [3]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// MarshalJSON encodes the center as an array.
func (s Sphere) MarshalJSON() ([]byte, error) {
	return json.Marshal(sphereJSON{Center: vecToArray(s.Center), Radius: s.Radius})
}

// UnmarshalJSON decodes a sphere and checks its radius.
func (s *Sphere) UnmarshalJSON(data []byte) error {
	var sj sphereJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}
	parsed, err := NewSphere(arrayToVec(sj.Center), sj.Radius)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Scaled returns a copy of the sphere scaled about the world origin.
func (s Sphere) Scaled(factor float64) Sphere {
	return Sphere{Center: s.Center.Mul(factor), Radius: s.Radius * factor}
}

// Cylinder is a cylinder whose axis is the z axis of Frame, centered on its origin.
type Cylinder struct {
	Frame  Frame   `json:"frame"`
	Radius float64 `json:"radius"`
	Height float64 `json:"height"`
}

// NewCylinder creates a cylinder, returning an error if any dimension is not positive.
func NewCylinder(frame Frame, radius, height float64) (Cylinder, error) {
	if radius <= 0 || height <= 0 {
		return Cylinder{}, newBadGeometryDimensionsError("cylinder")
	}
	return Cylinder{Frame: frame, Radius: radius, Height: height}, nil
}

// Scaled returns a copy of the cylinder scaled about the world origin.
func (c Cylinder) Scaled(factor float64) Cylinder {
	return Cylinder{Frame: c.Frame.Scaled(factor), Radius: c.Radius * factor, Height: c.Height * factor}
}

func newBadGeometryDimensionsError(kind string) error {
	return errors.Errorf("dimensions of %s must all be positive", kind)
}
