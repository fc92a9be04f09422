package motionplan

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/spatialmath"
)

// defaultWeight is used for constraints created with a zero weight.
const defaultWeight = 1.

func checkWeight(weight float64) (float64, error) {
	if weight == 0 {
		return defaultWeight, nil
	}
	if weight < 0 || weight > 1 {
		return 0, NewInvalidWeightError(weight)
	}
	return weight, nil
}

// JointConstraint limits the value of one joint to [Value-ToleranceBelow, Value+ToleranceAbove].
type JointConstraint struct {
	JointName      string
	Value          float64
	ToleranceAbove float64
	ToleranceBelow float64
	Weight         float64
}

// NewJointConstraint creates a joint constraint. A zero weight means the default weight of 1.
func NewJointConstraint(jointName string, value, toleranceAbove, toleranceBelow, weight float64) (JointConstraint, error) {
	if jointName == "" {
		return JointConstraint{}, errors.New("joint constraint needs a joint name")
	}
	if toleranceAbove < 0 {
		return JointConstraint{}, NewNegativeToleranceError(toleranceAbove)
	}
	if toleranceBelow < 0 {
		return JointConstraint{}, NewNegativeToleranceError(toleranceBelow)
	}
	weight, err := checkWeight(weight)
	if err != nil {
		return JointConstraint{}, err
	}
	return JointConstraint{
		JointName:      jointName,
		Value:          value,
		ToleranceAbove: toleranceAbove,
		ToleranceBelow: toleranceBelow,
		Weight:         weight,
	}, nil
}

// Scaled returns a copy with the value and tolerances multiplied by factor. Only meaningful for
// prismatic joints.
func (c JointConstraint) Scaled(factor float64) JointConstraint {
	c.Value *= factor
	c.ToleranceAbove *= factor
	c.ToleranceBelow *= factor
	return c
}

// JointConstraintsFromConfiguration creates one joint constraint per value of a named configuration.
// Tolerances are given either once for all joints or once per joint.
func JointConstraintsFromConfiguration(
	cfg referenceframe.Configuration,
	tolerancesAbove, tolerancesBelow []float64,
) ([]JointConstraint, error) {
	if !cfg.HasNames() {
		return nil, errors.New("configuration needs joint names to create joint constraints")
	}
	above, err := broadcastTolerances(tolerancesAbove, len(cfg.Values))
	if err != nil {
		return nil, errors.Wrap(err, "tolerances above")
	}
	below, err := broadcastTolerances(tolerancesBelow, len(cfg.Values))
	if err != nil {
		return nil, errors.Wrap(err, "tolerances below")
	}
	constraints := make([]JointConstraint, 0, len(cfg.Values))
	for i, name := range cfg.Names {
		c, err := NewJointConstraint(name, cfg.Values[i], above[i], below[i], defaultWeight)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

func broadcastTolerances(tols []float64, n int) ([]float64, error) {
	switch len(tols) {
	case 0:
		return make([]float64, n), nil
	case 1:
		return lo.Times(n, func(int) float64 { return tols[0] }), nil
	case n:
		return tols, nil
	default:
		return nil, referenceframe.NewIncorrectDoFError(len(tols), n)
	}
}

// VolumeType is the shape of a bounding volume.
type VolumeType int

// The supported bounding volume shapes.
const (
	BoxVolume VolumeType = iota
	SphereVolume
	MeshVolume
)

func (vt VolumeType) String() string {
	switch vt {
	case BoxVolume:
		return "box"
	case SphereVolume:
		return "sphere"
	case MeshVolume:
		return "mesh"
	default:
		return "unknown"
	}
}

// BoundingVolume is the region a link must stay in. Exactly one shape matching Type is set.
type BoundingVolume struct {
	Type   VolumeType
	Box    *spatialmath.Box
	Sphere *spatialmath.Sphere
	Mesh   *spatialmath.Mesh
}

// BoundingVolumeFromBox creates a box-shaped bounding volume.
func BoundingVolumeFromBox(box spatialmath.Box) BoundingVolume {
	return BoundingVolume{Type: BoxVolume, Box: &box}
}

// BoundingVolumeFromSphere creates a sphere-shaped bounding volume.
func BoundingVolumeFromSphere(sphere spatialmath.Sphere) BoundingVolume {
	return BoundingVolume{Type: SphereVolume, Sphere: &sphere}
}

// BoundingVolumeFromMesh creates a mesh-shaped bounding volume. Vertices are in world coordinates.
func BoundingVolumeFromMesh(mesh *spatialmath.Mesh) BoundingVolume {
	return BoundingVolume{Type: MeshVolume, Mesh: mesh}
}

// Validate checks that the shape matching Type is set and that a box has orthonormal axes.
func (bv BoundingVolume) Validate() error {
	switch bv.Type {
	case BoxVolume:
		if bv.Box == nil {
			return errors.New("box bounding volume has no box")
		}
		return errors.Wrap(bv.Box.Frame.Validate(), "box bounding volume")
	case SphereVolume:
		if bv.Sphere == nil {
			return errors.New("sphere bounding volume has no sphere")
		}
	case MeshVolume:
		if bv.Mesh == nil {
			return errors.New("mesh bounding volume has no mesh")
		}
		return bv.Mesh.Validate()
	default:
		return errors.Errorf("unknown bounding volume type %d", bv.Type)
	}
	return nil
}

// Scaled returns a copy of the volume scaled about the world origin.
func (bv BoundingVolume) Scaled(factor float64) BoundingVolume {
	out := BoundingVolume{Type: bv.Type}
	if bv.Box != nil {
		b := bv.Box.Scaled(factor)
		out.Box = &b
	}
	if bv.Sphere != nil {
		s := bv.Sphere.Scaled(factor)
		out.Sphere = &s
	}
	if bv.Mesh != nil {
		out.Mesh = bv.Mesh.Scaled(factor)
	}
	return out
}

// PositionConstraint requires the origin of a link to lie inside a bounding volume.
type PositionConstraint struct {
	LinkName string
	Volume   BoundingVolume
	Weight   float64
}

// NewPositionConstraint creates a position constraint. A zero weight means the default weight of 1.
func NewPositionConstraint(linkName string, volume BoundingVolume, weight float64) (PositionConstraint, error) {
	if linkName == "" {
		return PositionConstraint{}, errors.New("position constraint needs a link name")
	}
	if err := volume.Validate(); err != nil {
		return PositionConstraint{}, err
	}
	weight, err := checkWeight(weight)
	if err != nil {
		return PositionConstraint{}, err
	}
	return PositionConstraint{LinkName: linkName, Volume: volume, Weight: weight}, nil
}

// PositionConstraintFromFrame requires the link origin to stay within tolerance of the frame origin.
func PositionConstraintFromFrame(linkName string, frame spatialmath.Frame, tolerance float64) (PositionConstraint, error) {
	sphere, err := spatialmath.NewSphere(frame.Point, tolerance)
	if err != nil {
		return PositionConstraint{}, errors.Wrap(err, "position tolerance")
	}
	return NewPositionConstraint(linkName, BoundingVolumeFromSphere(sphere), defaultWeight)
}

// Scaled returns a copy with its volume scaled.
func (c PositionConstraint) Scaled(factor float64) PositionConstraint {
	c.Volume = c.Volume.Scaled(factor)
	return c
}

// OrientationConstraint limits the rotation of a link around the x, y and z axes of a target
// orientation.
type OrientationConstraint struct {
	LinkName   string
	Quaternion quat.Number
	// Tolerances are absolute tolerances in radians about x, y and z.
	Tolerances [3]float64
	Weight     float64
}

// NewOrientationConstraint creates an orientation constraint. A zero weight means the default
// weight of 1.
func NewOrientationConstraint(linkName string, q quat.Number, tolerances [3]float64, weight float64) (OrientationConstraint, error) {
	if linkName == "" {
		return OrientationConstraint{}, errors.New("orientation constraint needs a link name")
	}
	for _, tol := range tolerances {
		if tol < 0 {
			return OrientationConstraint{}, NewNegativeToleranceError(tol)
		}
	}
	if quat.Abs(q) == 0 {
		return OrientationConstraint{}, errors.New("orientation constraint needs a non-zero quaternion")
	}
	weight, err := checkWeight(weight)
	if err != nil {
		return OrientationConstraint{}, err
	}
	return OrientationConstraint{LinkName: linkName, Quaternion: q, Tolerances: tolerances, Weight: weight}, nil
}

// OrientationConstraintFromFrame requires the link to keep the orientation of frame.
func OrientationConstraintFromFrame(linkName string, frame spatialmath.Frame, tolerances [3]float64) (OrientationConstraint, error) {
	return NewOrientationConstraint(linkName, frame.Quaternion(), tolerances, defaultWeight)
}

// Constraints groups constraints of every kind. A planner has to satisfy all of them.
type Constraints struct {
	Joints       []JointConstraint
	Positions    []PositionConstraint
	Orientations []OrientationConstraint
}

// Empty reports whether there are no constraints.
func (c Constraints) Empty() bool {
	return len(c.Joints) == 0 && len(c.Positions) == 0 && len(c.Orientations) == 0
}

// Scaled returns a copy with lengths multiplied by factor. prismatic names the joints whose
// constraints are lengths.
func (c Constraints) Scaled(factor float64, prismatic []string) Constraints {
	return Constraints{
		Joints: lo.Map(c.Joints, func(jc JointConstraint, _ int) JointConstraint {
			if lo.Contains(prismatic, jc.JointName) {
				return jc.Scaled(factor)
			}
			return jc
		}),
		Positions:    lo.Map(c.Positions, func(pc PositionConstraint, _ int) PositionConstraint { return pc.Scaled(factor) }),
		Orientations: append([]OrientationConstraint{}, c.Orientations...),
	}
}

// FrameConstraints returns a position and an orientation constraint that together hold a link at
// a frame.
func FrameConstraints(
	linkName string,
	frame spatialmath.Frame,
	positionTolerance float64,
	orientationTolerances [3]float64,
) (Constraints, error) {
	pc, err := PositionConstraintFromFrame(linkName, frame, positionTolerance)
	if err != nil {
		return Constraints{}, err
	}
	oc, err := OrientationConstraintFromFrame(linkName, frame, orientationTolerances)
	if err != nil {
		return Constraints{}, err
	}
	return Constraints{Positions: []PositionConstraint{pc}, Orientations: []OrientationConstraint{oc}}, nil
}

// Transformed returns a copy of the volume moved by the rigid transformation t.
func (bv BoundingVolume) Transformed(t spatialmath.Transformation) BoundingVolume {
	out := BoundingVolume{Type: bv.Type}
	if bv.Box != nil {
		b := *bv.Box
		b.Frame = t.TransformFrame(b.Frame)
		out.Box = &b
	}
	if bv.Sphere != nil {
		s := *bv.Sphere
		s.Center = t.TransformPoint(s.Center)
		out.Sphere = &s
	}
	if bv.Mesh != nil {
		out.Mesh = bv.Mesh.Transformed(t)
	}
	return out
}

// Transformed returns a copy with the target orientation rotated by the rigid transformation t.
func (c OrientationConstraint) Transformed(t spatialmath.Transformation) OrientationConstraint {
	f, err := spatialmath.FrameFromQuaternion(r3.Vector{}, c.Quaternion)
	if err != nil {
		return c
	}
	c.Quaternion = t.TransformFrame(f).Quaternion()
	return c
}

// Transformed returns a copy with every position and orientation target moved by the rigid
// transformation t. Joint constraints are unchanged.
func (c Constraints) Transformed(t spatialmath.Transformation) Constraints {
	return Constraints{
		Joints: append([]JointConstraint{}, c.Joints...),
		Positions: lo.Map(c.Positions, func(pc PositionConstraint, _ int) PositionConstraint {
			pc.Volume = pc.Volume.Transformed(t)
			return pc
		}),
		Orientations: lo.Map(c.Orientations, func(oc OrientationConstraint, _ int) OrientationConstraint {
			return oc.Transformed(t)
		}),
	}
}
