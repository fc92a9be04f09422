package motionplan

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/spatialmath"
)

func TestJointConstraint(t *testing.T) {
	c, err := NewJointConstraint("elbow", 0.5, 0.1, 0.2, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Weight, test.ShouldEqual, 1)

	_, err = NewJointConstraint("", 0, 0, 0, 1)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewJointConstraint("elbow", 0, -0.1, 0, 1)
	test.That(t, err, test.ShouldBeError, NewNegativeToleranceError(-0.1))
	_, err = NewJointConstraint("elbow", 0, 0, -0.1, 1)
	test.That(t, err, test.ShouldBeError, NewNegativeToleranceError(-0.1))
	_, err = NewJointConstraint("elbow", 0, 0, 0, 1.5)
	test.That(t, err, test.ShouldBeError, NewInvalidWeightError(1.5))

	scaled := c.Scaled(10)
	test.That(t, scaled.Value, test.ShouldAlmostEqual, 5)
	test.That(t, scaled.ToleranceAbove, test.ShouldAlmostEqual, 1)
	test.That(t, scaled.ToleranceBelow, test.ShouldAlmostEqual, 2)
}

func TestJointConstraintsFromConfiguration(t *testing.T) {
	cfg, err := referenceframe.NewConfiguration(
		[]float64{0.1, 0.2, 0.3},
		[]referenceframe.JointType{referenceframe.Revolute, referenceframe.Revolute, referenceframe.Prismatic},
		[]string{"a", "b", "c"},
	)
	test.That(t, err, test.ShouldBeNil)

	cs, err := JointConstraintsFromConfiguration(cfg, []float64{0.01}, []float64{0.01, 0.02, 0.03})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(cs), test.ShouldEqual, 3)
	test.That(t, cs[2].JointName, test.ShouldEqual, "c")
	test.That(t, cs[2].Value, test.ShouldEqual, 0.3)
	test.That(t, cs[2].ToleranceAbove, test.ShouldEqual, 0.01)
	test.That(t, cs[2].ToleranceBelow, test.ShouldEqual, 0.03)

	cs, err = JointConstraintsFromConfiguration(cfg, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cs[0].ToleranceAbove, test.ShouldEqual, 0)

	_, err = JointConstraintsFromConfiguration(cfg, []float64{0.1, 0.2}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "tolerances above")

	_, err = JointConstraintsFromConfiguration(referenceframe.FromRevoluteAndPrismaticValues([]float64{1}, nil), nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPositionConstraint(t *testing.T) {
	frame := spatialmath.NewFrameFromPoint(r3.Vector{X: 0.3, Y: 0.1, Z: 0.5})
	c, err := PositionConstraintFromFrame("tool0", frame, 0.001)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Volume.Type, test.ShouldEqual, SphereVolume)
	test.That(t, c.Volume.Sphere.Center, test.ShouldResemble, frame.Point)
	test.That(t, c.Volume.Sphere.Radius, test.ShouldEqual, 0.001)

	_, err = PositionConstraintFromFrame("tool0", frame, 0)
	test.That(t, err, test.ShouldNotBeNil)

	box, err := spatialmath.NewBox(frame, 1, 2, 3)
	test.That(t, err, test.ShouldBeNil)
	c, err = NewPositionConstraint("tool0", BoundingVolumeFromBox(box), 0.5)
	test.That(t, err, test.ShouldBeNil)
	scaled := c.Scaled(1000)
	test.That(t, scaled.Volume.Box.XSize, test.ShouldEqual, 1000)
	test.That(t, scaled.Volume.Box.Frame.Point.Z, test.ShouldAlmostEqual, 500)
	test.That(t, c.Volume.Box.XSize, test.ShouldEqual, 1)

	_, err = NewPositionConstraint("tool0", BoundingVolume{Type: MeshVolume}, 1)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPositionConstraint("", BoundingVolumeFromBox(box), 1)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPositionConstraint("tool0", BoundingVolume{Type: VolumeType(7)}, 1)
	test.That(t, err, test.ShouldNotBeNil)
	skewed := box
	skewed.Frame.YAxis = skewed.Frame.XAxis
	_, err = NewPositionConstraint("tool0", BoundingVolumeFromBox(skewed), 1)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, spatialmath.ErrDegenerateFrame.Error())

	mesh := box.ToMesh()
	c, err = NewPositionConstraint("tool0", BoundingVolumeFromMesh(mesh), 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Volume.Type.String(), test.ShouldEqual, "mesh")
}

func TestOrientationConstraint(t *testing.T) {
	frame := spatialmath.FrameFromAxisAngleVector(r3.Vector{}, r3.Vector{Z: math.Pi / 2})
	c, err := OrientationConstraintFromFrame("tool0", frame, [3]float64{0.1, 0.1, math.Pi})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.QuaternionAlmostEqual(c.Quaternion, frame.Quaternion(), 1e-9), test.ShouldBeTrue)
	test.That(t, c.Weight, test.ShouldEqual, 1)

	_, err = NewOrientationConstraint("tool0", quat.Number{}, [3]float64{}, 1)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewOrientationConstraint("tool0", quat.Number{Real: 1}, [3]float64{0, -1, 0}, 1)
	test.That(t, err, test.ShouldBeError, NewNegativeToleranceError(-1))
}

func TestConstraintsScaled(t *testing.T) {
	frame := spatialmath.NewFrameFromPoint(r3.Vector{X: 0.3})
	cs, err := FrameConstraints("tool0", frame, 0.01, [3]float64{0.1, 0.1, 0.1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cs.Empty(), test.ShouldBeFalse)
	test.That(t, Constraints{}.Empty(), test.ShouldBeTrue)

	rail, err := NewJointConstraint("rail", 0.2, 0.01, 0.01, 1)
	test.That(t, err, test.ShouldBeNil)
	elbow, err := NewJointConstraint("elbow", 0.2, 0.01, 0.01, 1)
	test.That(t, err, test.ShouldBeNil)
	cs.Joints = []JointConstraint{rail, elbow}

	scaled := cs.Scaled(1000, []string{"rail"})
	test.That(t, scaled.Joints[0].Value, test.ShouldAlmostEqual, 200)
	test.That(t, scaled.Joints[1].Value, test.ShouldEqual, 0.2)
	test.That(t, scaled.Positions[0].Volume.Sphere.Radius, test.ShouldAlmostEqual, 10)
	test.That(t, scaled.Orientations, test.ShouldResemble, cs.Orientations)
}

func TestConstraintsTransformed(t *testing.T) {
	frame := spatialmath.NewFrameFromPoint(r3.Vector{X: 0.3})
	cs, err := FrameConstraints("tool0", frame, 0.01, [3]float64{0.1, 0.1, 0.1})
	test.That(t, err, test.ShouldBeNil)

	// a quarter turn about z moved one meter along y
	rcf := spatialmath.FrameFromAxisAngleVector(r3.Vector{Y: 1}, r3.Vector{Z: math.Pi / 2})
	moved := cs.Transformed(spatialmath.TransformationFromFrame(rcf))
	center := moved.Positions[0].Volume.Sphere.Center
	test.That(t, center.X, test.ShouldAlmostEqual, 0)
	test.That(t, center.Y, test.ShouldAlmostEqual, 1.3)
	test.That(t, moved.Positions[0].Volume.Sphere.Radius, test.ShouldAlmostEqual, 0.01)
	test.That(t, spatialmath.QuaternionAlmostEqual(moved.Orientations[0].Quaternion, rcf.Quaternion(), 1e-9), test.ShouldBeTrue)
	test.That(t, cs.Positions[0].Volume.Sphere.Center.X, test.ShouldAlmostEqual, 0.3)
}
