package spatialmath

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestNewFrame(t *testing.T) {
	f, err := NewFrame(r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{X: 2}, r3.Vector{X: 1, Y: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.XAxis, test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, R3VectorAlmostEqual(f.YAxis, r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(f.ZAxis(), r3.Vector{Z: 1}, 1e-9), test.ShouldBeTrue)

	_, err = NewFrame(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: -3})
	test.That(t, err, test.ShouldBeError, ErrDegenerateFrame)
	_, err = NewFrame(r3.Vector{}, r3.Vector{}, r3.Vector{Y: 1})
	test.That(t, err, test.ShouldBeError, ErrDegenerateFrame)
}

func TestFrameQuaternion(t *testing.T) {
	th := math.Pi / 4
	q45x := quat.Number{Real: math.Cos(th / 2), Imag: math.Sin(th / 2)}

	f, err := FrameFromQuaternion(r3.Vector{}, q45x)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, R3VectorAlmostEqual(f.XAxis, r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(f.YAxis, r3.Vector{Y: math.Cos(th), Z: math.Sin(th)}, 1e-9), test.ShouldBeTrue)
	test.That(t, QuaternionAlmostEqual(f.Quaternion(), q45x, 1e-9), test.ShouldBeTrue)

	// a non-unit quaternion is normalized
	f, err = FrameFromQuaternion(r3.Vector{}, quat.Scale(3, q45x))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, QuaternionAlmostEqual(f.Quaternion(), q45x, 1e-9), test.ShouldBeTrue)

	_, err = FrameFromQuaternion(r3.Vector{}, quat.Number{})
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, WorldXY().Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, Frame{}.Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, Frame{}.ZAxis(), test.ShouldResemble, r3.Vector{Z: 1})

	// half turn exercises the branches where the trace is negative
	for _, axis := range []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}} {
		q := AxisAngleVectorToQuat(axis.Mul(math.Pi))
		f, err := FrameFromQuaternion(r3.Vector{}, q)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, QuaternionAlmostEqual(f.Quaternion(), q, 1e-9), test.ShouldBeTrue)
	}
}

func TestFrameValidate(t *testing.T) {
	test.That(t, WorldXY().Validate(), test.ShouldBeNil)
	test.That(t, Frame{Point: r3.Vector{X: 1}}.Validate(), test.ShouldBeNil)
	test.That(t, FrameFromAxisAngleVector(r3.Vector{}, r3.Vector{X: 1, Y: 2}).Validate(), test.ShouldBeNil)

	test.That(t, Frame{XAxis: r3.Vector{X: 1}}.Validate(), test.ShouldBeError, ErrDegenerateFrame)
	test.That(t, Frame{XAxis: r3.Vector{X: 2}, YAxis: r3.Vector{Y: 1}}.Validate(), test.ShouldBeError, ErrDegenerateFrame)
	test.That(t, Frame{XAxis: r3.Vector{X: 1}, YAxis: r3.Vector{X: 1}}.Validate(), test.ShouldBeError, ErrDegenerateFrame)

	tf := TransformationFromFrame(Frame{Point: r3.Vector{Z: 1}})
	test.That(t, tf.TransformPoint(r3.Vector{X: 1}), test.ShouldResemble, r3.Vector{X: 1, Z: 1})
}

func TestFrameAxisAngle(t *testing.T) {
	f := FrameFromAxisAngleVector(r3.Vector{X: 1}, r3.Vector{Z: math.Pi / 2})
	test.That(t, f.Point, test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, R3VectorAlmostEqual(f.XAxis, r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(f.YAxis, r3.Vector{X: -1}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(f.AxisAngleVector(), r3.Vector{Z: math.Pi / 2}, 1e-9), test.ShouldBeTrue)

	test.That(t, WorldXY().AxisAngleVector(), test.ShouldResemble, r3.Vector{})
}

func TestFrameEulerAngles(t *testing.T) {
	for _, angles := range []r3.Vector{
		{X: math.Pi / 4},
		{X: 0.3, Y: -0.5, Z: 1.2},
		{X: -2.1, Y: 0.7, Z: -0.4},
	} {
		f := FrameFromEulerAngles(r3.Vector{Z: 5}, angles)
		test.That(t, R3VectorAlmostEqual(f.EulerAngles(), angles, 1e-9), test.ShouldBeTrue)
	}

	// rotating about z by 90 degrees moves the x axis onto y
	f := FrameFromEulerAngles(r3.Vector{}, r3.Vector{Z: math.Pi / 2})
	test.That(t, R3VectorAlmostEqual(f.XAxis, r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
}

func TestFrameScaledAndEqual(t *testing.T) {
	f := FrameFromEulerAngles(r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{X: 0.1})
	scaled := f.Scaled(1000)
	test.That(t, scaled.Point, test.ShouldResemble, r3.Vector{X: 1000, Y: 2000, Z: 3000})
	test.That(t, scaled.XAxis, test.ShouldResemble, f.XAxis)
	test.That(t, f.AlmostEqual(f, 1e-9), test.ShouldBeTrue)
	test.That(t, f.AlmostEqual(scaled, 1e-9), test.ShouldBeFalse)
}

func TestFrameJSON(t *testing.T) {
	f := FrameFromEulerAngles(r3.Vector{X: 0.5, Y: -0.2, Z: 1}, r3.Vector{X: 0.3, Y: 0.2, Z: 0.1})
	data, err := json.Marshal(f)
	test.That(t, err, test.ShouldBeNil)

	var out Frame
	test.That(t, json.Unmarshal(data, &out), test.ShouldBeNil)
	test.That(t, out.AlmostEqual(f, 1e-9), test.ShouldBeTrue)

	test.That(t, json.Unmarshal([]byte(`{"point": [1, 2, 3]}`), &out), test.ShouldBeNil)
	test.That(t, out, test.ShouldResemble, NewFrameFromPoint(r3.Vector{X: 1, Y: 2, Z: 3}))

	err = json.Unmarshal([]byte(`{"point": [0, 0, 0], "xaxis": [1, 0, 0], "yaxis": [2, 0, 0]}`), &out)
	test.That(t, err, test.ShouldBeError, ErrDegenerateFrame)
}
