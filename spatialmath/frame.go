// Package spatialmath defines the frames, orientations, transformations and geometries used to
// describe where things are in a robot cell.
package spatialmath

import (
	"encoding/json"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// defaultEpsilon is the tolerance below which a vector is considered degenerate.
const defaultEpsilon = 1e-9

// ErrDegenerateFrame is returned when the axes given to a frame are zero or parallel.
var ErrDegenerateFrame = errors.New("frame axes must be non-zero and not parallel")

// Frame is a right-handed, orthonormal coordinate system described by an origin and two axes.
// The z axis is always the cross product of the x and y axes.
type Frame struct {
	Point r3.Vector
	XAxis r3.Vector
	YAxis r3.Vector
}

// NewFrame creates a frame from a point and two (not necessarily orthonormal) axes. The x axis is
// normalized and the y axis is made perpendicular to it within the plane spanned by both.
func NewFrame(point, xaxis, yaxis r3.Vector) (Frame, error) {
	if xaxis.Norm() < defaultEpsilon || yaxis.Norm() < defaultEpsilon {
		return Frame{}, ErrDegenerateFrame
	}
	x := xaxis.Normalize()
	z := x.Cross(yaxis)
	if z.Norm() < defaultEpsilon {
		return Frame{}, ErrDegenerateFrame
	}
	z = z.Normalize()
	return Frame{Point: point, XAxis: x, YAxis: z.Cross(x)}, nil
}

// WorldXY returns the frame at the origin aligned with the world axes.
func WorldXY() Frame {
	return Frame{XAxis: r3.Vector{X: 1}, YAxis: r3.Vector{Y: 1}}
}

// NewFrameFromPoint returns a frame at the given point aligned with the world axes.
func NewFrameFromPoint(point r3.Vector) Frame {
	f := WorldXY()
	f.Point = point
	return f
}

// axes returns the x and y axes of the frame. A frame without axes, such as the zero Frame, has
// the world orientation.
func (f Frame) axes() (r3.Vector, r3.Vector) {
	if f.XAxis.Norm() < defaultEpsilon && f.YAxis.Norm() < defaultEpsilon {
		return r3.Vector{X: 1}, r3.Vector{Y: 1}
	}
	return f.XAxis, f.YAxis
}

// ZAxis returns the normal of the frame.
func (f Frame) ZAxis() r3.Vector {
	x, y := f.axes()
	return x.Cross(y)
}

// Validate checks that the axes are orthonormal. A frame with no axes at all is valid and has the
// world orientation.
func (f Frame) Validate() error {
	x, y := f.axes()
	const tol = 1e-6
	if math.Abs(x.Norm()-1) > tol || math.Abs(y.Norm()-1) > tol || math.Abs(x.Dot(y)) > tol {
		return ErrDegenerateFrame
	}
	return nil
}

// rotationMatrix returns the row-major rotation matrix whose columns are the frame axes.
func (f Frame) rotationMatrix() [3][3]float64 {
	x, y := f.axes()
	z := x.Cross(y)
	return [3][3]float64{
		{x.X, y.X, z.X},
		{x.Y, y.Y, z.Y},
		{x.Z, y.Z, z.Z},
	}
}

// Quaternion returns the unit quaternion describing the orientation of the frame. The real part
// is kept non-negative so that the result is unique.
func (f Frame) Quaternion() quat.Number {
	return quatFromRotationMatrix(f.rotationMatrix())
}

// FrameFromQuaternion creates a frame at point with the orientation of the given quaternion.
func FrameFromQuaternion(point r3.Vector, q quat.Number) (Frame, error) {
	norm := quat.Abs(q)
	if norm < defaultEpsilon {
		return Frame{}, errors.New("cannot create a frame from a zero quaternion")
	}
	q = quat.Scale(1/norm, q)
	return Frame{
		Point: point,
		XAxis: RotateVector(q, r3.Vector{X: 1}),
		YAxis: RotateVector(q, r3.Vector{Y: 1}),
	}, nil
}

// AxisAngleVector returns the rotation of the frame as a vector whose direction is the rotation
// axis and whose length is the rotation angle in radians.
func (f Frame) AxisAngleVector() r3.Vector {
	return QuatToAxisAngleVector(f.Quaternion())
}

// FrameFromAxisAngleVector creates a frame at point rotated by the given axis-angle vector.
func FrameFromAxisAngleVector(point, axisAngle r3.Vector) Frame {
	f, err := FrameFromQuaternion(point, AxisAngleVectorToQuat(axisAngle))
	if err != nil {
		// an axis angle always maps to a unit quaternion.
		panic(err)
	}
	return f
}

// EulerAngles returns the static xyz euler angles (roll, pitch, yaw) of the frame in radians.
func (f Frame) EulerAngles() r3.Vector {
	m := f.rotationMatrix()
	var roll, pitch, yaw float64
	if math.Abs(m[2][0]) < 1-defaultEpsilon {
		pitch = -math.Asin(m[2][0])
		roll = math.Atan2(m[2][1], m[2][2])
		yaw = math.Atan2(m[1][0], m[0][0])
	} else {
		// gimbal lock, yaw is arbitrary
		pitch = math.Copysign(math.Pi/2, -m[2][0])
		roll = math.Atan2(-m[1][2], m[1][1])
	}
	return r3.Vector{X: roll, Y: pitch, Z: yaw}
}

// FrameFromEulerAngles creates a frame at point rotated by the static xyz euler angles.
func FrameFromEulerAngles(point, angles r3.Vector) Frame {
	q := EulerAnglesToQuat(angles)
	f, err := FrameFromQuaternion(point, q)
	if err != nil {
		panic(err)
	}
	return f
}

// Scaled returns a copy of the frame with its origin scaled by factor.
func (f Frame) Scaled(factor float64) Frame {
	f.Point = f.Point.Mul(factor)
	return f
}

// AlmostEqual reports whether two frames have the same origin and axes within tol.
func (f Frame) AlmostEqual(other Frame, tol float64) bool {
	return R3VectorAlmostEqual(f.Point, other.Point, tol) &&
		R3VectorAlmostEqual(f.XAxis, other.XAxis, tol) &&
		R3VectorAlmostEqual(f.YAxis, other.YAxis, tol)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise
// differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

type frameJSON struct {
	Point [3]float64 `json:"point"`
	XAxis [3]float64 `json:"xaxis"`
	YAxis [3]float64 `json:"yaxis"`
}

func vecToArray(v r3.Vector) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func arrayToVec(a [3]float64) r3.Vector {
	return r3.Vector{X: a[0], Y: a[1], Z: a[2]}
}

// MarshalJSON encodes the frame as point and axes arrays.
func (f Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(frameJSON{vecToArray(f.Point), vecToArray(f.XAxis), vecToArray(f.YAxis)})
}

// UnmarshalJSON decodes a frame, orthonormalizing the axes. A missing orientation means the
// world orientation.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var fj frameJSON
	if err := json.Unmarshal(data, &fj); err != nil {
		return err
	}
	x, y := arrayToVec(fj.XAxis), arrayToVec(fj.YAxis)
	if x.Norm() == 0 && y.Norm() == 0 {
		*f = NewFrameFromPoint(arrayToVec(fj.Point))
		return nil
	}
	newFrame, err := NewFrame(arrayToVec(fj.Point), x, y)
	if err != nil {
		return err
	}
	*f = newFrame
	return nil
}
