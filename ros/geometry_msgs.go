package ros

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/fab/spatialmath"
)

// Point is geometry_msgs/Point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PointFrom converts a vector to a point.
func PointFrom(v r3.Vector) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z}
}

// Vector returns the point as a vector.
func (p Point) Vector() r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// ROSType returns geometry_msgs/Point.
func (Point) ROSType() string { return "geometry_msgs/Point" }

// Vector3 is geometry_msgs/Vector3.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector returns v as an r3 vector.
func (v Vector3) Vector() r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// ROSType returns geometry_msgs/Vector3.
func (Vector3) ROSType() string { return "geometry_msgs/Vector3" }

// Quaternion is geometry_msgs/Quaternion. The zero value is not a rotation; use IdentityQuaternion.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityQuaternion is the quaternion of no rotation.
var IdentityQuaternion = Quaternion{W: 1}

// QuaternionFrom converts a gonum quaternion.
func QuaternionFrom(q quat.Number) Quaternion {
	return Quaternion{X: q.Imag, Y: q.Jmag, Z: q.Kmag, W: q.Real}
}

// Number returns the quaternion as a gonum quaternion.
func (q Quaternion) Number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// ROSType returns geometry_msgs/Quaternion.
func (Quaternion) ROSType() string { return "geometry_msgs/Quaternion" }

// Pose is geometry_msgs/Pose.
type Pose struct {
	Position    Point      `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// IdentityPose is the pose of the world origin.
var IdentityPose = Pose{Orientation: IdentityQuaternion}

// PoseFromFrame converts a frame to a pose.
func PoseFromFrame(f spatialmath.Frame) Pose {
	return Pose{Position: PointFrom(f.Point), Orientation: QuaternionFrom(f.Quaternion())}
}

// Frame converts the pose to a frame.
func (p Pose) Frame() (spatialmath.Frame, error) {
	return spatialmath.FrameFromQuaternion(p.Position.Vector(), p.Orientation.Number())
}

// ROSType returns geometry_msgs/Pose.
func (Pose) ROSType() string { return "geometry_msgs/Pose" }

// PoseStamped is geometry_msgs/PoseStamped.
type PoseStamped struct {
	Header Header `json:"header"`
	Pose   Pose   `json:"pose"`
}

// ROSType returns geometry_msgs/PoseStamped.
func (PoseStamped) ROSType() string { return "geometry_msgs/PoseStamped" }

// Transform is geometry_msgs/Transform.
type Transform struct {
	Translation Vector3    `json:"translation"`
	Rotation    Quaternion `json:"rotation"`
}

// TransformFromFrame converts a frame to a transform.
func TransformFromFrame(f spatialmath.Frame) Transform {
	return Transform{
		Translation: Vector3{X: f.Point.X, Y: f.Point.Y, Z: f.Point.Z},
		Rotation:    QuaternionFrom(f.Quaternion()),
	}
}

// Frame converts the transform to a frame.
func (t Transform) Frame() (spatialmath.Frame, error) {
	return spatialmath.FrameFromQuaternion(t.Translation.Vector(), t.Rotation.Number())
}

// ROSType returns geometry_msgs/Transform.
func (Transform) ROSType() string { return "geometry_msgs/Transform" }

// Twist is geometry_msgs/Twist.
type Twist struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// ROSType returns geometry_msgs/Twist.
func (Twist) ROSType() string { return "geometry_msgs/Twist" }

// Wrench is geometry_msgs/Wrench.
type Wrench struct {
	Force  Vector3 `json:"force"`
	Torque Vector3 `json:"torque"`
}

// ROSType returns geometry_msgs/Wrench.
func (Wrench) ROSType() string { return "geometry_msgs/Wrench" }
