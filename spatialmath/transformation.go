package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Transformation is a 4x4 homogeneous matrix. The zero value is not valid; use
// IdentityTransformation.
type Transformation struct {
	m mgl64.Mat4
}

// IdentityTransformation returns the transformation that does nothing.
func IdentityTransformation() Transformation {
	return Transformation{mgl64.Ident4()}
}

// TransformationFromFrame returns the transformation that maps coordinates in frame f into the
// world frame.
func TransformationFromFrame(f Frame) Transformation {
	x, y := f.axes()
	z := x.Cross(y)
	return Transformation{mgl64.Mat4FromCols(
		mgl64.Vec4{x.X, x.Y, x.Z, 0},
		mgl64.Vec4{y.X, y.Y, y.Z, 0},
		mgl64.Vec4{z.X, z.Y, z.Z, 0},
		mgl64.Vec4{f.Point.X, f.Point.Y, f.Point.Z, 1},
	)}
}

// TransformationFrameToFrame returns the transformation that maps coordinates expressed in frame
// from into coordinates expressed in frame to.
func TransformationFrameToFrame(from, to Frame) Transformation {
	return TransformationFromFrame(to).Inverse().Mul(TransformationFromFrame(from))
}

// ScaleTransformation returns a uniform scaling about the origin.
func ScaleTransformation(factor float64) Transformation {
	return Transformation{mgl64.Scale3D(factor, factor, factor)}
}

// TranslationTransformation returns a pure translation.
func TranslationTransformation(v r3.Vector) Transformation {
	return Transformation{mgl64.Translate3D(v.X, v.Y, v.Z)}
}

// Mul returns t * other, i.e. other is applied first.
func (t Transformation) Mul(other Transformation) Transformation {
	return Transformation{t.m.Mul4(other.m)}
}

// Inverse returns the inverse of the transformation.
func (t Transformation) Inverse() Transformation {
	return Transformation{t.m.Inv()}
}

// Translation returns the translational part of the transformation.
func (t Transformation) Translation() r3.Vector {
	c := t.m.Col(3)
	return r3.Vector{X: c[0], Y: c[1], Z: c[2]}
}

// TransformPoint applies the transformation to a point.
func (t Transformation) TransformPoint(p r3.Vector) r3.Vector {
	v := t.m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// TransformVector applies the linear part of the transformation to a direction.
func (t Transformation) TransformVector(d r3.Vector) r3.Vector {
	v := t.m.Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// TransformFrame applies the transformation to a frame. Scaling components are removed from the
// resulting axes.
func (t Transformation) TransformFrame(f Frame) Frame {
	x, y := f.axes()
	out, err := NewFrame(t.TransformPoint(f.Point), t.TransformVector(x), t.TransformVector(y))
	if err != nil {
		// only a singular transformation collapses the axes
		return Frame{Point: t.TransformPoint(f.Point), XAxis: x, YAxis: y}
	}
	return out
}

// Matrix returns the transformation as a row-major 4x4 array.
func (t Transformation) Matrix() [4][4]float64 {
	var out [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = t.m.At(i, j)
		}
	}
	return out
}

// AlmostEqual reports whether every matrix entry is within tol.
func (t Transformation) AlmostEqual(other Transformation, tol float64) bool {
	return t.m.ApproxEqualThreshold(other.m, tol)
}
