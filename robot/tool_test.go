package robot

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/fab/spatialmath"
)

func testMesh(t *testing.T) *spatialmath.Mesh {
	t.Helper()
	mesh, err := spatialmath.NewMesh(
		[]r3.Vector{{}, {X: 0.1}, {Y: 0.1}, {Z: 0.1}},
		[][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}},
	)
	test.That(t, err, test.ShouldBeNil)
	return mesh
}

func TestNewTool(t *testing.T) {
	_, err := NewTool("", testMesh(t), nil, spatialmath.WorldXY())
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewTool("gripper", nil, nil, spatialmath.WorldXY())
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewTool("gripper", &spatialmath.Mesh{}, nil, spatialmath.WorldXY())
	test.That(t, err, test.ShouldNotBeNil)

	tool, err := NewTool("gripper", testMesh(t), nil, spatialmath.WorldXY())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tool.Collision, test.ShouldEqual, tool.Visual)
}

func TestToolFrames(t *testing.T) {
	// tool center 10cm along z of the flange, pointing along the flange x axis
	tcfInFlange := spatialmath.FrameFromAxisAngleVector(r3.Vector{Z: 0.1}, r3.Vector{Y: math.Pi / 2})
	tool, err := NewTool("spindle", testMesh(t), nil, tcfInFlange)
	test.That(t, err, test.ShouldBeNil)

	flange := spatialmath.NewFrameFromPoint(r3.Vector{X: 0.5, Z: 0.3})
	tcf := tool.FromTool0Frame(flange)
	test.That(t, spatialmath.R3VectorAlmostEqual(tcf.Point, r3.Vector{X: 0.5, Z: 0.4}, 1e-9), test.ShouldBeTrue)
	test.That(t, tool.ToTool0Frame(tcf).AlmostEqual(flange, 1e-9), test.ShouldBeTrue)

	tool.LinkName = "ee_link"
	acm, err := tool.AttachedCollisionMesh()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, acm.ID, test.ShouldEqual, "spindle")
	test.That(t, acm.LinkName, test.ShouldEqual, "ee_link")
	test.That(t, acm.RootName, test.ShouldEqual, "ee_link")
	test.That(t, acm.TouchLinks, test.ShouldResemble, []string{"ee_link"})
}

func TestAttachTool(t *testing.T) {
	r := newUR5(t, nil)
	test.That(t, r.AttachTool(nil), test.ShouldNotBeNil)

	tool, err := NewTool("gripper", testMesh(t), nil, spatialmath.NewFrameFromPoint(r3.Vector{Z: 0.1}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r.AttachTool(tool), test.ShouldBeNil)
	test.That(t, r.Tool.LinkName, test.ShouldEqual, "ee_link")

	tcf, err := r.FromTool0Frame(spatialmath.WorldXY())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tcf.Point.Z, test.ShouldAlmostEqual, 0.1)

	r.DetachTool()
	test.That(t, r.Tool, test.ShouldBeNil)

	other, err := NewTool("other", testMesh(t), nil, spatialmath.WorldXY())
	test.That(t, err, test.ShouldBeNil)
	other.LinkName = "nope"
	test.That(t, r.AttachTool(other), test.ShouldNotBeNil)
	test.That(t, r.Tool, test.ShouldBeNil)
}
