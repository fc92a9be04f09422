package ros

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/fab/spatialmath"
)

func TestURMove(t *testing.T) {
	rotated := spatialmath.Frame{Point: r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}, XAxis: r3.Vector{Y: 1}, YAxis: r3.Vector{X: -1}}

	move := URMove{Linear: true, Pose: rotated}
	test.That(t, move.String(), test.ShouldEqual, "movel(p[0.100000, 0.200000, 0.300000, 0.000000, 0.000000, 1.570796])")

	move = URMove{Pose: spatialmath.NewFrameFromPoint(r3.Vector{Z: 1}), Acceleration: 1.2, Radius: 0.05}
	test.That(t, move.String(), test.ShouldEqual, "movej(p[0.000000, 0.000000, 1.000000, 0.000000, 0.000000, 0.000000], a=1.200000, r=0.050000)")

	move.Velocity = 0.25
	move.Time = 2
	test.That(t, move.String(), test.ShouldEndWith, "a=1.200000, v=0.250000, t=2.000000, r=0.050000)")
}

func TestURScriptProgram(t *testing.T) {
	frames := []spatialmath.Frame{
		spatialmath.NewFrameFromPoint(r3.Vector{X: 0.5}),
		spatialmath.NewFrameFromPoint(r3.Vector{X: 0.6}),
	}
	script := NewMoveLScript(frames, 0, 0.1, 0, 0)
	test.That(t, script.Lines(), test.ShouldResemble, []string{
		"movel(p[0.500000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000], v=0.100000)",
		"movel(p[0.600000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000], v=0.100000)",
	})
	test.That(t, script.Program(), test.ShouldEqual, "def fab_movel():\n"+
		"  movel(p[0.500000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000], v=0.100000)\n"+
		"  movel(p[0.600000, 0.000000, 0.000000, 0.000000, 0.000000, 0.000000], v=0.100000)\n"+
		"end\n")
	test.That(t, script.Message().ROSType(), test.ShouldEqual, "std_msgs/String")

	empty := URScript{}
	test.That(t, empty.Program(), test.ShouldEqual, "def fab_program():\nend\n")
}
