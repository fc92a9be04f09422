package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestAngles(t *testing.T) {
	test.That(t, RadToDeg(math.Pi), test.ShouldAlmostEqual, 180.)
	test.That(t, WrapToPi(3*math.Pi/2), test.ShouldAlmostEqual, -math.Pi/2)
	test.That(t, WrapToPi(-math.Pi), test.ShouldAlmostEqual, -math.Pi)
	test.That(t, AngleDiffRad(0.1, 2*math.Pi-0.1), test.ShouldAlmostEqual, 0.2)
	test.That(t, AngleDiffRad(1, -1), test.ShouldAlmostEqual, 2.)
}

func TestNewLengthMismatchError(t *testing.T) {
	err := NewLengthMismatchError("joint names", 6, 2)
	test.That(t, err.Error(), test.ShouldEqual, "joint names length mismatch: expected 6 but got 2")
}

func TestResolveFile(t *testing.T) {
	_, err := os.Stat(ResolveFile("go.mod"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, filepath.IsAbs(ResolveFile("utils/file.go")), test.ShouldBeTrue)
}

func TestSafeJoinDir(t *testing.T) {
	joined, err := SafeJoinDir("/tmp/meshes", "ur_description/meshes/base.dae")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joined, test.ShouldEqual, "/tmp/meshes/ur_description/meshes/base.dae")

	_, err = SafeJoinDir("/tmp/meshes", "../etc/passwd")
	test.That(t, err, test.ShouldNotBeNil)
}
