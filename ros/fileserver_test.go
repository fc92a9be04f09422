package ros

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"go.uber.org/atomic"
	"go.viam.com/test"

	"go.viam.com/fab/testutils"
)

const testURDF = `<?xml version="1.0"?>
<robot name="ur5">
  <link name="base_link">
    <visual><geometry><mesh filename="package://ur_description/meshes/ur5/visual/base.dae"/></geometry></visual>
    <collision><geometry><mesh filename="package://ur_description/meshes/ur5/collision/base.stl"/></geometry></collision>
  </link>
  <link name="shoulder_link">
    <visual><geometry><mesh filename="package://ur_description/meshes/ur5/visual/base.dae"/></geometry></visual>
    <collision><geometry><box size="0.1 0.1 0.1"/></geometry></collision>
  </link>
</robot>`

func serveFiles(fr *testutils.FakeRosbridge, calls *atomic.Int64) {
	fr.HandleParam(map[string]interface{}{
		RobotDescriptionParam:         testURDF,
		RobotDescriptionSemanticParam: `<robot name="ur5"/>`,
	})
	fr.HandleService(getFileService, func(args json.RawMessage) (interface{}, error) {
		calls.Inc()
		var req struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, err
		}
		return map[string][]byte{"value": []byte("contents of " + req.Name)}, nil
	})
}

func TestDefaultRobotDescriptionDir(t *testing.T) {
	if runtime.GOOS == "linux" {
		cacheDir := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", cacheDir)
		test.That(t, DefaultRobotDescriptionDir(), test.ShouldEqual, filepath.Join(cacheDir, "fab", "robot_description"))
	}
	cacheDir, err := os.UserCacheDir()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, DefaultRobotDescriptionDir(), test.ShouldEqual, filepath.Join(cacheDir, "fab", "robot_description"))
}

func TestRobotNameAndMeshURIs(t *testing.T) {
	name, uris, err := RobotNameAndMeshURIs(testURDF)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, name, test.ShouldEqual, "ur5")
	test.That(t, uris, test.ShouldResemble, []string{
		"package://ur_description/meshes/ur5/visual/base.dae",
		"package://ur_description/meshes/ur5/collision/base.stl",
	})

	_, _, err = RobotNameAndMeshURIs("<robot>")
	test.That(t, err, test.ShouldNotBeNil)
	_, _, err = RobotNameAndMeshURIs("<robot></robot>")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFileServerLoader(t *testing.T) {
	ctx := context.Background()
	c, fr := newTestClient(t)
	calls := atomic.NewInt64(0)
	serveFiles(fr, calls)

	t.Run("descriptions", func(t *testing.T) {
		loader := NewFileServerLoader(c, "", c.Logger())
		urdf, err := loader.LoadURDF(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, urdf, test.ShouldEqual, testURDF)
		srdf, err := loader.LoadSRDF(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, srdf, test.ShouldEqual, `<robot name="ur5"/>`)
	})

	t.Run("uncached file", func(t *testing.T) {
		loader := NewFileServerLoader(c, "", c.Logger())
		data, err := loader.LoadFile(ctx, "package://ur_description/meshes/base.stl")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, string(data), test.ShouldEqual, "contents of package://ur_description/meshes/base.stl")

		_, err = loader.LoadFile(ctx, "file:///etc/passwd")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported resource url")
	})

	t.Run("cached file", func(t *testing.T) {
		dir := t.TempDir()
		loader := NewFileServerLoader(c, dir, c.Logger())
		before := calls.Load()
		for i := 0; i < 2; i++ {
			data, err := loader.LoadFile(ctx, "package://pkg/a.stl")
			test.That(t, err, test.ShouldBeNil)
			test.That(t, string(data), test.ShouldEqual, "contents of package://pkg/a.stl")
		}
		test.That(t, calls.Load()-before, test.ShouldEqual, int64(1))
		_, err := os.Stat(filepath.Join(dir, "pkg", "a.stl"))
		test.That(t, err, test.ShouldBeNil)

		_, err = loader.LoadFile(ctx, "package://../escape.stl")
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("import", func(t *testing.T) {
		_, err := NewFileServerLoader(c, "", c.Logger()).ImportRobotDescription(ctx)
		test.That(t, err, test.ShouldNotBeNil)

		dir := t.TempDir()
		name, err := NewFileServerLoader(c, dir, c.Logger()).ImportRobotDescription(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, name, test.ShouldEqual, "ur5")
		for _, rel := range []string{
			"robot_description.urdf",
			"ur_description/meshes/ur5/visual/base.dae",
			"ur_description/meshes/ur5/collision/base.stl",
		} {
			_, err := os.Stat(filepath.Join(dir, "ur5", rel))
			test.That(t, err, test.ShouldBeNil)
		}
	})
}
