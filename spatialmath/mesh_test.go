package spatialmath

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func unitSquare() []r3.Vector {
	return []r3.Vector{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
}

func TestNewMeshFromPolygons(t *testing.T) {
	m, err := NewMeshFromPolygons(unitSquare(), [][]int{{0, 1, 2, 3}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Faces, test.ShouldResemble, [][3]int{{0, 1, 2}, {0, 2, 3}})

	tris := m.Triangles()
	test.That(t, len(tris), test.ShouldEqual, 2)
	test.That(t, tris[0].Area()+tris[1].Area(), test.ShouldAlmostEqual, 1)
	test.That(t, tris[0].Normal(), test.ShouldResemble, r3.Vector{Z: 1})
	test.That(t, m.Centroid(), test.ShouldResemble, r3.Vector{X: 0.5, Y: 0.5})

	_, err = NewMeshFromPolygons(unitSquare(), [][]int{{0, 1}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMeshValidate(t *testing.T) {
	_, err := NewMesh(unitSquare(), nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "at least one face")

	_, err = NewMesh(unitSquare(), [][3]int{{0, 1, 4}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "vertex 4")

	_, err = NewMesh(unitSquare(), [][3]int{{0, -1, 2}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMeshTransformed(t *testing.T) {
	m, err := NewMesh(unitSquare(), [][3]int{{0, 1, 2}})
	test.That(t, err, test.ShouldBeNil)

	scaled := m.Scaled(1000)
	test.That(t, scaled.Vertices[2], test.ShouldResemble, r3.Vector{X: 1000, Y: 1000})
	test.That(t, scaled.Faces, test.ShouldResemble, m.Faces)
	// the original is left untouched
	test.That(t, m.Vertices[2], test.ShouldResemble, r3.Vector{X: 1, Y: 1})

	moved := m.Transformed(TranslationTransformation(r3.Vector{Z: 2}))
	test.That(t, moved.Vertices[0], test.ShouldResemble, r3.Vector{Z: 2})
}

func TestMeshJSON(t *testing.T) {
	m, err := NewMesh(unitSquare(), [][3]int{{0, 1, 2}, {0, 2, 3}})
	test.That(t, err, test.ShouldBeNil)
	data, err := json.Marshal(m)
	test.That(t, err, test.ShouldBeNil)

	parsed, err := UnmarshalMeshJSON(data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parsed, test.ShouldResemble, m)

	_, err = UnmarshalMeshJSON([]byte(`{"vertices": [[0, 0, 0]], "faces": [[0, 1, 2]]}`))
	test.That(t, err, test.ShouldNotBeNil)

	path := filepath.Join(t.TempDir(), "quad.json")
	quad := `{"vertices": [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0]], "faces": [[0, 1, 2, 3]]}`
	test.That(t, os.WriteFile(path, []byte(quad), 0o600), test.ShouldBeNil)
	fromFile, err := ParseMeshJSONFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(fromFile.Faces), test.ShouldEqual, 2)

	_, err = ParseMeshJSONFile(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}
