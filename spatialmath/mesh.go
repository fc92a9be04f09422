package spatialmath

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Mesh is a triangle mesh. Vertices are expressed in the frame the mesh is attached to; faces
// index into Vertices.
type Mesh struct {
	Vertices []r3.Vector `json:"vertices"`
	Faces    [][3]int    `json:"faces"`
}

// NewMesh creates a mesh and validates it.
func NewMesh(vertices []r3.Vector, faces [][3]int) (*Mesh, error) {
	m := &Mesh{Vertices: vertices, Faces: faces}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMeshFromPolygons triangulates convex polygons given as vertex index lists with a fan from
// their first vertex.
func NewMeshFromPolygons(vertices []r3.Vector, polygons [][]int) (*Mesh, error) {
	faces := make([][3]int, 0, len(polygons))
	for i, poly := range polygons {
		if len(poly) < 3 {
			return nil, errors.Errorf("polygon %d has %d vertices, need at least 3", i, len(poly))
		}
		for j := 1; j < len(poly)-1; j++ {
			faces = append(faces, [3]int{poly[0], poly[j], poly[j+1]})
		}
	}
	return NewMesh(vertices, faces)
}

// Validate checks that the mesh has at least one face and that every face index refers to an
// existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Faces) == 0 {
		return errors.New("mesh must have at least one face")
	}
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return errors.Errorf("face %d references vertex %d but mesh only has %d vertices", i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// Transformed returns a copy of the mesh with t applied to every vertex.
func (m *Mesh) Transformed(t Transformation) *Mesh {
	verts := make([]r3.Vector, 0, len(m.Vertices))
	for _, v := range m.Vertices {
		verts = append(verts, t.TransformPoint(v))
	}
	faces := make([][3]int, len(m.Faces))
	copy(faces, m.Faces)
	return &Mesh{Vertices: verts, Faces: faces}
}

// Scaled returns a copy of the mesh scaled about its origin.
func (m *Mesh) Scaled(factor float64) *Mesh {
	return m.Transformed(ScaleTransformation(factor))
}

// Triangles returns the faces of the mesh as triangles.
func (m *Mesh) Triangles() []*Triangle {
	tris := make([]*Triangle, 0, len(m.Faces))
	for _, f := range m.Faces {
		tris = append(tris, NewTriangle(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]))
	}
	return tris
}

// Centroid returns the mean of the mesh vertices.
func (m *Mesh) Centroid() r3.Vector {
	var sum r3.Vector
	if len(m.Vertices) == 0 {
		return sum
	}
	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(len(m.Vertices)))
}

type meshJSON struct {
	Vertices [][3]float64 `json:"vertices"`
	Faces    [][]int      `json:"faces"`
}

// MarshalJSON encodes vertices as arrays of three numbers.
func (m *Mesh) MarshalJSON() ([]byte, error) {
	mj := meshJSON{Vertices: make([][3]float64, 0, len(m.Vertices)), Faces: make([][]int, 0, len(m.Faces))}
	for _, v := range m.Vertices {
		mj.Vertices = append(mj.Vertices, vecToArray(v))
	}
	for _, f := range m.Faces {
		mj.Faces = append(mj.Faces, []int{f[0], f[1], f[2]})
	}
	return json.Marshal(mj)
}

// UnmarshalJSON decodes a mesh whose faces may be arbitrary convex polygons.
func (m *Mesh) UnmarshalJSON(data []byte) error {
	var mj meshJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return err
	}
	verts := make([]r3.Vector, 0, len(mj.Vertices))
	for _, v := range mj.Vertices {
		verts = append(verts, arrayToVec(v))
	}
	parsed, err := NewMeshFromPolygons(verts, mj.Faces)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// UnmarshalMeshJSON parses a mesh from its JSON representation.
func UnmarshalMeshJSON(data []byte) (*Mesh, error) {
	m := &Mesh{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal mesh json")
	}
	return m, nil
}

// ParseMeshJSONFile reads a mesh from a JSON file.
func ParseMeshJSONFile(filename string) (*Mesh, error) {
	//nolint:gosec
	data, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read mesh json file %q", filename)
	}
	return UnmarshalMeshJSON(data)
}
