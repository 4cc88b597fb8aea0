package collision

import "github.com/go-gl/mathgl/mgl64"

// TriangleModel is a triangle mesh. Each triangle seeds its leaf cube with a
// zero-angle cone around its normal so that flat regions are culled from
// self-collision.
type TriangleModel struct {
	BaseModel
	vertices  []mgl64.Vec3
	triangles [][3]int
}

func NewTriangleModel(name string, vertices []mgl64.Vec3, triangles [][3]int) *TriangleModel {
	return &TriangleModel{
		BaseModel: newBaseModel(name),
		vertices:  vertices,
		triangles: triangles,
	}
}

func (m *TriangleModel) ClassName() string {
	return "TriangleModel"
}

func (m *TriangleModel) Kind() Kind {
	return KindTriangle
}

func (m *TriangleModel) Size() int {
	return len(m.triangles)
}

// SetVertices replaces the vertex positions, keeping the topology.
func (m *TriangleModel) SetVertices(vertices []mgl64.Vec3) {
	m.vertices = vertices
}

// Triangle returns the corners of triangle i.
func (m *TriangleModel) Triangle(i int) (mgl64.Vec3, mgl64.Vec3, mgl64.Vec3) {
	t := m.triangles[i]
	return m.vertices[t[0]], m.vertices[t[1]], m.vertices[t[2]]
}

// Normal returns the unit normal of triangle i, or the zero vector for a
// degenerate triangle.
func (m *TriangleModel) Normal(i int) mgl64.Vec3 {
	a, b, c := m.Triangle(i)
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() < mgl64.Epsilon {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

// SharesVertex reports whether triangles i and j have a common corner.
func (m *TriangleModel) SharesVertex(i, j int) bool {
	for _, a := range m.triangles[i] {
		for _, b := range m.triangles[j] {
			if a == b {
				return true
			}
		}
	}
	return false
}

func (m *TriangleModel) ComputeBoundingTree(maxDepth int) {
	leaf := m.tree.Leaf()
	leaf.Resize(m.Size())
	if m.Size() == 0 {
		return
	}

	for i := range m.triangles {
		a, b, c := m.Triangle(i)
		bb := NewBB(a, a).Expand(b).Expand(c).Inflate(m.proximity)

		n := m.Normal(i)
		if n.Len() == 0 {
			leaf.SetParentOf(i, bb.Min, bb.Max)
			continue
		}
		leaf.SetParentOfWithNormal(i, bb.Min, bb.Max, n, 0)
	}
	m.tree.ComputeBoundingTree(maxDepth)
}
