package collision

import "github.com/go-gl/mathgl/mgl64"

// LineModel is a set of segments indexing a shared vertex array.
type LineModel struct {
	BaseModel
	vertices []mgl64.Vec3
	edges    [][2]int
}

func NewLineModel(name string, vertices []mgl64.Vec3, edges [][2]int) *LineModel {
	return &LineModel{
		BaseModel: newBaseModel(name),
		vertices:  vertices,
		edges:     edges,
	}
}

func (m *LineModel) ClassName() string {
	return "LineModel"
}

func (m *LineModel) Kind() Kind {
	return KindLine
}

func (m *LineModel) Size() int {
	return len(m.edges)
}

// Segment returns the end points of edge i.
func (m *LineModel) Segment(i int) (mgl64.Vec3, mgl64.Vec3) {
	e := m.edges[i]
	return m.vertices[e[0]], m.vertices[e[1]]
}

// SetVertices replaces the vertex positions, keeping the topology.
func (m *LineModel) SetVertices(vertices []mgl64.Vec3) {
	m.vertices = vertices
}

func (m *LineModel) ComputeBoundingTree(maxDepth int) {
	leaf := m.tree.Leaf()
	leaf.Resize(m.Size())
	if m.Size() == 0 {
		return
	}

	for i := range m.edges {
		a, b := m.Segment(i)
		bb := NewBB(a, a).Expand(b).Inflate(m.proximity)
		leaf.SetParentOf(i, bb.Min, bb.Max)
	}
	m.tree.ComputeBoundingTree(maxDepth)
}
