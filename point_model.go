package collision

import "github.com/go-gl/mathgl/mgl64"

// PointModel is a point cloud, one element per point.
type PointModel struct {
	BaseModel
	positions []mgl64.Vec3
}

// NewPointModel returns a point model over positions.
func NewPointModel(name string, positions ...mgl64.Vec3) *PointModel {
	return &PointModel{
		BaseModel: newBaseModel(name),
		positions: positions,
	}
}

func (m *PointModel) ClassName() string {
	return "PointModel"
}

func (m *PointModel) Kind() Kind {
	return KindPoint
}

func (m *PointModel) Size() int {
	return len(m.positions)
}

// SetPositions replaces the points.
func (m *PointModel) SetPositions(positions []mgl64.Vec3) {
	m.positions = positions
}

// Position returns point i.
func (m *PointModel) Position(i int) mgl64.Vec3 {
	return m.positions[i]
}

func (m *PointModel) ComputeBoundingTree(maxDepth int) {
	leaf := m.tree.Leaf()
	leaf.Resize(m.Size())
	if m.Size() == 0 {
		return
	}

	for i, p := range m.positions {
		bb := NewBBForSphere(p, m.proximity)
		leaf.SetParentOf(i, bb.Min, bb.Max)
	}
	m.tree.ComputeBoundingTree(maxDepth)
}

// Center returns point i. Points are spheres of radius zero.
func (m *PointModel) Center(i int) mgl64.Vec3 {
	return m.positions[i]
}

func (m *PointModel) Radius(i int) float64 {
	return 0
}
