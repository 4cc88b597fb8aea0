package collision

import "github.com/go-gl/mathgl/mgl64"

// SphereModel is a set of spheres, one element per sphere.
type SphereModel struct {
	BaseModel
	centers []mgl64.Vec3
	radii   []float64
	rigid   bool
}

// NewSphereModel returns an empty sphere model. Rigid models are tagged
// KindRigidSphere.
func NewSphereModel(name string, rigid bool) *SphereModel {
	return &SphereModel{
		BaseModel: newBaseModel(name),
		rigid:     rigid,
	}
}

func (m *SphereModel) ClassName() string {
	return "SphereModel"
}

func (m *SphereModel) Kind() Kind {
	if m.rigid {
		return KindRigidSphere
	}
	return KindSphere
}

func (m *SphereModel) Size() int {
	return len(m.centers)
}

// AddSphere appends a sphere and returns its element index.
func (m *SphereModel) AddSphere(center mgl64.Vec3, radius float64) int {
	m.centers = append(m.centers, center)
	m.radii = append(m.radii, radius)
	return len(m.centers) - 1
}

// SetCenter moves sphere i.
func (m *SphereModel) SetCenter(i int, center mgl64.Vec3) {
	m.centers[i] = center
}

// Center returns the center of sphere i.
func (m *SphereModel) Center(i int) mgl64.Vec3 {
	return m.centers[i]
}

// Radius returns the radius of sphere i.
func (m *SphereModel) Radius(i int) float64 {
	return m.radii[i]
}

// Truncate keeps the first n spheres.
func (m *SphereModel) Truncate(n int) {
	if n < len(m.centers) {
		m.centers = m.centers[:n]
		m.radii = m.radii[:n]
	}
}

func (m *SphereModel) ComputeBoundingTree(maxDepth int) {
	leaf := m.tree.Leaf()
	leaf.Resize(m.Size())
	if m.Size() == 0 {
		return
	}

	for i, c := range m.centers {
		bb := NewBBForSphere(c, m.radii[i]+m.proximity)
		leaf.SetParentOf(i, bb.Min, bb.Max)
	}
	m.tree.ComputeBoundingTree(maxDepth)
}
