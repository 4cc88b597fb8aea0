package collision

import "github.com/go-gl/mathgl/mgl64"

// CubeRange addresses the cubes [Begin, End) of one level of a BoundingTree.
type CubeRange struct {
	Level int
	Begin int
	End   int
}

// Len returns the number of cubes in the range.
func (r CubeRange) Len() int {
	if r.End < r.Begin {
		return 0
	}
	return r.End - r.Begin
}

// ElemRange addresses the elements [Begin, End) of a geometric model.
type ElemRange struct {
	Begin int
	End   int
}

// Len returns the number of elements in the range.
func (r ElemRange) Len() int {
	if r.End < r.Begin {
		return 0
	}
	return r.End - r.Begin
}

// Cube is a single node of the hierarchy.
type Cube struct {
	Box  BB
	Cone Cone

	// Subcells is the range of cubes merged into this one. It points into the
	// next level for split cells and into the leaf level otherwise.
	Subcells CubeRange

	// Children is the range of geometric elements owned by a leaf cube. It is
	// empty on every other level.
	Children ElemRange
}

// CubeModel is one level of a BoundingTree.
type CubeModel struct {
	tree     *BoundingTree
	depth    int
	elems    []Cube
	parentOf []int
}

// Size returns the number of cubes of the level.
func (m *CubeModel) Size() int {
	return len(m.elems)
}

// Empty reports whether the level holds no cube.
func (m *CubeModel) Empty() bool {
	return len(m.elems) == 0
}

// Depth returns the position of the level in its tree, 0 being the root.
func (m *CubeModel) Depth() int {
	return m.depth
}

// Previous returns the coarser level, or nil for the root.
func (m *CubeModel) Previous() *CubeModel {
	return m.tree.Level(m.depth - 1)
}

// Next returns the finer level, or nil for the leaf level.
func (m *CubeModel) Next() *CubeModel {
	return m.tree.Level(m.depth + 1)
}

func (m *CubeModel) isLeafLevel() bool {
	return m.Next() == nil
}

// Cube returns a copy of the cube at index i.
func (m *CubeModel) Cube(i int) Cube {
	return m.elems[i]
}

// Resize changes the number of cubes. Any change empties every coarser level
// so that the next ComputeBoundingTree rebuilds the hierarchy. On the leaf
// level each cube is reset to own the element with the same index.
func (m *CubeModel) Resize(size int) {
	if size < 0 {
		size = 0
	}
	if size == len(m.elems) {
		return
	}

	for p := m.Previous(); p != nil; p = p.Previous() {
		p.Resize(0)
	}

	if cap(m.elems) >= size {
		m.elems = m.elems[:size]
	} else {
		elems := make([]Cube, size)
		copy(elems, m.elems)
		m.elems = elems
	}

	if !m.isLeafLevel() {
		for i := range m.elems {
			m.elems[i] = Cube{}
		}
		m.parentOf = m.parentOf[:0]
		return
	}

	m.parentOf = make([]int, size)
	for i := range m.elems {
		m.elems[i] = Cube{
			Cone:     FullCone(),
			Subcells: CubeRange{Level: m.depth},
			Children: ElemRange{Begin: i, End: i + 1},
		}
		m.parentOf[i] = i
	}
}

// ParentOf returns the leaf cube owning element child.
func (m *CubeModel) ParentOf(child int) int {
	return m.parentOf[child]
}

// SetParentOf sets the box of the leaf cube owning element child. The
// element carries no normal information, so its cone disables culling.
func (m *CubeModel) SetParentOf(child int, min, max mgl64.Vec3) {
	i := m.parentOf[child]
	m.elems[i].Box = NewBB(min, max)
	m.elems[i].Cone.Angle = FullConeAngle
}

// SetParentOfWithNormal sets the box and the normal cone of the leaf cube
// owning element child.
func (m *CubeModel) SetParentOfWithNormal(child int, min, max, normal mgl64.Vec3, angle float64) {
	i := m.parentOf[child]
	m.elems[i].Box = NewBB(min, max)
	m.elems[i].Cone = Cone{Axis: normal, Angle: angle}
}

// AddCube appends a cube merging subcells and returns its index.
func (m *CubeModel) AddCube(subcells CubeRange) int {
	i := len(m.elems)
	m.elems = append(m.elems, Cube{Subcells: subcells})
	m.UpdateCube(i)
	return i
}

// UpdateCube recomputes the box and the cone of cube i from its subcells.
// Cones are folded in subcell order.
func (m *CubeModel) UpdateCube(i int) {
	sub := m.elems[i].Subcells
	if sub.Len() == 0 {
		return
	}
	src := m.tree.Level(sub.Level)
	if src == nil || sub.End > src.Size() {
		return
	}

	first := src.elems[sub.Begin]
	box, cone := first.Box, first.Cone
	for j := sub.Begin + 1; j < sub.End; j++ {
		c := src.elems[j]
		cone = MergeCones(cone, c.Cone)
		box = box.Merge(c.Box)
	}
	m.elems[i].Box = box
	m.elems[i].Cone = cone
}

// UpdateCubes recomputes every cube of the level.
func (m *CubeModel) UpdateCubes() {
	for i := range m.elems {
		m.UpdateCube(i)
	}
}

// IsLeaf reports whether cube i directly owns geometric elements.
func (m *CubeModel) IsLeaf(i int) bool {
	return m.elems[i].Children.Len() > 0
}

// InternalChildren returns the cubes to descend into from cube i.
func (m *CubeModel) InternalChildren(i int) CubeRange {
	return m.elems[i].Subcells
}

// ExternalChildren returns the geometric elements owned by cube i.
func (m *CubeModel) ExternalChildren(i int) ElemRange {
	return m.elems[i].Children
}
