package collision

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BB is an axis-aligned 3D bounding box.
type BB struct {
	Min, Max mgl64.Vec3
}

// NewBB is convenience constructor for BB structs.
func NewBB(min, max mgl64.Vec3) BB {
	return BB{
		Min: min,
		Max: max,
	}
}

// EmptyBB returns an inverted box that is the identity of Merge.
func EmptyBB() BB {
	return BB{
		Min: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

func (bb BB) String() string {
	return fmt.Sprintf("%v %v", bb.Min, bb.Max)
}

// NewBBForExtents constructs a BB centered on a point with the given extents (half sizes).
func NewBBForExtents(c mgl64.Vec3, hx, hy, hz float64) BB {
	h := mgl64.Vec3{hx, hy, hz}
	return BB{
		Min: c.Sub(h),
		Max: c.Add(h),
	}
}

// NewBBForSphere constructs a BB for a sphere with the given center and radius.
func NewBBForSphere(c mgl64.Vec3, r float64) BB {
	return NewBBForExtents(c, r, r, r)
}

// IsEmpty reports whether the box is inverted on any axis.
func (bb BB) IsEmpty() bool {
	return bb.Min[0] > bb.Max[0] || bb.Min[1] > bb.Max[1] || bb.Min[2] > bb.Max[2]
}

// Intersects returns true if a and b intersect.
func (bb BB) Intersects(b BB) bool {
	return bb.Min[0] <= b.Max[0] && b.Min[0] <= bb.Max[0] &&
		bb.Min[1] <= b.Max[1] && b.Min[1] <= bb.Max[1] &&
		bb.Min[2] <= b.Max[2] && b.Min[2] <= bb.Max[2]
}

// Contains returns true if other lies completely within bb.
func (bb BB) Contains(other BB) bool {
	for i := 0; i < 3; i++ {
		if bb.Min[i] > other.Min[i] || bb.Max[i] < other.Max[i] {
			return false
		}
	}
	return true
}

// ContainsPoint returns true if bb contains p.
func (bb BB) ContainsPoint(p mgl64.Vec3) bool {
	return bb.Contains(BB{Min: p, Max: p})
}

// Merge returns a bounding box that holds both bounding boxes.
func (a BB) Merge(b BB) BB {
	return BB{
		Min: mgl64.Vec3{math.Min(a.Min[0], b.Min[0]), math.Min(a.Min[1], b.Min[1]), math.Min(a.Min[2], b.Min[2])},
		Max: mgl64.Vec3{math.Max(a.Max[0], b.Max[0]), math.Max(a.Max[1], b.Max[1]), math.Max(a.Max[2], b.Max[2])},
	}
}

// Expand returns a bounding box that holds both bb and p.
func (bb BB) Expand(p mgl64.Vec3) BB {
	return bb.Merge(BB{Min: p, Max: p})
}

// Inflate grows the box by d on every side.
func (bb BB) Inflate(d float64) BB {
	h := mgl64.Vec3{d, d, d}
	return BB{Min: bb.Min.Sub(h), Max: bb.Max.Add(h)}
}

// Center returns the center of a bounding box.
func (bb BB) Center() mgl64.Vec3 {
	return bb.Min.Add(bb.Max).Mul(0.5)
}

// Extents returns the side lengths of the box.
func (bb BB) Extents() mgl64.Vec3 {
	return bb.Max.Sub(bb.Min)
}

// Volume returns the volume of the bounding box.
func (bb BB) Volume() float64 {
	if bb.IsEmpty() {
		return 0
	}
	l := bb.Extents()
	return l[0] * l[1] * l[2]
}

// LongestAxis returns the axis a cell is split along.
//
// Ties are resolved by the comparison chain below: X wins only when strictly
// longer than Y, and Z wins every tie it takes part in.
func (bb BB) LongestAxis() int {
	l := bb.Extents()
	if l[0] > l[1] {
		if l[0] > l[2] {
			return 0
		}
		return 2
	} else if l[1] > l[2] {
		return 1
	}
	return 2
}

