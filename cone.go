package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FullConeAngle marks a cluster whose normals span every direction.
const FullConeAngle = 2 * math.Pi

// Cone bounds the surface normals of a cluster: every normal lies within
// Angle of Axis.
type Cone struct {
	Axis  mgl64.Vec3
	Angle float64
}

// FullCone returns a cone that disables culling.
func FullCone() Cone {
	return Cone{Angle: FullConeAngle}
}

// SelfCollisionFree reports whether a cluster bounded by c cannot fold onto
// itself.
func (c Cone) SelfCollisionFree() bool {
	return c.Angle < math.Pi/2
}

// MergeCones returns the cone covering acc and next. The result depends on
// the argument order, so clusters are always folded left to right.
func MergeCones(acc, next Cone) Cone {
	alpha := math.Max(acc.Angle, next.Angle)
	if alpha > math.Pi/2 {
		return Cone{Axis: acc.Axis, Angle: FullConeAngle}
	}

	dot := mgl64.Clamp(next.Axis.Dot(acc.Axis), -1, 1)
	beta := math.Acos(dot)

	sum := next.Axis.Add(acc.Axis)
	if sum.Len() < mgl64.Epsilon {
		return Cone{Axis: acc.Axis, Angle: FullConeAngle}
	}
	return Cone{Axis: sum.Normalize(), Angle: beta/2 + alpha}
}
