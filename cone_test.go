package collision

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestMergeCones(t *testing.T) {
	x := mgl64.Vec3{1, 0, 0}
	y := mgl64.Vec3{0, 1, 0}

	t.Run("same axis", func(t *testing.T) {
		c := MergeCones(Cone{Axis: x}, Cone{Axis: x, Angle: 0.1})
		require.InDelta(t, 0.1, c.Angle, 1e-12)
		require.InDelta(t, 0, c.Axis.Sub(x).Len(), 1e-12)
	})

	t.Run("orthogonal axes", func(t *testing.T) {
		c := MergeCones(Cone{Axis: x}, Cone{Axis: y})
		require.InDelta(t, math.Pi/4, c.Angle, 1e-12)
		require.InDelta(t, 0, c.Axis.Sub(mgl64.Vec3{1, 1, 0}.Normalize()).Len(), 1e-12)
	})

	t.Run("wide cone disables culling", func(t *testing.T) {
		c := MergeCones(Cone{Axis: x, Angle: math.Pi/2 + 0.01}, Cone{Axis: x})
		require.Equal(t, FullConeAngle, c.Angle)
	})

	t.Run("opposite axes", func(t *testing.T) {
		c := MergeCones(Cone{Axis: x}, Cone{Axis: x.Mul(-1)})
		require.Equal(t, FullConeAngle, c.Angle)
	})

	t.Run("full cone stays full", func(t *testing.T) {
		c := MergeCones(FullCone(), Cone{Axis: x})
		require.Equal(t, FullConeAngle, c.Angle)
	})
}

func TestMergeConesNeverShrinks(t *testing.T) {
	axes := []mgl64.Vec3{
		{0, 0, 1},
		mgl64.Vec3{0.1, 0, 1}.Normalize(),
		mgl64.Vec3{0, 0.2, 1}.Normalize(),
		mgl64.Vec3{-0.3, 0.1, 1}.Normalize(),
	}

	acc := Cone{Axis: axes[0]}
	for _, a := range axes[1:] {
		next := MergeCones(acc, Cone{Axis: a, Angle: 0.05})
		require.GreaterOrEqual(t, next.Angle, acc.Angle)
		require.True(t, coneCovers(next, acc))
		require.True(t, coneCovers(next, Cone{Axis: a, Angle: 0.05}))
		acc = next
	}
}

// coneCovers reports whether every direction within inner lies within outer.
func coneCovers(outer, inner Cone) bool {
	if outer.Angle >= FullConeAngle {
		return true
	}
	dot := mgl64.Clamp(outer.Axis.Dot(inner.Axis), -1, 1)
	return math.Acos(dot)+inner.Angle <= outer.Angle+1e-9
}
