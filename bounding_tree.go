package collision

import (
	"sort"

	"github.com/aukilabs/go-tooling/pkg/logs"
)

// SplitThreshold is the largest number of subcells a cube keeps without
// being split during a rebuild.
const SplitThreshold = 4

// BoundingTree owns the levels of a cube hierarchy built over one geometric
// model. Levels are stored coarsest first and the last one is the leaf level,
// holding one cube per geometric element.
type BoundingTree struct {
	levels   []*CubeModel
	building bool
}

// NewBoundingTree returns a tree made of an empty leaf level.
func NewBoundingTree() *BoundingTree {
	t := &BoundingTree{}
	t.levels = []*CubeModel{{tree: t}}
	return t
}

// Level returns the level at depth d, or nil when d is out of range.
func (t *BoundingTree) Level(d int) *CubeModel {
	if d < 0 || d >= len(t.levels) {
		return nil
	}
	return t.levels[d]
}

// Levels returns the number of levels, leaf level included.
func (t *BoundingTree) Levels() int {
	return len(t.levels)
}

// Depth returns the maximum depth the tree was last built with, or -1 when it
// was never built.
func (t *BoundingTree) Depth() int {
	return len(t.levels) - 2
}

// Root returns the coarsest level.
func (t *BoundingTree) Root() *CubeModel {
	return t.levels[0]
}

// Leaf returns the leaf level.
func (t *BoundingTree) Leaf() *CubeModel {
	return t.levels[len(t.levels)-1]
}

// ComputeBoundingTree makes the tree hold maxDepth+1 levels above the leaf
// level, the root level having a single cube enclosing every leaf.
//
// The tree is rebuilt when its shape differs from the requested one, when
// the root was emptied by a leaf resize or when a previous build did not
// complete. Otherwise only boxes and cones are refreshed, bottom-up.
func (t *BoundingTree) ComputeBoundingTree(maxDepth int) {
	if maxDepth < 0 {
		maxDepth = 0
	}

	if !t.building && len(t.levels)-1 == maxDepth+1 && !t.Root().Empty() {
		for d := len(t.levels) - 2; d >= 0; d-- {
			t.levels[d].UpdateCubes()
		}
		instrumentTreeUpdate("refresh")
		return
	}

	t.building = true
	t.rebuild(maxDepth)
	t.building = false
	instrumentTreeUpdate("rebuild")
}

func (t *BoundingTree) rebuild(maxDepth int) {
	leaf := t.Leaf()
	levels := make([]*CubeModel, maxDepth+2)
	for d := 0; d <= maxDepth; d++ {
		var l *CubeModel
		if d < len(t.levels)-1 {
			l = t.levels[d]
		} else {
			l = &CubeModel{tree: t}
		}
		l.depth = d
		l.elems = l.elems[:0]
		levels[d] = l
	}
	leaf.depth = maxDepth + 1
	levels[maxDepth+1] = leaf
	t.levels = levels

	logs.WithTag("max_depth", maxDepth).
		WithTag("leaves", leaf.Size()).
		Debug("building bounding tree")

	for i := range leaf.elems {
		leaf.elems[i].Subcells = CubeRange{Level: leaf.depth}
	}

	levels[0].AddCube(CubeRange{Level: leaf.depth, Begin: 0, End: leaf.Size()})

	for d := 0; d < maxDepth; d++ {
		level, next := levels[d], levels[d+1]
		for i := range level.elems {
			t.split(level, next, i)
		}
	}

	for i := range leaf.elems {
		if c := leaf.elems[i].Children.Begin; c >= 0 && c < len(leaf.parentOf) {
			leaf.parentOf[c] = i
		}
	}
}

func (t *BoundingTree) split(level, next *CubeModel, i int) {
	sub := level.elems[i].Subcells
	n := sub.Len()
	if n <= SplitThreshold {
		return
	}

	axis := level.elems[i].Box.LongestAxis()
	middle := sub.Begin + (n+1)/2

	cells := t.Leaf().elems[sub.Begin:sub.End]
	sort.SliceStable(cells, func(a, b int) bool {
		return cells[a].Box.Min[axis]+cells[a].Box.Max[axis] <
			cells[b].Box.Min[axis]+cells[b].Box.Max[axis]
	})

	c1 := next.AddCube(CubeRange{Level: sub.Level, Begin: sub.Begin, End: middle})
	c2 := next.AddCube(CubeRange{Level: sub.Level, Begin: middle, End: sub.End})
	level.elems[i].Subcells = CubeRange{Level: next.depth, Begin: c1, End: c2 + 1}
}
