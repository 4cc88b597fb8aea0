package collision

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// ElementFilter is implemented by models that exclude some element pairs
// from self-collision, such as adjacent triangles.
type ElementFilter interface {
	CanCollide(e1, e2 int) bool
}

// CanCollide reports whether two triangles share no corner.
func (m *TriangleModel) CanCollide(e1, e2 int) bool {
	return !m.SharesVertex(e1, e2)
}

// Query calls f for every element whose leaf box intersects bb.
func (t *BoundingTree) Query(bb BB, f func(elem int)) {
	if t.Depth() < 0 || t.Root().Empty() {
		return
	}
	t.subtreeQuery(t.Root(), 0, bb, f)
}

func (t *BoundingTree) subtreeQuery(level *CubeModel, i int, bb BB, f func(elem int)) {
	if !level.elems[i].Box.Intersects(bb) {
		return
	}
	if level.IsLeaf(i) {
		ext := level.ExternalChildren(i)
		for e := ext.Begin; e < ext.End; e++ {
			f(e)
		}
		return
	}
	sub := level.InternalChildren(i)
	next := t.Level(sub.Level)
	for j := sub.Begin; j < sub.End; j++ {
		t.subtreeQuery(next, j, bb, f)
	}
}

type traversal struct {
	in     *Intersection
	x      ElementIntersector
	m1, m2 Model
	self   bool
	filter ElementFilter
	out    DetectionOutputVector
}

func (w *traversal) tree1() *BoundingTree {
	return w.m1.Tree()
}

func (w *traversal) tree2() *BoundingTree {
	return w.m2.Tree()
}

func (w *traversal) collide(l1 *CubeModel, i1 int, l2 *CubeModel, i2 int) {
	c1, c2 := l1.elems[i1], l2.elems[i2]
	if !c1.Box.Inflate(w.in.AlarmDistance).Intersects(c2.Box) {
		return
	}

	leaf1, leaf2 := l1.IsLeaf(i1), l2.IsLeaf(i2)
	switch {
	case leaf1 && leaf2:
		ext1, ext2 := l1.ExternalChildren(i1), l2.ExternalChildren(i2)
		for e1 := ext1.Begin; e1 < ext1.End; e1++ {
			for e2 := ext2.Begin; e2 < ext2.End; e2++ {
				w.intersect(e1, e2)
			}
		}

	case leaf1 || (!leaf2 && c2.Box.Volume() > c1.Box.Volume()):
		sub := l2.InternalChildren(i2)
		next := w.tree2().Level(sub.Level)
		for j := sub.Begin; j < sub.End; j++ {
			w.collide(l1, i1, next, j)
		}

	default:
		sub := l1.InternalChildren(i1)
		next := w.tree1().Level(sub.Level)
		for j := sub.Begin; j < sub.End; j++ {
			w.collide(next, j, l2, i2)
		}
	}
}

func (w *traversal) selfCollide(l *CubeModel, i int) {
	c := l.elems[i]
	if c.Cone.SelfCollisionFree() {
		return
	}

	if l.IsLeaf(i) {
		ext := l.ExternalChildren(i)
		for e1 := ext.Begin; e1 < ext.End; e1++ {
			for e2 := e1 + 1; e2 < ext.End; e2++ {
				w.intersect(e1, e2)
			}
		}
		return
	}

	sub := l.InternalChildren(i)
	next := w.tree1().Level(sub.Level)
	for a := sub.Begin; a < sub.End; a++ {
		w.selfCollide(next, a)
		for b := a + 1; b < sub.End; b++ {
			w.collide(next, a, next, b)
		}
	}
}

func (w *traversal) intersect(e1, e2 int) {
	if w.self {
		if e1 == e2 {
			return
		}
		if w.filter != nil && !w.filter.CanCollide(e1, e2) {
			return
		}
	}
	w.x.Intersect(w.m1, e1, w.m2, e2, w.in, &w.out)
}

func detectable(m Model) bool {
	return m != nil && m.IsActive() && m.Size() > 0 &&
		m.Tree().Depth() >= 0 && !m.Tree().Root().Empty()
}

// Detect walks the bounding trees of every pair of models that may collide
// and returns the proximities found by the registered intersectors. A pair
// is considered when both models are active, at least one is simulated and
// their filters agree. Models with self-collision enabled are also tested
// against themselves.
//
// Bounding trees must have been computed beforehand.
func Detect(models []Model, in *Intersection) *DetectionOutputMap {
	outputs := NewDetectionOutputMap()

	for i, m1 := range models {
		if !detectable(m1) {
			continue
		}
		if m1.SelfCollision() && m1.IsSimulated() {
			detectPair(outputs, in, m1, m1)
		}

		for _, m2 := range models[i+1:] {
			if !detectable(m2) {
				continue
			}
			if !m1.IsSimulated() && !m2.IsSimulated() {
				continue
			}
			if m1.Filter().Reject(m2.Filter()) {
				continue
			}
			detectPair(outputs, in, m1, m2)
		}
	}
	return outputs
}

func detectPair(outputs *DetectionOutputMap, in *Intersection, m1, m2 Model) {
	x, swapped, ok := in.Find(m1, m2)
	if !ok {
		logs.WithTag("model1", m1.Name()).
			WithTag("model2", m2.Name()).
			Debug("no intersector for model pair")
		return
	}
	if swapped {
		m1, m2 = m2, m1
	}

	w := traversal{
		in:   in,
		x:    x,
		m1:   m1,
		m2:   m2,
		self: m1 == m2,
	}

	if w.self {
		w.filter, _ = m1.(ElementFilter)
		w.selfCollide(m1.Tree().Root(), 0)
	} else {
		w.collide(m1.Tree().Root(), 0, m2.Tree().Root(), 0)
	}

	if len(w.out) > 0 {
		outputs.Set(m1, m2, w.out)
	}
}
