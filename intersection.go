package collision

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ElementIntersector computes the proximities between element e1 of m1 and
// element e2 of m2, appends them to out and returns how many were found.
type ElementIntersector interface {
	Intersect(m1 Model, e1 int, m2 Model, e2 int, in *Intersection, out *DetectionOutputVector) int
}

// IntersectorFunc adapts a function to the ElementIntersector interface.
type IntersectorFunc func(m1 Model, e1 int, m2 Model, e2 int, in *Intersection, out *DetectionOutputVector) int

func (f IntersectorFunc) Intersect(m1 Model, e1 int, m2 Model, e2 int, in *Intersection, out *DetectionOutputVector) int {
	return f(m1, e1, m2, e2, in, out)
}

type kindPair struct {
	a, b Kind
}

// Intersection is the intersection method: distances used by the traversal
// and the intersectors registered per model kind pair.
type Intersection struct {
	// AlarmDistance is the distance under which element pairs are tested.
	AlarmDistance float64

	// ContactDistance is the distance under which elements are in contact.
	ContactDistance float64

	intersectors map[kindPair]ElementIntersector
}

func NewIntersection(alarmDistance, contactDistance float64) *Intersection {
	return &Intersection{
		AlarmDistance:   alarmDistance,
		ContactDistance: contactDistance,
		intersectors:    make(map[kindPair]ElementIntersector),
	}
}

// Register sets the intersector used for models of kinds a and b, in that
// order.
func (in *Intersection) Register(a, b Kind, x ElementIntersector) *Intersection {
	in.intersectors[kindPair{a, b}] = x
	return in
}

// Find returns the intersector for m1 and m2. When swapped is true the
// intersector expects the models in the reverse order.
func (in *Intersection) Find(m1, m2 Model) (x ElementIntersector, swapped bool, ok bool) {
	if x, ok = in.intersectors[kindPair{m1.Kind(), m2.Kind()}]; ok {
		return x, false, true
	}
	if x, ok = in.intersectors[kindPair{m2.Kind(), m1.Kind()}]; ok {
		return x, true, true
	}
	return nil, false, false
}

// SphereElements is implemented by models whose elements are spheres.
type SphereElements interface {
	Center(i int) mgl64.Vec3
	Radius(i int) float64
}

// SphereIntersector reports a proximity between two sphere-like elements
// closer than the alarm distance.
var SphereIntersector = IntersectorFunc(intersectSpheres)

func intersectSpheres(m1 Model, e1 int, m2 Model, e2 int, in *Intersection, out *DetectionOutputVector) int {
	s1, ok1 := m1.(SphereElements)
	s2, ok2 := m2.(SphereElements)
	if !ok1 || !ok2 {
		return 0
	}

	c1, c2 := s1.Center(e1), s2.Center(e2)
	r1, r2 := s1.Radius(e1), s2.Radius(e2)

	delta := c2.Sub(c1)
	d := delta.Len()
	dist := d - r1 - r2
	if dist > in.AlarmDistance {
		return 0
	}

	n := mgl64.Vec3{1, 0, 0}
	if d > mgl64.Epsilon {
		n = delta.Mul(1 / d)
	}

	*out = append(*out, DetectionOutput{
		Elem:   [2]int{e1, e2},
		Point:  [2]mgl64.Vec3{c1.Add(n.Mul(r1)), c2.Sub(n.Mul(r2))},
		Normal: n,
		Value:  dist - in.ContactDistance,
		ID:     int64(e1)<<32 | int64(e2),
	})
	return 1
}

// RegisterSphereIntersectors registers SphereIntersector for every pair of
// point and sphere kinds.
func RegisterSphereIntersectors(in *Intersection) *Intersection {
	kinds := []Kind{KindPoint, KindSphere, KindRigidSphere}
	for _, a := range kinds {
		for _, b := range kinds {
			in.Register(a, b, SphereIntersector)
		}
	}
	return in
}
