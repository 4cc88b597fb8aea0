package collision

import "github.com/go-gl/mathgl/mgl64"

// DetectionOutput describes one proximity found between two elements.
type DetectionOutput struct {
	// Elem holds the element index in the first and in the second model.
	Elem [2]int

	// Point holds the closest point on each element.
	Point [2]mgl64.Vec3

	// Normal points from the first element towards the second one.
	Normal mgl64.Vec3

	// Value is the signed distance minus the contact distance.
	Value float64

	// ID identifies the contact point across steps.
	ID int64
}

// DetectionOutputVector is the detection payload of one model pair.
type DetectionOutputVector []DetectionOutput

// ModelPair is an ordered pair of models. Contact keys treat it as unordered.
type ModelPair struct {
	First  Model
	Second Model
}

// Swap returns the pair with both models exchanged.
func (p ModelPair) Swap() ModelPair {
	return ModelPair{First: p.Second, Second: p.First}
}

// Valid reports whether both models are set.
func (p ModelPair) Valid() bool {
	return p.First != nil && p.Second != nil
}

// DetectionOutputMap maps model pairs to their detection payload. Pairs are
// iterated in insertion order.
type DetectionOutputMap struct {
	pairs   []ModelPair
	outputs map[ModelPair]DetectionOutputVector
}

func NewDetectionOutputMap() *DetectionOutputMap {
	return &DetectionOutputMap{
		outputs: make(map[ModelPair]DetectionOutputVector),
	}
}

// Set replaces the payload of the pair (a, b).
func (m *DetectionOutputMap) Set(a, b Model, outputs DetectionOutputVector) {
	p := ModelPair{First: a, Second: b}
	if _, ok := m.outputs[p]; !ok {
		m.pairs = append(m.pairs, p)
	}
	m.outputs[p] = outputs
}

// Add appends outputs to the payload of the pair (a, b).
func (m *DetectionOutputMap) Add(a, b Model, outputs ...DetectionOutput) {
	p := ModelPair{First: a, Second: b}
	m.Set(a, b, append(m.outputs[p], outputs...))
}

// Get returns the payload stored under the exact pair (a, b).
func (m *DetectionOutputMap) Get(a, b Model) (DetectionOutputVector, bool) {
	v, ok := m.outputs[ModelPair{First: a, Second: b}]
	return v, ok
}

// Contains reports whether the pair is present in either orientation.
func (m *DetectionOutputMap) Contains(p ModelPair) bool {
	if _, ok := m.outputs[p]; ok {
		return true
	}
	_, ok := m.outputs[p.Swap()]
	return ok
}

// Pairs returns the stored pairs in insertion order.
func (m *DetectionOutputMap) Pairs() []ModelPair {
	return m.pairs
}

func (m *DetectionOutputMap) Len() int {
	return len(m.pairs)
}

// Clear removes every pair.
func (m *DetectionOutputMap) Clear() {
	m.pairs = m.pairs[:0]
	clear(m.outputs)
}
