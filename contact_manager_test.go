package collision

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func newTestSpheres(names ...string) []*SphereModel {
	models := make([]*SphereModel, 0, len(names))
	for i, name := range names {
		m := NewSphereModel(name, false)
		m.AddSphere(mgl64.Vec3{float64(i), 0, 0}, 1)
		models = append(models, m)
	}
	return models
}

func outputsFor(pairs ...[2]Model) *DetectionOutputMap {
	outputs := NewDetectionOutputMap()
	for _, p := range pairs {
		outputs.Add(p[0], p[1], DetectionOutput{
			Elem:   [2]int{0, 0},
			Normal: mgl64.Vec3{1, 0, 0},
			Value:  -0.1,
			ID:     1,
		})
	}
	return outputs
}

func newTestManager() *ContactManager {
	return NewContactManager(DefaultContactFactory(), NewIntersection(0.1, 0), DefaultResponse)
}

func TestContactManagerCreatesContacts(t *testing.T) {
	s := newTestSpheres("a", "b")
	a, b := s[0], s[1]
	a.AddTag("x")
	b.AddTag("y")
	b.AddTag("x")

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{a, b}))

	require.Len(t, m.Contacts(), 1)
	c := m.Contacts()[0]
	require.Equal(t, "a-b", c.Name())
	require.Equal(t, []string{"x", "y"}, c.Tags())
	require.Equal(t, ContactStateFirstCollision, c.State())
	require.IsType(t, &PenaltyContact{}, c)
	require.Len(t, c.Constraints(), 1)

	found, ok := m.Contact(b, a)
	require.True(t, ok)
	require.Equal(t, c, found)
}

func TestContactManagerPersistsContacts(t *testing.T) {
	s := newTestSpheres("a", "b")
	a, b := s[0], s[1]

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{a, b}))
	c := m.Contacts()[0]

	m.CreateContacts(outputsFor([2]Model{b, a}))
	require.Len(t, m.Contacts(), 1)
	require.Same(t, c, m.Contacts()[0])
	require.Equal(t, ContactStateNormal, c.State())
}

func TestContactManagerRemovesInactiveContacts(t *testing.T) {
	s := newTestSpheres("a", "b", "c", "d")
	a, b, c, d := s[0], s[1], s[2], s[3]
	c.SetContactResponse(StickResponse + "?persistence=2")
	d.SetContactResponse(StickResponse + "?persistence=2")

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{a, b}, [2]Model{c, d}))
	require.Len(t, m.Contacts(), 2)

	penalty, _ := m.Contact(a, b)
	stick, _ := m.Contact(c, d)
	require.IsType(t, &StickContact{}, stick)

	m.CreateContacts(NewDetectionOutputMap())
	require.Equal(t, []Contact{stick}, m.Contacts())
	require.Equal(t, ContactStateInvalidated, penalty.State())
	require.Equal(t, ContactStateStale, stick.State())

	m.CreateContacts(NewDetectionOutputMap())
	require.Equal(t, []Contact{stick}, m.Contacts())

	m.CreateContacts(NewDetectionOutputMap())
	require.Empty(t, m.Contacts())
	require.Equal(t, ContactStateInvalidated, stick.State())
}

func TestContactManagerRevivesStaleContact(t *testing.T) {
	s := newTestSpheres("a", "b")
	a, b := s[0], s[1]
	a.SetContactResponse(StickResponse)

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{a, b}))
	c := m.Contacts()[0].(*StickContact)

	m.CreateContacts(NewDetectionOutputMap())
	require.Equal(t, 1, c.StaleSteps())

	m.CreateContacts(outputsFor([2]Model{a, b}))
	require.Zero(t, c.StaleSteps())
	require.Equal(t, ContactStateFirstCollision, c.State())
	require.Len(t, m.Contacts(), 1)
}

func TestContactManagerDetectedPairWithoutOutputsIsNotStale(t *testing.T) {
	s := newTestSpheres("a", "b")
	a, b := s[0], s[1]
	a.SetContactResponse(StickResponse + "?persistence=1")

	detected := NewDetectionOutputMap()
	detected.Set(a, b, nil)

	m := newTestManager()
	m.CreateContacts(detected)
	require.Len(t, m.Contacts(), 1)
	c := m.Contacts()[0].(*StickContact)
	require.Equal(t, ContactStateFirstCollision, c.State())
	require.Zero(t, c.StaleSteps())

	m.CreateContacts(detected)
	require.Equal(t, []Contact{c}, m.Contacts())
	require.Equal(t, ContactStateNormal, c.State())
	require.Zero(t, c.StaleSteps())
	require.True(t, c.KeepAlive())

	m.CreateContacts(NewDetectionOutputMap())
	require.Equal(t, ContactStateStale, c.State())
	require.Equal(t, 1, c.StaleSteps())
}

func TestContactManagerContactResponse(t *testing.T) {
	tests := []struct {
		scenario string
		r1       string
		r2       string
		expected string
	}{
		{
			scenario: "no override",
			expected: "default?stiffness=5",
		},
		{
			scenario: "first override",
			r1:       FrictionResponse,
			expected: FrictionResponse,
		},
		{
			scenario: "second override",
			r2:       StickResponse,
			expected: StickResponse,
		},
		{
			scenario: "same override",
			r1:       StickResponse,
			r2:       StickResponse,
			expected: StickResponse,
		},
		{
			scenario: "conflicting overrides",
			r1:       FrictionResponse,
			r2:       StickResponse,
			expected: "default?stiffness=5",
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			s := newTestSpheres("a", "b")
			s[0].SetContactResponse(test.r1)
			s[1].SetContactResponse(test.r2)

			m := newTestManager()
			m.SetDefaultResponse(DefaultResponse, "stiffness=5")
			require.Equal(t, test.expected, m.ContactResponse(s[0], s[1]))
		})
	}
}

func TestContactManagerUsesResponseParams(t *testing.T) {
	s := newTestSpheres("a", "b")

	m := newTestManager()
	m.SetDefaultResponse(DefaultResponse, "stiffness=5")
	m.CreateContacts(outputsFor([2]Model{s[0], s[1]}))

	require.Len(t, m.Contacts(), 1)
	c := m.Contacts()[0].(*PenaltyContact)
	require.Equal(t, 5.0, c.Stiffness())
	require.Equal(t, 5.0, c.Constraints()[0].Stiffness)
}

func TestContactManagerNullResponse(t *testing.T) {
	s := newTestSpheres("a", "b")
	s[0].SetContactResponse(NullResponse)

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{s[0], s[1]}))
	require.Empty(t, m.Contacts())
	require.Zero(t, s[0].NumberOfContacts())
}

func TestContactManagerThrottlesCreationErrors(t *testing.T) {
	a := NewSphereModel("a", true)
	a.AddSphere(mgl64.Vec3{}, 1)
	b := NewSphereModel("b", true)
	b.AddSphere(mgl64.Vec3{1, 0, 0}, 1)

	var entries []string
	logs.SetInlineEncoder()
	logs.SetLogger(func(e logs.Entry) {
		entries = append(entries, fmt.Sprint(e))
	})

	m := newTestManager()
	for i := 0; i < 15; i++ {
		m.CreateContacts(outputsFor([2]Model{a, b}))
	}
	require.Empty(t, m.Contacts())

	failed := 0
	suppressed := 0
	supported := 0
	for _, e := range entries {
		if strings.Contains(e, "contact creation failed") {
			failed++
		}
		if strings.Contains(e, "suppressed") {
			suppressed++
		}
		if strings.Contains(e, "supported") && strings.Contains(e, "Sphere-Sphere") {
			supported++
		}
	}
	require.Equal(t, MaxCreationErrorMessages, failed)
	require.Equal(t, 1, suppressed)
	require.Equal(t, 1, supported)
}

func TestContactManagerSkipsInvalidPairs(t *testing.T) {
	s := newTestSpheres("a")

	outputs := NewDetectionOutputMap()
	outputs.Set(nil, s[0], DetectionOutputVector{{ID: 1}})

	m := newTestManager()
	m.CreateContacts(outputs)
	require.Empty(t, m.Contacts())
}

func TestContactManagerNumberOfContacts(t *testing.T) {
	s := newTestSpheres("a", "b", "c")
	a, b, c := s[0], s[1], s[2]

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{a, b}, [2]Model{a, c}))
	require.Equal(t, 2, a.NumberOfContacts())
	require.Equal(t, 1, b.NumberOfContacts())
	require.Equal(t, 1, c.NumberOfContacts())

	m.CreateContacts(outputsFor([2]Model{b, c}))
	require.Zero(t, a.NumberOfContacts())
	require.Equal(t, 1, b.NumberOfContacts())
	require.Equal(t, 1, c.NumberOfContacts())
}

func TestContactManagerSelfContact(t *testing.T) {
	s := newTestSpheres("a")

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{s[0], s[0]}))
	require.Len(t, m.Contacts(), 1)
	require.Equal(t, "a-a", m.Contacts()[0].Name())
	require.Equal(t, 1, s[0].NumberOfContacts())
}

func TestContactManagerRemoveContacts(t *testing.T) {
	s := newTestSpheres("a", "b", "c")
	a, b, c := s[0], s[1], s[2]

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{a, b}, [2]Model{b, c}))
	ab, _ := m.Contact(a, b)
	bc, _ := m.Contact(b, c)

	m.RemoveContacts(ab)
	require.Equal(t, []Contact{bc}, m.Contacts())
	require.Equal(t, ContactStateInvalidated, ab.State())
	require.Zero(t, a.NumberOfContacts())

	m.RemoveContacts(ab)
	require.Equal(t, []Contact{bc}, m.Contacts())

	m.RemoveContacts()
	require.Equal(t, []Contact{bc}, m.Contacts())
}

func TestContactManagerRemoveModel(t *testing.T) {
	s := newTestSpheres("a", "b", "c")
	a, b, c := s[0], s[1], s[2]

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{a, b}, [2]Model{b, c}, [2]Model{a, c}))
	require.Len(t, m.Contacts(), 3)
	bc, _ := m.Contact(b, c)

	m.RemoveModel(a)
	require.Equal(t, []Contact{bc}, m.Contacts())
	require.Zero(t, a.NumberOfContacts())
	require.Equal(t, 1, b.NumberOfContacts())
}

func TestContactManagerChangeInstance(t *testing.T) {
	s := newTestSpheres("a", "b", "c")
	a, b, c := s[0], s[1], s[2]

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{a, b}))
	ab := m.Contacts()[0]

	m.ChangeInstance(1)
	require.Equal(t, Instance(1), m.Instance())
	require.Empty(t, m.Contacts())
	require.Zero(t, a.NumberOfContacts())

	m.CreateContacts(outputsFor([2]Model{b, c}))
	bc := m.Contacts()[0]
	_, ok := m.Contact(a, b)
	require.False(t, ok)

	m.ChangeInstance(0)
	require.Equal(t, []Contact{ab}, m.Contacts())
	require.Equal(t, ContactStateFirstCollision, ab.State())
	require.Equal(t, 1, a.NumberOfContacts())
	require.Zero(t, c.NumberOfContacts())

	m.RemoveModel(c)
	require.Equal(t, ContactStateInvalidated, bc.State())

	m.ChangeInstance(1)
	require.Empty(t, m.Contacts())
}

func TestContactManagerCleanup(t *testing.T) {
	s := newTestSpheres("a", "b")

	m := newTestManager()
	m.CreateContacts(outputsFor([2]Model{s[0], s[1]}))
	c := m.Contacts()[0]

	m.Reset()
	require.Empty(t, m.Contacts())
	require.Equal(t, ContactStateInvalidated, c.State())
	require.Zero(t, s[0].NumberOfContacts())
}
