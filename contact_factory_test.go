package collision

import (
	"errors"
	"testing"

	terrors "github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	name, params, err := ParseResponse("FrictionContactConstraint?mu=0.4&tol=0.01")
	require.NoError(t, err)
	require.Equal(t, "FrictionContactConstraint", name)
	require.Equal(t, 0.4, params.Float("mu", 0))
	require.Equal(t, 0.01, params.Float("tol", 0))
	require.Equal(t, 3, params.Int("persistence", 3))

	name, params, err = ParseResponse("default")
	require.NoError(t, err)
	require.Equal(t, "default", name)
	require.Empty(t, params)

	_, params, err = ParseResponse("default?stiffness=abc")
	require.NoError(t, err)
	require.Equal(t, 100.0, params.Float("stiffness", 100))

	_, _, err = ParseResponse("default?stiffness=%zz")
	require.Error(t, err)
	require.Equal(t, ErrTypeInvalidConfig, terrors.Type(err))
}

func TestContactFactoryCreate(t *testing.T) {
	s := newTestSpheres("a", "b")
	f := DefaultContactFactory()

	c, err := f.Create(FrictionResponse+"?mu=0.2", s[0], s[1], NewIntersection(0, 0), false)
	require.NoError(t, err)
	require.IsType(t, &FrictionContact{}, c)
	require.Equal(t, 0.2, c.(*FrictionContact).Mu())

	m1, m2 := c.Models()
	require.Equal(t, Model(s[0]), m1)
	require.Equal(t, Model(s[1]), m2)
}

func TestContactFactoryErrors(t *testing.T) {
	s := newTestSpheres("a")
	rigid := NewSphereModel("rigid", true)
	f := DefaultContactFactory()

	_, err := f.Create("unknown", s[0], s[0], nil, false)
	require.Error(t, err)
	require.Equal(t, ErrTypeUnknownResponse, terrors.Type(err))

	_, err = f.Create(DefaultResponse, rigid, rigid, nil, false)
	require.Error(t, err)
	require.Equal(t, ErrTypeUnsupportedPair, terrors.Type(err))

	_, err = f.Create(StickResponse, rigid, rigid, nil, false)
	require.NoError(t, err)

	failing := errors.New("out of memory")
	f.Register("failing", KindSphere, KindSphere, func(m1, m2 Model, opts CreateOptions) (Contact, error) {
		return nil, failing
	})
	_, err = f.Create("failing", s[0], s[0], nil, false)
	require.Error(t, err)
	require.Equal(t, ErrTypeContactCreation, terrors.Type(err))
	require.Contains(t, err.Error(), "creating contact failed")
}

func TestContactFactorySwappedRegistration(t *testing.T) {
	sphere := newTestSpheres("sphere")[0]
	point := NewPointModel("point", mgl64.Vec3{})

	var got [2]Model
	f := NewContactFactory().Register("custom", KindSphere, KindPoint, func(m1, m2 Model, opts CreateOptions) (Contact, error) {
		got = [2]Model{m1, m2}
		return NewPenaltyContact(m1, m2, opts)
	})

	c, err := f.Create("custom", point, sphere, nil, false)
	require.NoError(t, err)
	require.Equal(t, [2]Model{sphere, point}, got)

	m1, m2 := c.Models()
	require.Equal(t, Model(sphere), m1)
	require.Equal(t, Model(point), m2)

	_, err = f.Create("custom", sphere, point, nil, false)
	require.NoError(t, err)
	require.Equal(t, [2]Model{sphere, point}, got)
}

func TestContactFactoryExplicitReverseRegistration(t *testing.T) {
	sphere := newTestSpheres("sphere")[0]
	point := NewPointModel("point", mgl64.Vec3{})

	var calls []string
	creator := func(name string) Creator {
		return func(m1, m2 Model, opts CreateOptions) (Contact, error) {
			calls = append(calls, name+":"+m1.Name())
			return NewPenaltyContact(m1, m2, opts)
		}
	}

	f := NewContactFactory().
		Register("custom", KindPoint, KindSphere, creator("point-first")).
		Register("custom", KindSphere, KindPoint, creator("sphere-first"))

	_, err := f.Create("custom", point, sphere, nil, false)
	require.NoError(t, err)
	_, err = f.Create("custom", sphere, point, nil, false)
	require.NoError(t, err)
	require.Equal(t, []string{"point-first:point", "sphere-first:sphere"}, calls)
}

func TestContactFactoryNames(t *testing.T) {
	f := DefaultContactFactory()
	require.Equal(t, []string{
		FrictionResponse,
		PenaltyResponse,
		StickResponse,
		ViscousFrictionResponse,
		DefaultResponse,
	}, f.Names())

	require.True(t, f.Has(DefaultResponse))
	require.False(t, f.Has(NullResponse))
	require.Len(t, f.Supported(DefaultResponse), len(penaltyPairs))
	require.Contains(t, f.Supported(StickResponse), "RigidSphere-RigidSphere")
	require.NotContains(t, f.Supported(DefaultResponse), "RigidSphere-RigidSphere")
}

func TestContactFactoryOrdersModelsAsRegistered(t *testing.T) {
	line := NewLineModel("line", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}, [][2]int{{0, 1}})
	point := NewPointModel("point", mgl64.Vec3{0.5, 0, 0})
	f := DefaultContactFactory()

	c, err := f.Create(DefaultResponse, point, line, nil, false)
	require.NoError(t, err)

	m1, m2 := c.Models()
	require.Equal(t, Model(line), m1)
	require.Equal(t, Model(point), m2)
}
