package main

import (
	_ "embed"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	collision "github.com/fyh275905/sofa-sub003"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
)

//go:embed scene.toml
var defaultScene []byte

type scene struct {
	Pipeline collision.Config `toml:"pipeline"`
	Spheres  []sphereSet      `toml:"spheres"`
}

type sphereSet struct {
	Name          string       `toml:"name"`
	Rigid         bool         `toml:"rigid"`
	Simulated     *bool        `toml:"simulated"`
	SelfCollision bool         `toml:"self_collision"`
	Response      string       `toml:"response"`
	Group         uint         `toml:"group"`
	Tags          []string     `toml:"tags"`
	Centers       [][3]float64 `toml:"centers"`
	Radii         []float64    `toml:"radii"`
	Velocity      [3]float64   `toml:"velocity"`
}

type body struct {
	model    *collision.SphereModel
	velocity mgl64.Vec3
}

func loadScene(filename string) (scene, error) {
	data := defaultScene
	if filename != "" {
		var err error
		if data, err = os.ReadFile(filename); err != nil {
			return scene{}, errors.New("reading scene failed").
				WithTag("filename", filename).
				Wrap(err)
		}
	}

	s := scene{Pipeline: collision.DefaultConfig()}
	if err := toml.Unmarshal(data, &s); err != nil {
		return scene{}, errors.New("decoding scene failed").
			WithTag("filename", filename).
			Wrap(err)
	}
	if err := s.Pipeline.Validate(); err != nil {
		return scene{}, err
	}
	return s, nil
}

func (s scene) bodies() ([]body, error) {
	bodies := make([]body, 0, len(s.Spheres))
	for _, set := range s.Spheres {
		if len(set.Centers) != len(set.Radii) {
			return nil, errors.New("sphere centers and radii differ in length").
				WithType(collision.ErrTypeInvalidConfig).
				WithTag("name", set.Name).
				WithTag("centers", len(set.Centers)).
				WithTag("radii", len(set.Radii))
		}

		m := collision.NewSphereModel(set.Name, set.Rigid)
		if set.Simulated != nil {
			m.SetSimulated(*set.Simulated)
		}
		m.SetSelfCollision(set.SelfCollision)
		m.SetContactResponse(set.Response)
		if set.Group != collision.NoGroup {
			f := collision.FilterAll
			f.Group = set.Group
			m.SetFilter(f)
		}
		for _, t := range set.Tags {
			m.AddTag(t)
		}
		for i, c := range set.Centers {
			m.AddSphere(mgl64.Vec3(c), set.Radii[i])
		}

		bodies = append(bodies, body{
			model:    m,
			velocity: mgl64.Vec3(set.Velocity),
		})
	}
	return bodies, nil
}

func (b body) move() {
	if b.velocity == (mgl64.Vec3{}) {
		return
	}
	for i := 0; i < b.model.Size(); i++ {
		b.model.SetCenter(i, b.model.Center(i).Add(b.velocity))
	}
}
