package collision

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// NullResponse is the response name that suppresses contacts for a pair.
const NullResponse = "nullptr"

// Params holds the parameters appended to a response name after a '?'.
type Params map[string]string

// Float returns the float parameter key, or def when it is missing or
// malformed.
func (p Params) Float(key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Int returns the integer parameter key, or def when it is missing or
// malformed.
func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// ParseResponse splits "name?key=value&..." into the response name and its
// parameters.
func ParseResponse(response string) (string, Params, error) {
	name, query, found := strings.Cut(response, "?")
	params := make(Params)
	if !found {
		return name, params, nil
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return name, params, errors.New("parsing response parameters failed").
			WithType(ErrTypeInvalidConfig).
			WithTag("response", response).
			Wrap(err)
	}
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[len(v)-1]
		}
	}
	return name, params, nil
}

// CreateOptions is passed to a Creator.
type CreateOptions struct {
	Intersection *Intersection
	Params       Params
	Verbose      bool
}

// Creator builds a contact between m1 and m2, in the model order the creator
// was registered with.
type Creator func(m1, m2 Model, opts CreateOptions) (Contact, error)

type factoryKey struct {
	name string
	a, b Kind
}

type factoryEntry struct {
	create  Creator
	swapped bool
}

// ContactFactory maps a response name and a pair of model kinds to a contact
// creator.
type ContactFactory struct {
	entries    map[factoryKey]factoryEntry
	signatures map[string][]string
}

func NewContactFactory() *ContactFactory {
	return &ContactFactory{
		entries:    make(map[factoryKey]factoryEntry),
		signatures: make(map[string][]string),
	}
}

// Register adds a creator for the response name and the kinds a and b. The
// creator is also found for (b, a), in which case it receives the models in
// registration order.
func (f *ContactFactory) Register(name string, a, b Kind, create Creator) *ContactFactory {
	f.entries[factoryKey{name, a, b}] = factoryEntry{create: create}
	if a != b {
		if _, ok := f.entries[factoryKey{name, b, a}]; !ok {
			f.entries[factoryKey{name, b, a}] = factoryEntry{create: create, swapped: true}
		}
	}
	f.signatures[name] = append(f.signatures[name], a.String()+"-"+b.String())
	return f
}

// Has reports whether any creator is registered under name.
func (f *ContactFactory) Has(name string) bool {
	_, ok := f.signatures[name]
	return ok
}

// Names returns the registered response names, sorted.
func (f *ContactFactory) Names() []string {
	names := make([]string, 0, len(f.signatures))
	for n := range f.signatures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Supported returns the model kind signatures registered under name, in
// registration order.
func (f *ContactFactory) Supported(name string) []string {
	return f.signatures[name]
}

// Create builds the contact for m1 and m2 with the given response, which may
// carry parameters after a '?'.
func (f *ContactFactory) Create(response string, m1, m2 Model, in *Intersection, verbose bool) (Contact, error) {
	name, params, err := ParseResponse(response)
	if err != nil {
		return nil, err
	}

	if !f.Has(name) {
		return nil, errors.New("unknown contact response").
			WithType(ErrTypeUnknownResponse).
			WithTag("response", name)
	}

	e, ok := f.entries[factoryKey{name, m1.Kind(), m2.Kind()}]
	if !ok {
		return nil, errors.New("contact response does not support model pair").
			WithType(ErrTypeUnsupportedPair).
			WithTag("response", name).
			WithTag("kind1", m1.Kind().String()).
			WithTag("kind2", m2.Kind().String())
	}
	if e.swapped {
		m1, m2 = m2, m1
	}

	c, err := e.create(m1, m2, CreateOptions{
		Intersection: in,
		Params:       params,
		Verbose:      verbose,
	})
	if err != nil {
		return nil, errors.New("creating contact failed").
			WithType(ErrTypeContactCreation).
			WithTag("response", name).
			Wrap(err)
	}
	return c, nil
}

var (
	penaltyPairs = [][2]Kind{
		{KindSphere, KindSphere},
		{KindSphere, KindPoint},
		{KindPoint, KindPoint},
		{KindLine, KindPoint},
		{KindLine, KindLine},
		{KindLine, KindSphere},
		{KindTriangle, KindSphere},
		{KindTriangle, KindPoint},
		{KindTriangle, KindLine},
		{KindTriangle, KindTriangle},
	}

	constraintPairs = [][2]Kind{
		{KindPoint, KindPoint},
		{KindLine, KindSphere},
		{KindLine, KindPoint},
		{KindLine, KindLine},
		{KindTriangle, KindSphere},
		{KindTriangle, KindPoint},
		{KindTriangle, KindLine},
		{KindTriangle, KindTriangle},
		{KindSphere, KindSphere},
		{KindSphere, KindPoint},
		{KindRigidSphere, KindRigidSphere},
		{KindSphere, KindRigidSphere},
		{KindLine, KindRigidSphere},
		{KindTriangle, KindRigidSphere},
		{KindRigidSphere, KindPoint},
	}
)

// Built-in response names.
const (
	DefaultResponse         = "default"
	PenaltyResponse         = "PenalityContactForceField"
	FrictionResponse        = "FrictionContactConstraint"
	ViscousFrictionResponse = "ViscousFrictionContactConstraint"
	StickResponse           = "StickContactConstraint"
)

// DefaultContactFactory returns a factory holding the built-in responses.
func DefaultContactFactory() *ContactFactory {
	f := NewContactFactory()
	for _, p := range penaltyPairs {
		f.Register(DefaultResponse, p[0], p[1], NewPenaltyContact)
		f.Register(PenaltyResponse, p[0], p[1], NewPenaltyContact)
	}
	for _, p := range constraintPairs {
		f.Register(FrictionResponse, p[0], p[1], NewCoulombFrictionContact)
		f.Register(ViscousFrictionResponse, p[0], p[1], NewViscousFrictionContact)
		f.Register(StickResponse, p[0], p[1], NewStickContact)
	}
	return f
}
