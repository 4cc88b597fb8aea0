package collision

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// DefaultFriction is the friction coefficient of friction contacts.
const DefaultFriction = 0.8

// FrictionType selects the friction law of a FrictionContact.
type FrictionType int

const (
	FrictionCoulomb FrictionType = iota
	FrictionViscous
)

func (t FrictionType) String() string {
	if t == FrictionViscous {
		return "viscous"
	}
	return "coulomb"
}

// FrictionContact responds to proximities with unilateral constraints and
// friction. Constraint indices come from a pool: an index is kept while its
// contact point is detected and recycled once it disappears.
type FrictionContact struct {
	baseContact
	friction FrictionType
	mu       float64
	tol      float64
	ids      map[int64]int
	pool     identifierPool
}

// NewCoulombFrictionContact is the Creator of Coulomb friction contacts. It
// reads the "mu" and "tol" parameters.
func NewCoulombFrictionContact(m1, m2 Model, opts CreateOptions) (Contact, error) {
	return newFrictionContact(m1, m2, opts, FrictionCoulomb), nil
}

// NewViscousFrictionContact is the Creator of viscous friction contacts. It
// reads the "mu" and "tol" parameters.
func NewViscousFrictionContact(m1, m2 Model, opts CreateOptions) (Contact, error) {
	return newFrictionContact(m1, m2, opts, FrictionViscous), nil
}

func newFrictionContact(m1, m2 Model, opts CreateOptions, t FrictionType) *FrictionContact {
	return &FrictionContact{
		baseContact: newBaseContact(m1, m2, opts.Verbose),
		friction:    t,
		mu:          opts.Params.Float("mu", DefaultFriction),
		tol:         opts.Params.Float("tol", 0),
		ids:         make(map[int64]int),
	}
}

// Mu returns the friction coefficient.
func (c *FrictionContact) Mu() float64 {
	return c.mu
}

// FrictionType returns the friction law of the contact.
func (c *FrictionContact) FrictionType() FrictionType {
	return c.friction
}

func (c *FrictionContact) SetDetectionOutputs(outputs DetectionOutputVector) {
	if !c.feed(outputs) {
		return
	}

	present := make(map[int64]bool, len(outputs))
	for _, o := range outputs {
		if c.tol > 0 && o.Value > c.tol {
			continue
		}
		present[o.ID] = true
	}
	for key, id := range c.ids {
		if !present[key] {
			c.pool.put(id)
			delete(c.ids, key)
		}
	}

	constraints := make([]Constraint, 0, len(present))
	done := make(map[int64]bool, len(present))
	for _, o := range outputs {
		if !present[o.ID] || done[o.ID] {
			continue
		}
		done[o.ID] = true

		id, ok := c.ids[o.ID]
		if !ok {
			id = c.pool.get()
			c.ids[o.ID] = id
		}

		k := constraintFromOutput(o)
		k.Index = id
		k.Friction = c.mu
		k.Viscous = c.friction == FrictionViscous
		constraints = append(constraints, k)
	}
	c.constraints = constraints

	if c.verbose {
		logs.WithTag("contact", c.name).
			WithTag("contact_id", c.id).
			WithTag("friction", c.friction.String()).
			WithTag("constraints", len(constraints)).
			Debug("friction contact updated")
	}
}

func (c *FrictionContact) RemoveResponse() {
	c.baseContact.RemoveResponse()
	for _, id := range c.ids {
		c.pool.put(id)
	}
	c.ids = make(map[int64]int)
}

func (c *FrictionContact) Cleanup() {
	c.RemoveResponse()
	c.baseContact.Cleanup()
	c.pool = identifierPool{}
}

// identifierPool hands out the smallest free non-negative identifiers.
type identifierPool struct {
	next int
	free []int
}

func (p *identifierPool) get() int {
	if n := len(p.free); n > 0 {
		smallest := 0
		for i := 1; i < n; i++ {
			if p.free[i] < p.free[smallest] {
				smallest = i
			}
		}
		id := p.free[smallest]
		p.free[smallest] = p.free[n-1]
		p.free = p.free[:n-1]
		return id
	}
	id := p.next
	p.next++
	return id
}

func (p *identifierPool) put(id int) {
	p.free = append(p.free, id)
}
