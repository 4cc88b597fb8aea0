package collision

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// DefaultStiffness is the spring stiffness of penalty contacts.
const DefaultStiffness = 100.0

// PenaltyContact responds to proximities with springs pushing the elements
// apart. Contact points keep their spring slot across steps as long as the
// detection reports them with the same id.
type PenaltyContact struct {
	baseContact
	stiffness float64
	index     map[int64]int
	nextSlot  int
}

// NewPenaltyContact is the Creator of penalty contacts. It reads the
// "stiffness" parameter.
func NewPenaltyContact(m1, m2 Model, opts CreateOptions) (Contact, error) {
	return &PenaltyContact{
		baseContact: newBaseContact(m1, m2, opts.Verbose),
		stiffness:   opts.Params.Float("stiffness", DefaultStiffness),
		index:       make(map[int64]int),
	}, nil
}

// Stiffness returns the spring stiffness.
func (c *PenaltyContact) Stiffness() float64 {
	return c.stiffness
}

func (c *PenaltyContact) SetDetectionOutputs(outputs DetectionOutputVector) {
	if !c.feed(outputs) {
		return
	}

	index := make(map[int64]int, len(outputs))
	constraints := make([]Constraint, 0, len(outputs))
	for _, o := range outputs {
		if _, dup := index[o.ID]; dup {
			continue
		}

		slot, ok := c.index[o.ID]
		if !ok {
			slot = c.nextSlot
			c.nextSlot++
		}
		index[o.ID] = slot

		k := constraintFromOutput(o)
		k.Index = slot
		k.Stiffness = c.stiffness
		constraints = append(constraints, k)
	}
	c.index = index
	c.constraints = constraints

	if c.verbose {
		logs.WithTag("contact", c.name).
			WithTag("contact_id", c.id).
			WithTag("springs", len(constraints)).
			Debug("penalty contact updated")
	}
}

func (c *PenaltyContact) Cleanup() {
	c.baseContact.Cleanup()
	c.index = make(map[int64]int)
	c.nextSlot = 0
}
