package collision

import (
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultStickPersistence is the number of steps a stick contact survives
// without detection output.
const DefaultStickPersistence = 3

// StickContact pins each contact point where it was first detected. It is
// kept alive for a few steps after its pair stops being detected so that
// sticking bodies do not jitter in and out of contact.
type StickContact struct {
	baseContact
	persistence int
	staleSteps  int
	anchors     map[int64]mgl64.Vec3
	nextSlot    int
	slots       map[int64]int
}

// NewStickContact is the Creator of stick contacts. It reads the
// "persistence" parameter.
func NewStickContact(m1, m2 Model, opts CreateOptions) (Contact, error) {
	return &StickContact{
		baseContact: newBaseContact(m1, m2, opts.Verbose),
		persistence: opts.Params.Int("persistence", DefaultStickPersistence),
		anchors:     make(map[int64]mgl64.Vec3),
		slots:       make(map[int64]int),
	}, nil
}

// StaleSteps returns the number of consecutive steps without detection.
func (c *StickContact) StaleSteps() int {
	return c.staleSteps
}

func (c *StickContact) KeepAlive() bool {
	return c.staleSteps < c.persistence
}

func (c *StickContact) SetDetectionOutputs(outputs DetectionOutputVector) {
	if !c.feed(outputs) {
		if c.state == ContactStateStale {
			c.staleSteps++
			logs.WithTag("contact", c.name).
				WithTag("contact_id", c.id).
				WithTag("stale_steps", c.staleSteps).
				Debug("stick contact kept without detection")
		}
		return
	}
	c.staleSteps = 0

	constraints := make([]Constraint, 0, len(outputs))
	seen := make(map[int64]bool, len(outputs))
	for _, o := range outputs {
		if seen[o.ID] {
			continue
		}
		seen[o.ID] = true

		anchor, ok := c.anchors[o.ID]
		if !ok {
			anchor = o.Point[1]
			c.anchors[o.ID] = anchor
			c.slots[o.ID] = c.nextSlot
			c.nextSlot++
		}

		k := constraintFromOutput(o)
		k.Index = c.slots[o.ID]
		k.Sticking = true
		k.Anchor = anchor
		constraints = append(constraints, k)
	}

	for id := range c.anchors {
		if !seen[id] {
			delete(c.anchors, id)
			delete(c.slots, id)
		}
	}
	c.constraints = constraints
}

func (c *StickContact) Cleanup() {
	c.baseContact.Cleanup()
	c.anchors = make(map[int64]mgl64.Vec3)
	c.slots = make(map[int64]int)
	c.staleSteps = 0
}
