package collision

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Contact states
const (
	// Contact was created this step.
	ContactStateFirstCollision = iota
	// Contact was matched again with fresh detection outputs.
	ContactStateNormal
	// Contact received no detection output this step but is kept alive.
	ContactStateStale
	// Contact was cleaned up and must not be used anymore.
	ContactStateInvalidated
)

// Contact turns the detection outputs of one model pair into response data
// for the solver. A contact persists across steps as long as its pair keeps
// being detected or it asks to be kept alive.
type Contact interface {
	// ID returns the identifier of the contact.
	ID() uuid.UUID

	Name() string
	SetName(name string)

	// AddTag adds a tag to the contact, ignoring duplicates.
	AddTag(tag string)
	Tags() []string

	// Models returns the models of the contact, in the order its response
	// expects them.
	Models() (Model, Model)

	// Init prepares the contact once it was created.
	Init()

	// SetDetectionOutputs feeds the outputs of the current step. A nil
	// vector marks the contact as stale.
	SetDetectionOutputs(outputs DetectionOutputVector)

	// CreateResponse attaches the response data to the solver.
	CreateResponse()

	// RemoveResponse detaches the response data from the solver.
	RemoveResponse()

	// Cleanup releases every resource held by the contact.
	Cleanup()

	// KeepAlive reports whether the contact must survive a step without
	// detection output.
	KeepAlive() bool

	// State returns the lifecycle state of the contact.
	State() int

	// Constraints returns the response data computed from the last outputs.
	Constraints() []Constraint
}

// Constraint is the response data of one contact point.
type Constraint struct {
	// Index is stable for a contact point across steps.
	Index int

	Elem     [2]int
	Point    [2]mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64

	// Stiffness is set by penalty responses.
	Stiffness float64

	// Friction is the friction coefficient of constraint responses.
	Friction float64
	Viscous  bool

	// Sticking constraints pin Point[0] to Anchor.
	Sticking bool
	Anchor   mgl64.Vec3
}

type baseContact struct {
	id             uuid.UUID
	name           string
	tags           []string
	model1, model2 Model
	outputs        DetectionOutputVector
	constraints    []Constraint
	state          int
	responseActive bool
	verbose        bool
	fed            bool
}

func newBaseContact(m1, m2 Model, verbose bool) baseContact {
	return baseContact{
		id:      uuid.New(),
		model1:  m1,
		model2:  m2,
		verbose: verbose,
		state:   ContactStateFirstCollision,
	}
}

func (c *baseContact) ID() uuid.UUID {
	return c.id
}

func (c *baseContact) Name() string {
	return c.name
}

func (c *baseContact) SetName(name string) {
	c.name = name
}

func (c *baseContact) AddTag(tag string) {
	for _, t := range c.tags {
		if t == tag {
			return
		}
	}
	c.tags = append(c.tags, tag)
}

func (c *baseContact) Tags() []string {
	return c.tags
}

func (c *baseContact) Models() (Model, Model) {
	return c.model1, c.model2
}

func (c *baseContact) Init() {
	c.state = ContactStateFirstCollision
}

func (c *baseContact) State() int {
	return c.state
}

func (c *baseContact) Constraints() []Constraint {
	return c.constraints
}

// ResponseActive reports whether the response is attached to the solver.
func (c *baseContact) ResponseActive() bool {
	return c.responseActive
}

// Outputs returns the detection outputs fed during the last step.
func (c *baseContact) Outputs() DetectionOutputVector {
	return c.outputs
}

func (c *baseContact) CreateResponse() {
	if c.state == ContactStateInvalidated {
		return
	}
	c.responseActive = true
}

func (c *baseContact) RemoveResponse() {
	c.responseActive = false
}

func (c *baseContact) KeepAlive() bool {
	return false
}

// feed records outputs and moves the contact along its states. It returns
// false when the contact became stale.
func (c *baseContact) feed(outputs DetectionOutputVector) bool {
	if c.state == ContactStateInvalidated {
		return false
	}
	c.outputs = outputs

	switch {
	case outputs == nil:
		c.state = ContactStateStale
		return false
	case c.state == ContactStateStale:
		// revived after a stale step
		c.state = ContactStateFirstCollision
	case c.fed:
		c.state = ContactStateNormal
	}
	c.fed = true
	return true
}

func (c *baseContact) Cleanup() {
	c.outputs = nil
	c.constraints = nil
	c.responseActive = false
	c.state = ContactStateInvalidated
}

func constraintFromOutput(o DetectionOutput) Constraint {
	return Constraint{
		Elem:     o.Elem,
		Point:    o.Point,
		Normal:   o.Normal,
		Distance: o.Value,
	}
}
