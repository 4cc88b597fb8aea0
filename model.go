package collision

import "fmt"

// Kind is the capability tag used to dispatch contact responses.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindTriangle
	KindSphere
	KindRigidSphere
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLine:
		return "Line"
	case KindTriangle:
		return "Triangle"
	case KindSphere:
		return "Sphere"
	case KindRigidSphere:
		return "RigidSphere"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Model is a geometric collision model indexed by a BoundingTree.
type Model interface {
	// Name returns the instance name of the model.
	Name() string

	// ClassName returns the name of the model type.
	ClassName() string

	// Kind returns the capability tag of the model.
	Kind() Kind

	// Tags returns the tags copied onto the contacts of the model.
	Tags() []string

	// ContactResponse returns the response override of the model. An empty
	// string means the manager default.
	ContactResponse() string

	IsActive() bool
	IsSimulated() bool
	SelfCollision() bool
	Filter() Filter

	// SetNumberOfContacts records how many contacts reference the model.
	SetNumberOfContacts(n int)
	NumberOfContacts() int

	// Size returns the number of geometric elements.
	Size() int

	// Tree returns the hierarchy built over the elements.
	Tree() *BoundingTree

	// ComputeBoundingTree refreshes the leaf cubes from the geometry and
	// rebuilds or refreshes the hierarchy above them.
	ComputeBoundingTree(maxDepth int)
}

// BaseModel holds the state shared by every model. It is meant to be
// embedded.
type BaseModel struct {
	name          string
	tags          []string
	response      string
	active        bool
	simulated     bool
	selfCollision bool
	filter        Filter
	contacts      int
	proximity     float64
	tree          *BoundingTree
}

func newBaseModel(name string) BaseModel {
	return BaseModel{
		name:      name,
		active:    true,
		simulated: true,
		filter:    FilterAll,
		tree:      NewBoundingTree(),
	}
}

func (m *BaseModel) Name() string {
	return m.name
}

func (m *BaseModel) Tags() []string {
	return m.tags
}

// AddTag adds a tag to the model, ignoring duplicates.
func (m *BaseModel) AddTag(tag string) {
	for _, t := range m.tags {
		if t == tag {
			return
		}
	}
	m.tags = append(m.tags, tag)
}

func (m *BaseModel) ContactResponse() string {
	return m.response
}

// SetContactResponse sets the response override of the model.
func (m *BaseModel) SetContactResponse(response string) {
	m.response = response
}

func (m *BaseModel) IsActive() bool {
	return m.active
}

func (m *BaseModel) SetActive(v bool) {
	m.active = v
}

func (m *BaseModel) IsSimulated() bool {
	return m.simulated
}

func (m *BaseModel) SetSimulated(v bool) {
	m.simulated = v
}

func (m *BaseModel) SelfCollision() bool {
	return m.selfCollision
}

func (m *BaseModel) SetSelfCollision(v bool) {
	m.selfCollision = v
}

func (m *BaseModel) Filter() Filter {
	return m.filter
}

func (m *BaseModel) SetFilter(f Filter) {
	m.filter = f
}

func (m *BaseModel) SetNumberOfContacts(n int) {
	m.contacts = n
}

func (m *BaseModel) NumberOfContacts() int {
	return m.contacts
}

// Proximity returns the distance leaf boxes are inflated by.
func (m *BaseModel) Proximity() float64 {
	return m.proximity
}

func (m *BaseModel) SetProximity(d float64) {
	m.proximity = d
}

func (m *BaseModel) Tree() *BoundingTree {
	return m.tree
}
