package collision

const (
	// NoGroup is the group of models that belong to no group.
	NoGroup uint = 0
	// AllCategories is a category mask matching every category.
	AllCategories uint = ^uint(0)
)

// FilterAll collides with anything except FilterNone.
var FilterAll = Filter{NoGroup, AllCategories, AllCategories}

// FilterNone collides with nothing.
var FilterNone = Filter{NoGroup, ^AllCategories, ^AllCategories}

// Filter decides which model pairs are considered by the detection.
type Filter struct {
	// Two models with the same non-zero group value do not collide.
	Group uint
	// A bitmask of categories the model belongs to.
	Categories uint
	// A bitmask of categories the model collides with.
	Mask uint
}

// Reject reports whether two models must never be paired: they share a
// non-zero group or their category/mask combinations do not agree.
func (f Filter) Reject(other Filter) bool {
	return (f.Group != 0 && f.Group == other.Group) ||
		(f.Categories&other.Mask) == 0 ||
		(other.Categories&f.Mask) == 0
}
