package activity

// DefaultLimit caps listings that do not ask for a size.
const DefaultLimit = 50

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	Day   *int
	Type  *Type
	Limit int
}
