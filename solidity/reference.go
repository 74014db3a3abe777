package solidity

type TypeReferenceStatus int

const (
	// NotSelected means the offset lies outside the queried node.
	NotSelected TypeReferenceStatus = iota
	// SelectedNoReference means the node is selected but the selection does
	// not name a resolvable declaration.
	SelectedNoReference
	// Resolved means the selection names a declaration; Target and Location
	// describe it.
	Resolved
)

func (s TypeReferenceStatus) String() string {
	switch s {
	case NotSelected:
		return "not selected"
	case SelectedNoReference:
		return "selected, no reference"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// TypeReference is the outcome of a go-to-definition query.
type TypeReference struct {
	Status   TypeReferenceStatus
	Target   Code
	Location Location
}

func (r TypeReference) Selected() bool {
	return r.Status != NotSelected
}

func (r TypeReference) Found() bool {
	return r.Status == Resolved
}

func notSelected() TypeReference {
	return TypeReference{Status: NotSelected}
}

func selectedNoReference() TypeReference {
	return TypeReference{Status: SelectedNoReference}
}

// resolvedTo returns a Resolved result for target, or SelectedNoReference
// when target is nil.
func resolvedTo(target Code) TypeReference {
	if target == nil {
		return selectedNoReference()
	}
	return TypeReference{Status: Resolved, Target: target, Location: target.Location()}
}

// resolvedToLocation is used for targets that are not nodes, such as an
// imported file.
func resolvedToLocation(loc Location) TypeReference {
	return TypeReference{Status: Resolved, Location: loc}
}
