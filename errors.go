package fieldmap

import "fmt"

// PathError reports a property path string that does not parse.
// No mapping is attempted when the violation path is malformed.
type PathError struct {
	Path   string // the offending input
	Offset int    // byte offset of the failure
	Reason string // what went wrong
}

// Error formats the failure with its position in the input.
func (e *PathError) Error() string {
	return fmt.Sprintf("fieldmap: invalid property path %q at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// RuleTargetError reports an error mapping rule whose target path names
// a child that does not exist. The violation is not attached anywhere
// when this happens.
type RuleTargetError struct {
	Field   string // field owning the rule
	Target  string // the rule's full target path
	Missing string // the child name that could not be resolved
}

func (e *RuleTargetError) Error() string {
	return fmt.Sprintf("fieldmap: rule target %q on field %q: no child named %q", e.Target, e.Field, e.Missing)
}

// TreeError reports a field tree configuration that violates a
// construction invariant, such as two siblings with colliding property
// path contributions.
type TreeError struct {
	Field  string // field at which the invariant broke
	Reason string
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("fieldmap: invalid field tree at %q: %s", e.Field, e.Reason)
}
