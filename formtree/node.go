package formtree

import "github.com/Azhovan/fieldmap"

// Node is the canonical field tree implementation of fieldmap.Field.
// Nodes are created through a Builder (or one of the loaders) and are
// read-mostly afterwards: the mapper mutates a node only by attaching
// errors, and submission code may flip the synchronization flag.
type Node struct {
	name         string
	propertyPath *fieldmap.PropertyPath
	virtual      bool
	synchronized bool
	rules        map[string]string

	children []*Node
	byName   map[string]*Node

	errors []*fieldmap.FormError
}

// Name identifies the node within its parent.
func (n *Node) Name() string {
	return n.name
}

// PropertyPath returns the node's own addressing path, or nil when the
// node falls back to the implicit path equal to its name.
func (n *Node) PropertyPath() *fieldmap.PropertyPath {
	return n.propertyPath
}

// IsVirtual reports whether the node is a transparent pass-through layer.
func (n *Node) IsVirtual() bool {
	return n.virtual
}

// IsSynchronized reports whether the node's data is consistent with the
// underlying value.
func (n *Node) IsSynchronized() bool {
	return n.synchronized
}

// SetSynchronized flips the synchronization flag. Submission code calls
// this with false when input for the field could not be converted.
func (n *Node) SetSynchronized(synchronized bool) {
	n.synchronized = synchronized
}

// ErrorMappingRules returns the node's redirection rules.
func (n *Node) ErrorMappingRules() map[string]string {
	return n.rules
}

// Children returns the node's children in insertion order.
func (n *Node) Children() []fieldmap.Field {
	out := make([]fieldmap.Field, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Child returns the child with the exact given name, or nil.
func (n *Node) Child(name string) fieldmap.Field {
	c, ok := n.byName[name]
	if !ok {
		return nil
	}
	return c
}

// Get is Child with the concrete node type, for navigating built trees
// in application code and tests.
func (n *Node) Get(name string) *Node {
	return n.byName[name]
}

// AddError attaches a mapped error to the node.
func (n *Node) AddError(err *fieldmap.FormError) {
	n.errors = append(n.errors, err)
}

// Errors returns the errors attached to the node, in attachment order.
func (n *Node) Errors() []*fieldmap.FormError {
	return n.errors
}
