package fieldmap

// Violation is a validation failure reported against a location in a
// nested data structure. The mapper decides which field of a field tree
// the failure should surface on; it does not inspect Message or
// Parameters beyond copying them.
type Violation struct {
	// Message is the human-readable failure text, possibly containing
	// placeholders.
	Message string

	// Parameters maps placeholder names to substitution values.
	Parameters map[string]string

	// PropertyPath locates the bad data. It uses the dotted/bracketed
	// grammar accepted by Parse, with the form-space conventions of the
	// validation engine: "children[name]" prefixes address child fields
	// by name, a "data" segment switches to the field's own data.
	PropertyPath string
}

// FormError is the record attached to the field a violation maps to.
// Message and Parameters are copied verbatim from the violation and
// never mutated after attachment.
type FormError struct {
	Message    string
	Parameters map[string]string
}

// Field is the capability interface a field tree exposes to the mapper.
// The tree is built and owned by form-construction code; the mapper only
// reads it, except for exactly one AddError call per mapped violation.
//
// The formtree package provides the canonical implementation.
type Field interface {
	// Name identifies the field within its parent.
	Name() string

	// PropertyPath describes how the field addresses a slice of its
	// parent's data. A nil path means the field uses the implicit
	// single-property path equal to its name, unless it is virtual.
	PropertyPath() *PropertyPath

	// IsVirtual reports whether the field contributes no path elements
	// of its own: its children address the field's inherited data
	// location directly.
	IsVirtual() bool

	// IsSynchronized reports whether the field's data and the underlying
	// value are currently consistent. Violations never map through or
	// past an unsynchronized field.
	IsSynchronized() bool

	// ErrorMappingRules returns the field's redirection rules: relative
	// source path pattern to target child-name path. The key "." applies
	// to violations landing on the field itself.
	ErrorMappingRules() map[string]string

	// Children returns the field's children in tree order.
	Children() []Field

	// Child returns the child with the exact given name, or nil.
	// Rule targets resolve through this lookup, never by iteration.
	Child(name string) Field

	// AddError attaches a mapped error to the field.
	AddError(*FormError)
}

// ErrorReader is an optional interface for fields that expose their
// attached errors. DumpErrors and WriteReport read through it.
type ErrorReader interface {
	Errors() []*FormError
}

// contribution computes the effective path contribution of a field:
// nothing for virtual fields, the field's own property path if set, and
// otherwise the implicit single-property path equal to its name.
func contribution(f Field) []PathElement {
	if f.IsVirtual() {
		return nil
	}
	if p := f.PropertyPath(); p != nil {
		return p.Elements()
	}
	return []PathElement{{Kind: KindProperty, Name: f.Name()}}
}
