package fieldmap

import (
	"errors"
	"strings"

	"github.com/Azhovan/fieldmap/internal/pathlex"
)

// ElementKind is the addressing style of a single path segment.
type ElementKind int

const (
	// KindProperty is a dotted segment (".name").
	KindProperty ElementKind = iota
	// KindIndex is a bracketed segment ("[name]").
	KindIndex
)

// PathElement is one segment of a property path. Elements of different
// kinds never match each other, even with equal names: a field addressed
// as ".street" is not the field addressed as "[street]".
type PathElement struct {
	Kind ElementKind
	Name string
}

// String renders the element in its kind-specific textual form.
// Property elements include the leading dot; PropertyPath.String strips
// it for the head element.
func (e PathElement) String() string {
	if e.Kind == KindIndex {
		return "[" + e.Name + "]"
	}
	return "." + e.Name
}

// PropertyPath is the parsed, immutable form of a path into nested data.
// It is created once per violation via Parse and read-only thereafter.
type PropertyPath struct {
	elements []PathElement
}

// Parse converts a path string of the grammar
//
//	Head (('.' Name) | ('[' Name ']'))*
//
// into a PropertyPath. Head is a bare property name or an immediately
// bracketed index. Malformed input returns a *PathError.
func Parse(s string) (*PropertyPath, error) {
	tokens, err := pathlex.Scan(s)
	if err != nil {
		var serr *pathlex.SyntaxError
		if errors.As(err, &serr) {
			return nil, &PathError{Path: s, Offset: serr.Offset, Reason: serr.Reason}
		}
		return nil, &PathError{Path: s, Reason: err.Error()}
	}

	elements := make([]PathElement, len(tokens))
	for i, tok := range tokens {
		kind := KindProperty
		if tok.Kind == pathlex.Index {
			kind = KindIndex
		}
		elements[i] = PathElement{Kind: kind, Name: tok.Name}
	}

	return &PropertyPath{elements: elements}, nil
}

// MustParse is Parse for statically known paths; it panics on malformed
// input. Intended for tree construction code and tests.
func MustParse(s string) *PropertyPath {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// newPath wraps an element slice without copying. Callers must not
// retain the slice.
func newPath(elements []PathElement) *PropertyPath {
	return &PropertyPath{elements: elements}
}

// Len returns the number of elements.
func (p *PropertyPath) Len() int {
	return len(p.elements)
}

// ElementAt returns the element at position i.
func (p *PropertyPath) ElementAt(i int) PathElement {
	return p.elements[i]
}

// IsIndex reports whether the element at position i is a bracketed index.
func (p *PropertyPath) IsIndex(i int) bool {
	return p.elements[i].Kind == KindIndex
}

// IsProperty reports whether the element at position i is a dotted
// property.
func (p *PropertyPath) IsProperty(i int) bool {
	return p.elements[i].Kind == KindProperty
}

// Elements returns a copy of the element sequence.
func (p *PropertyPath) Elements() []PathElement {
	out := make([]PathElement, len(p.elements))
	copy(out, p.elements)
	return out
}

// Parent returns the path with the last element removed, or nil for a
// single-element path.
func (p *PropertyPath) Parent() *PropertyPath {
	if len(p.elements) <= 1 {
		return nil
	}
	return newPath(p.elements[:len(p.elements)-1])
}

// Ancestor returns the path truncated to its first depth elements.
// It returns nil if depth is not in [1, Len()].
func (p *PropertyPath) Ancestor(depth int) *PropertyPath {
	if depth < 1 || depth > len(p.elements) {
		return nil
	}
	return newPath(p.elements[:depth])
}

// String renders the path so that Parse(p.String()) reproduces p.
func (p *PropertyPath) String() string {
	return renderElements(p.elements)
}

// renderElements formats an element sequence, omitting the leading dot
// of a head property element.
func renderElements(elements []PathElement) string {
	var b strings.Builder
	for i, e := range elements {
		if i == 0 && e.Kind == KindProperty {
			b.WriteString(e.Name)
			continue
		}
		b.WriteString(e.String())
	}
	return b.String()
}
