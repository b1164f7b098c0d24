package formtree

import (
	"fmt"
	"strings"

	"github.com/Azhovan/fieldmap"
)

// Option configures a field being added to a Builder using the
// functional options pattern.
type Option func(*fieldConfig)

// fieldConfig holds the declared settings of one field.
type fieldConfig struct {
	propertyPath   string // Custom addressing path (propertyPath:...)
	hasPath        bool   // Whether a custom path was declared
	virtual        bool   // Field is a transparent pass-through layer
	unsynchronized bool   // Field starts with diverged data
	rules          map[string]string
}

// WithPropertyPath sets the field's own addressing path relative to its
// parent's data. Without it the field addresses the single property
// equal to its name.
func WithPropertyPath(path string) Option {
	return func(cfg *fieldConfig) {
		cfg.propertyPath = path
		cfg.hasPath = true
	}
}

// Virtual marks the field as a transparent pass-through layer that
// contributes no path elements of its own.
func Virtual() Option {
	return func(cfg *fieldConfig) {
		cfg.virtual = true
	}
}

// Unsynchronized marks the field's data as diverged from the underlying
// value at construction time. Mostly useful in tests; submission code
// normally flips the flag through Node.SetSynchronized.
func Unsynchronized() Option {
	return func(cfg *fieldConfig) {
		cfg.unsynchronized = true
	}
}

// WithRule declares an error mapping rule redirecting violations whose
// relative path starts with src to the child named by target
// (dot-separated child names). The source "." applies to violations
// landing on the field itself.
func WithRule(src, target string) Option {
	return func(cfg *fieldConfig) {
		if cfg.rules == nil {
			cfg.rules = make(map[string]string)
		}
		cfg.rules[src] = target
	}
}

// WithRules declares several error mapping rules at once.
func WithRules(rules map[string]string) Option {
	return func(cfg *fieldConfig) {
		if cfg.rules == nil {
			cfg.rules = make(map[string]string, len(rules))
		}
		for src, target := range rules {
			cfg.rules[src] = target
		}
	}
}

// Builder assembles a field tree. Add returns the child's builder so
// trees nest naturally; Build validates the whole tree and produces the
// root Node.
type Builder struct {
	name     string
	cfg      fieldConfig
	children []*Builder
}

// New starts a tree rooted at a field with the given name.
func New(name string, opts ...Option) *Builder {
	b := &Builder{name: name}
	for _, opt := range opts {
		opt(&b.cfg)
	}
	return b
}

// Add declares a child field and returns its builder for further
// nesting.
func (b *Builder) Add(name string, opts ...Option) *Builder {
	child := New(name, opts...)
	b.children = append(b.children, child)
	return child
}

// Build validates the declared tree and constructs it. Validation
// enforces the invariants the mapper relies on: well-formed property
// paths and rule declarations, unique child names, and sibling
// contributions that never overlap (two siblings whose paths are equal,
// or where one prefixes the other, would make matching ambiguous and
// are rejected here rather than resolved by iteration order).
func (b *Builder) Build() (*Node, error) {
	return b.build()
}

func (b *Builder) build() (*Node, error) {
	if b.name == "" {
		return nil, &fieldmap.TreeError{Field: b.name, Reason: "field name is empty"}
	}
	if strings.ContainsAny(b.name, ".[]") {
		return nil, &fieldmap.TreeError{Field: b.name, Reason: "field name must not contain '.', '[' or ']'"}
	}

	node := &Node{
		name:         b.name,
		virtual:      b.cfg.virtual,
		synchronized: !b.cfg.unsynchronized,
		byName:       make(map[string]*Node),
	}

	if b.cfg.hasPath {
		if b.cfg.virtual {
			return nil, &fieldmap.TreeError{Field: b.name, Reason: "virtual field cannot have a property path"}
		}
		p, err := fieldmap.Parse(b.cfg.propertyPath)
		if err != nil {
			return nil, &fieldmap.TreeError{Field: b.name, Reason: fmt.Sprintf("property path: %v", err)}
		}
		node.propertyPath = p
	}

	if err := validateRules(b.name, b.cfg.rules); err != nil {
		return nil, err
	}
	node.rules = b.cfg.rules

	for _, cb := range b.children {
		child, err := cb.build()
		if err != nil {
			return nil, err
		}
		if _, dup := node.byName[child.name]; dup {
			return nil, &fieldmap.TreeError{Field: b.name, Reason: fmt.Sprintf("duplicate child name %q", child.name)}
		}
		node.children = append(node.children, child)
		node.byName[child.name] = child
	}

	if err := checkSiblingOverlap(node); err != nil {
		return nil, err
	}

	return node, nil
}

// validateRules checks rule declaration syntax. Source must be "." or a
// parseable property path; targets are dot-separated child names.
// Target resolution itself stays a mapping-time concern: a rule may
// legitimately point into subtrees attached later.
func validateRules(field string, rules map[string]string) error {
	for src, target := range rules {
		if src != "." {
			if _, err := fieldmap.Parse(src); err != nil {
				return &fieldmap.TreeError{Field: field, Reason: fmt.Sprintf("rule source %q: %v", src, err)}
			}
		}
		if target == "" {
			return &fieldmap.TreeError{Field: field, Reason: fmt.Sprintf("rule %q has an empty target", src)}
		}
		for _, name := range strings.Split(target, ".") {
			if name == "" || strings.ContainsAny(name, "[]") {
				return &fieldmap.TreeError{Field: field, Reason: fmt.Sprintf("rule %q has malformed target %q", src, target)}
			}
		}
	}
	return nil
}

// pathClaim is one structural contribution a subtree exposes at its
// parent's level, used for overlap detection.
type pathClaim struct {
	owner string
	elems []fieldmap.PathElement
}

// checkSiblingOverlap rejects trees where two siblings could structurally
// match the same remaining path. Virtual children expose their
// descendants' contributions at this level.
func checkSiblingOverlap(parent *Node) error {
	var claims []pathClaim
	for _, child := range parent.children {
		claims = append(claims, effectiveClaims(child)...)
	}

	for i := 0; i < len(claims); i++ {
		for j := i + 1; j < len(claims); j++ {
			if claims[i].owner == claims[j].owner {
				// Claims surfacing through the same direct child cannot
				// make sibling matching ambiguous; deeper levels check
				// themselves.
				continue
			}
			if claimsOverlap(claims[i].elems, claims[j].elems) {
				return &fieldmap.TreeError{
					Field:  parent.name,
					Reason: fmt.Sprintf("children %q and %q have overlapping property paths", claims[i].owner, claims[j].owner),
				}
			}
		}
	}

	return nil
}

// effectiveClaims returns the contributions a child exposes to sibling
// matching: its own for a regular field, its descendants' for a virtual
// one. The owner is always the direct child.
func effectiveClaims(child *Node) []pathClaim {
	if !child.virtual {
		return []pathClaim{{owner: child.name, elems: contributionOf(child)}}
	}

	var claims []pathClaim
	for _, grandchild := range child.children {
		for _, c := range effectiveClaims(grandchild) {
			claims = append(claims, pathClaim{owner: child.name, elems: c.elems})
		}
	}
	return claims
}

// contributionOf mirrors the mapper's notion of a field's own path
// contribution.
func contributionOf(n *Node) []fieldmap.PathElement {
	if n.virtual {
		return nil
	}
	if n.propertyPath != nil {
		return n.propertyPath.Elements()
	}
	return []fieldmap.PathElement{{Kind: fieldmap.KindProperty, Name: n.name}}
}

// claimsOverlap reports whether one claim is a prefix of the other
// (equality included).
func claimsOverlap(a, b []fieldmap.PathElement) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return n > 0
}
