package fieldmap

import "strings"

// Mapper decides which field of a field tree receives the error for a
// reported violation. It is stateless between calls and safe for
// concurrent use against disjoint field trees; a single tree must not be
// mapped into concurrently.
type Mapper struct {
	allowNonSynchronized bool
}

// NewMapper creates a Mapper with the desynchronization guard enabled.
func NewMapper() *Mapper {
	return &Mapper{}
}

// AllowNonSynchronized controls whether errors may map to and through
// fields whose data has diverged from the underlying value. Default:
// false, meaning the walk stops above the first unsynchronized field.
func (m *Mapper) AllowNonSynchronized(allow bool) *Mapper {
	m.allowNonSynchronized = allow
	return m
}

// MapViolation walks the field tree under root guided by the violation's
// property path and attaches exactly one FormError to the deepest field
// the path structurally matches, after applying per-field redirection
// rules. Falling short of an exact match is not an error: the violation
// lands on the deepest field reached, possibly root itself.
//
// A malformed violation path returns a *PathError and a redirection rule
// naming a nonexistent child returns a *RuleTargetError; in both cases
// nothing is attached.
func (m *Mapper) MapViolation(v Violation, root Field) error {
	parsed, err := Parse(v.PropertyPath)
	if err != nil {
		return err
	}

	vp := splitViolationPath(parsed)
	remaining := reconstructRelative(vp, root)

	rec := newTraceRecorder(v.PropertyPath)

	scope := root
	for len(remaining) > 0 && m.acceptsErrors(scope) {
		// Redirection rules take precedence over structural descent.
		if src, target, n, ok := matchRule(scope, remaining); ok {
			next, stopped, rerr := m.followTarget(scope, target)
			if rerr != nil {
				return rerr
			}
			rec.rule(scope, src, target)
			scope = next
			remaining = remaining[n:]
			if stopped {
				// Guard hit while resolving the target: attach to the
				// deepest accepting field reached.
				remaining = nil
			}
			continue
		}

		child, n := matchChild(scope, remaining)
		if child == nil {
			break
		}
		if !m.acceptsErrors(child) {
			// Nothing at or below an unsynchronized field may receive
			// the error.
			break
		}
		rec.step(child, remaining[:n])
		scope = child
		remaining = remaining[n:]
	}

	// Dot rules redirect violations that landed on the field itself.
	// They may chain across fields; a visited set keeps miswired cyclic
	// chains from looping.
	seen := map[Field]bool{scope: true}
	for m.acceptsErrors(scope) {
		target, ok := scope.ErrorMappingRules()["."]
		if !ok {
			break
		}
		next, stopped, rerr := m.followTarget(scope, target)
		if rerr != nil {
			return rerr
		}
		if seen[next] {
			break
		}
		seen[next] = true
		rec.rule(scope, ".", target)
		scope = next
		if stopped {
			break
		}
	}

	ferr := &FormError{Message: v.Message, Parameters: cloneParameters(v.Parameters)}
	scope.AddError(ferr)
	storeTrace(ferr, rec.finish(scope))
	return nil
}

// acceptsErrors reports whether a field may receive or pass through
// errors under the current synchronization policy.
func (m *Mapper) acceptsErrors(f Field) bool {
	return m.allowNonSynchronized || f.IsSynchronized()
}

// followTarget resolves a rule target, a dot-separated chain of child
// names, starting at scope. Resolution stops early when a hop does not
// accept errors; the deepest accepting field reached is then returned
// with stopped=true.
func (m *Mapper) followTarget(scope Field, target string) (Field, bool, error) {
	current := scope
	for _, name := range strings.Split(target, ".") {
		child := current.Child(name)
		if child == nil {
			return nil, false, &RuleTargetError{Field: current.Name(), Target: target, Missing: name}
		}
		if !m.acceptsErrors(child) {
			return current, true, nil
		}
		current = child
	}
	return current, false, nil
}

// violationElement is one element of a normalized violation path,
// tagged with whether it addresses a child field by name (form space)
// or a location in the current field's data.
type violationElement struct {
	elem     PathElement
	mapsForm bool
}

// splitViolationPath normalizes a raw violation path using the
// validation engine's conventions: leading "children[name]" pairs
// address child fields by name, a "data" property switches to the
// field's own data, and anything outside that grammar truncates the
// path (the violation then falls back toward the root).
func splitViolationPath(p *PropertyPath) []violationElement {
	var out []violationElement
	data := false

	for i := 0; i < p.Len(); i++ {
		e := p.ElementAt(i)
		if data {
			out = append(out, violationElement{elem: e})
			continue
		}
		if e.Kind == KindProperty && e.Name == "children" && i+1 < p.Len() && p.IsIndex(i+1) {
			i++
			out = append(out, violationElement{elem: p.ElementAt(i), mapsForm: true})
			continue
		}
		if e.Kind == KindProperty && e.Name == "data" {
			data = true
			continue
		}
		break
	}

	return out
}

// reconstructRelative rewrites the form-space prefix of a normalized
// violation path into data-space elements by substituting each named
// child's own contribution. The result is the path the walk matches
// against, relative to root's data. An unresolvable child name ends the
// substitution; the rest of the path is kept in raw form and will not
// match anything, which stops the walk at the right depth.
func reconstructRelative(vp []violationElement, root Field) []PathElement {
	var rel []PathElement
	scope := root

	i := 0
	for ; i < len(vp) && vp[i].mapsForm; i++ {
		child := scope.Child(vp[i].elem.Name)
		if child == nil {
			break
		}
		rel = append(rel, contribution(child)...)
		scope = child
	}

	for ; i < len(vp); i++ {
		if vp[i].mapsForm {
			rel = append(rel, PathElement{Kind: KindProperty, Name: "children"}, vp[i].elem)
			continue
		}
		rel = append(rel, vp[i].elem)
	}

	return rel
}

// matchRule looks up scope's redirection rules against the front of the
// remaining path. A source equal to the entire remaining path wins;
// otherwise prefixes are tried shortest first. The "." rule is handled
// separately after the walk.
func matchRule(scope Field, remaining []PathElement) (src, target string, consumed int, ok bool) {
	rules := scope.ErrorMappingRules()
	if len(rules) == 0 {
		return "", "", 0, false
	}

	full := renderElements(remaining)
	if t, found := rules[full]; found {
		return full, t, len(remaining), true
	}

	for n := 1; n < len(remaining); n++ {
		chunk := renderElements(remaining[:n])
		if t, found := rules[chunk]; found {
			return chunk, t, n, true
		}
	}

	return "", "", 0, false
}

// matchChild finds the child of scope whose contribution is a structural
// prefix of the remaining path. A virtual child contributes nothing and
// matches when its own subtree does; the walk still enters it, so its
// rules and synchronization flag apply one level down.
func matchChild(scope Field, remaining []PathElement) (Field, int) {
	for _, child := range scope.Children() {
		if child.IsVirtual() {
			if hasStructuralMatch(child, remaining) {
				return child, 0
			}
			continue
		}
		c := contribution(child)
		if isElementPrefix(c, remaining) {
			return child, len(c)
		}
	}
	return nil, 0
}

// hasStructuralMatch reports whether any field in f's subtree, reached
// only through virtual layers, has a contribution prefixing remaining.
func hasStructuralMatch(f Field, remaining []PathElement) bool {
	for _, child := range f.Children() {
		if child.IsVirtual() {
			if hasStructuralMatch(child, remaining) {
				return true
			}
			continue
		}
		if isElementPrefix(contribution(child), remaining) {
			return true
		}
	}
	return false
}

// isElementPrefix reports whether prefix matches the front of seq
// element by element, comparing both kind and name. The empty prefix
// matches nothing: dot and bracket segments are never interchangeable
// and a field must consume at least one element to match.
func isElementPrefix(prefix, seq []PathElement) bool {
	if len(prefix) == 0 || len(prefix) > len(seq) {
		return false
	}
	for i := range prefix {
		if prefix[i] != seq[i] {
			return false
		}
	}
	return true
}

func cloneParameters(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
