package fieldmap

import (
	"errors"
	"testing"
)

func TestParse_RoundTrip(t *testing.T) {
	// render(parse(s)) == s for every valid path.
	paths := []string{
		"street",
		"address.street",
		"[0]",
		"[0].street",
		"rows[0][1]",
		"children[address].data.street",
		"a.b.c.d.e",
		"data[items].name",
		"snake_case.and-dash",
	}

	for _, s := range paths {
		t.Run(s, func(t *testing.T) {
			p, err := Parse(s)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", s, err)
			}
			if got := p.String(); got != s {
				t.Errorf("Parse(%q).String() = %q, want %q", s, got, s)
			}
		})
	}
}

func TestParse_Elements(t *testing.T) {
	p, err := Parse("children[address].data.street")
	if err != nil {
		t.Fatal(err)
	}

	want := []PathElement{
		{Kind: KindProperty, Name: "children"},
		{Kind: KindIndex, Name: "address"},
		{Kind: KindProperty, Name: "data"},
		{Kind: KindProperty, Name: "street"},
	}

	if p.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", p.Len(), len(want))
	}
	for i, w := range want {
		if got := p.ElementAt(i); got != w {
			t.Errorf("ElementAt(%d) = %+v, want %+v", i, got, w)
		}
		if got := p.IsIndex(i); got != (w.Kind == KindIndex) {
			t.Errorf("IsIndex(%d) = %v, want %v", i, got, w.Kind == KindIndex)
		}
		if got := p.IsProperty(i); got != (w.Kind == KindProperty) {
			t.Errorf("IsProperty(%d) = %v, want %v", i, got, w.Kind == KindProperty)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"leading dot", ".street"},
		{"trailing dot", "street."},
		{"double dot", "a..b"},
		{"unclosed bracket", "rows[0"},
		{"empty index", "rows[]"},
		{"stray close bracket", "]x"},
		{"dot before bracket", "a.[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.in)
			}
			var perr *PathError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error type = %T, want *PathError", tt.in, err)
			}
			if perr.Path != tt.in {
				t.Errorf("PathError.Path = %q, want %q", perr.Path, tt.in)
			}
		})
	}
}

func TestPropertyPath_Parent(t *testing.T) {
	p := MustParse("address.street.number")

	parent := p.Parent()
	if parent == nil || parent.String() != "address.street" {
		t.Errorf("Parent() = %v, want address.street", parent)
	}

	grandparent := parent.Parent()
	if grandparent == nil || grandparent.String() != "address" {
		t.Errorf("Parent().Parent() = %v, want address", grandparent)
	}

	if got := grandparent.Parent(); got != nil {
		t.Errorf("Parent() of single-element path = %v, want nil", got)
	}
}

func TestPropertyPath_Ancestor(t *testing.T) {
	p := MustParse("a.b[0].c")

	tests := []struct {
		depth int
		want  string // "" means nil
	}{
		{0, ""},
		{1, "a"},
		{2, "a.b"},
		{3, "a.b[0]"},
		{4, "a.b[0].c"},
		{5, ""},
	}

	for _, tt := range tests {
		got := p.Ancestor(tt.depth)
		if tt.want == "" {
			if got != nil {
				t.Errorf("Ancestor(%d) = %q, want nil", tt.depth, got.String())
			}
			continue
		}
		if got == nil || got.String() != tt.want {
			t.Errorf("Ancestor(%d) = %v, want %q", tt.depth, got, tt.want)
		}
	}
}

func TestPropertyPath_ElementsIsACopy(t *testing.T) {
	p := MustParse("a.b")

	elems := p.Elements()
	elems[0].Name = "mutated"

	if p.ElementAt(0).Name != "a" {
		t.Error("Elements() must return a copy, not the backing slice")
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse of invalid path did not panic")
		}
	}()
	MustParse(".bad")
}

func TestPathElement_String(t *testing.T) {
	if got := (PathElement{Kind: KindProperty, Name: "street"}).String(); got != ".street" {
		t.Errorf("property element String() = %q, want %q", got, ".street")
	}
	if got := (PathElement{Kind: KindIndex, Name: "0"}).String(); got != "[0]" {
		t.Errorf("index element String() = %q, want %q", got, "[0]")
	}
}
