package fieldmap_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Azhovan/fieldmap"
	"github.com/Azhovan/fieldmap/formtree"
)

func mapAll(t *testing.T, root *formtree.Node, violations ...fieldmap.Violation) {
	t.Helper()
	mapper := fieldmap.NewMapper()
	for _, v := range violations {
		if err := mapper.MapViolation(v, root); err != nil {
			t.Fatalf("MapViolation(%q): %v", v.PropertyPath, err)
		}
	}
}

func TestDumpErrors_Text(t *testing.T) {
	root := build(t, addressTree())
	mapAll(t, root,
		fieldmap.Violation{Message: "Street is required.", PropertyPath: "children[address].data.street"},
		fieldmap.Violation{Message: "Address is incomplete.", PropertyPath: "children[address].data.city"},
	)

	var buf bytes.Buffer
	if err := fieldmap.DumpErrors(&buf, root); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	want := "parent.address: Address is incomplete.\nparent.address.street: Street is required.\n"
	if got != want {
		t.Errorf("DumpErrors output\ngot:  %q\nwant: %q", got, want)
	}
}

func TestDumpErrors_TextWithParameters(t *testing.T) {
	root := build(t, addressTree())
	mapAll(t, root, fieldmap.Violation{
		Message:      "Too short.",
		Parameters:   map[string]string{"{{ min }}": "3", "{{ max }}": "20"},
		PropertyPath: "children[address].data.street",
	})

	var buf bytes.Buffer
	if err := fieldmap.DumpErrors(&buf, root, fieldmap.WithParameters()); err != nil {
		t.Fatal(err)
	}

	// Parameters are rendered sorted by key.
	want := "parent.address.street: Too short. {{ max }}=\"20\" {{ min }}=\"3\"\n"
	if got := buf.String(); got != want {
		t.Errorf("DumpErrors output\ngot:  %q\nwant: %q", got, want)
	}
}

func TestDumpErrors_JSON(t *testing.T) {
	root := build(t, addressTree())
	mapAll(t, root, fieldmap.Violation{
		Message:      "Invalid.",
		Parameters:   map[string]string{"{{ value }}": "x"},
		PropertyPath: "children[address].data.street",
	})

	var buf bytes.Buffer
	if err := fieldmap.DumpErrors(&buf, root, fieldmap.AsJSON(), fieldmap.WithParameters()); err != nil {
		t.Fatal(err)
	}

	var entries []struct {
		Field      string            `json:"field"`
		Message    string            `json:"message"`
		Parameters map[string]string `json:"parameters"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Field != "parent.address.street" || entries[0].Message != "Invalid." {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[0].Parameters["{{ value }}"] != "x" {
		t.Errorf("parameters = %v", entries[0].Parameters)
	}
}

func TestDumpErrors_JSONWithoutParameters(t *testing.T) {
	root := build(t, addressTree())
	mapAll(t, root, fieldmap.Violation{
		Message:      "Invalid.",
		Parameters:   map[string]string{"{{ value }}": "x"},
		PropertyPath: "children[address].data.street",
	})

	var buf bytes.Buffer
	if err := fieldmap.DumpErrors(&buf, root, fieldmap.AsJSON()); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(buf.String(), "parameters") {
		t.Errorf("parameters should be omitted without WithParameters():\n%s", buf.String())
	}
}

func TestDumpErrors_EmptyTree(t *testing.T) {
	root := build(t, addressTree())

	var buf bytes.Buffer
	if err := fieldmap.DumpErrors(&buf, root); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("text dump of clean tree = %q, want empty", buf.String())
	}

	buf.Reset()
	if err := fieldmap.DumpErrors(&buf, root, fieldmap.AsJSON(), fieldmap.WithIndent("")); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("JSON dump of clean tree = %q, want []", got)
	}
}

func TestDumpErrors_NilRoot(t *testing.T) {
	if err := fieldmap.DumpErrors(&bytes.Buffer{}, nil); err == nil {
		t.Error("DumpErrors(nil root) succeeded, want error")
	}
}
