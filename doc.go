// Package fieldmap maps validation failures onto the fields of a nested
// form model.
//
// Quick Start:
//
//	root, _ := formtree.New("user").Build()
//	// ... add fields via the builder before Build ...
//
//	mapper := fieldmap.NewMapper()
//	err := mapper.MapViolation(fieldmap.Violation{
//	    Message:      "This value is too short.",
//	    PropertyPath: "children[address].data.street",
//	}, root)
//
// A violation carries a dotted/bracketed path into the submitted data;
// the mapper walks the field tree in lock-step with that path and
// attaches exactly one error to the deepest field the path matches,
// honoring per-field error mapping rules, virtual pass-through layers,
// and the synchronization guard.
//
// See example_test.go and README.md for detailed usage.
package fieldmap
