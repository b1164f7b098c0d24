package fieldmap_test

import (
	"fmt"
	"log"
	"os"

	"github.com/Azhovan/fieldmap"
	"github.com/Azhovan/fieldmap/formtree"
)

// Example demonstrates mapping a violation onto a nested field tree.
func Example() {
	// Define the field tree mirroring the submitted form.
	user := formtree.New("user")
	address := user.Add("address")
	address.Add("street")
	address.Add("city")

	root, err := user.Build()
	if err != nil {
		log.Fatal(err)
	}

	// A validation engine reported a violation against the data.
	violation := fieldmap.Violation{
		Message:      "This value should not be blank.",
		PropertyPath: "children[address].data.street",
	}

	if err := fieldmap.NewMapper().MapViolation(violation, root); err != nil {
		log.Fatal(err)
	}

	if err := fieldmap.DumpErrors(os.Stdout, root); err != nil {
		log.Fatal(err)
	}

	// Output:
	// user.address.street: This value should not be blank.
}

// ExampleMapper_MapViolation demonstrates error mapping rules redirecting
// a violation to a named field.
func ExampleMapper_MapViolation() {
	checkout := formtree.New("checkout",
		formtree.WithRule("vatNumber", "billing.vat"))
	checkout.Add("billing").Add("vat")

	root, err := checkout.Build()
	if err != nil {
		log.Fatal(err)
	}

	violation := fieldmap.Violation{
		Message:      "Invalid VAT number.",
		PropertyPath: "data.vatNumber",
	}
	if err := fieldmap.NewMapper().MapViolation(violation, root); err != nil {
		log.Fatal(err)
	}

	vat := root.Get("billing").Get("vat")
	for _, e := range vat.Errors() {
		fmt.Println(e.Message)
	}

	// Output:
	// Invalid VAT number.
}

// ExampleGetTrace demonstrates inspecting how an error reached its field.
func ExampleGetTrace() {
	user := formtree.New("user")
	user.Add("address").Add("street")

	root, err := user.Build()
	if err != nil {
		log.Fatal(err)
	}

	violation := fieldmap.Violation{
		Message:      "Too long.",
		PropertyPath: "children[address].data.street",
	}
	if err := fieldmap.NewMapper().MapViolation(violation, root); err != nil {
		log.Fatal(err)
	}

	street := root.Get("address").Get("street")
	trace, _ := fieldmap.GetTrace(street.Errors()[0])
	fmt.Println("target:", trace.Target)
	for _, step := range trace.Steps {
		fmt.Printf("entered %s consuming %q\n", step.Field, step.Consumed)
	}

	// Output:
	// target: street
	// entered address consuming "address"
	// entered street consuming "street"
}
