package formtree

import (
	"reflect"
	"strings"
	"unicode"
)

// tagConfig holds parsed directives from a struct field's `field` tag.
type tagConfig struct {
	name           string            // Field name override (name:street)
	path           string            // Custom property path (path:data.street)
	virtual        bool              // Field is a pass-through layer (virtual)
	unsynchronized bool              // Field starts unsynchronized (unsynchronized)
	rules          map[string]string // Error mapping rules (rule:src=target)
}

// FromStruct derives a field tree from the shape of a Go struct. Each
// exported field becomes a child; nested structs recurse. Directives in
// the `field` tag refine the derivation:
//
//	type Registration struct {
//	    Address struct {
//	        Street string
//	    } `field:"path:address,rule:extra=street"`
//	    Meta struct {
//	        Notes string
//	    } `field:"virtual"`
//	    Internal string `field:"-"`
//	}
//
// Tag directives: name:X, path:X, virtual, unsynchronized, rule:src=target.
// The derived tree goes through the same validation as Builder.Build.
func FromStruct[T any](name string, opts ...Option) (*Node, error) {
	b := New(name, opts...)
	addStructFields(b, reflect.TypeOf((*T)(nil)).Elem())
	return b.Build()
}

// addStructFields declares a builder child per exported struct field.
func addStructFields(b *Builder, t reflect.Type) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("field")
		if tag == "-" {
			continue
		}
		cfg := parseFieldTag(tag)

		name := cfg.name
		if name == "" {
			name = deriveFieldName(field.Name)
		}

		child := b.Add(name, cfg.options()...)

		fieldType := field.Type
		if fieldType.Kind() == reflect.Ptr {
			fieldType = fieldType.Elem()
		}
		// time.Time and friends are value-like despite being structs.
		if fieldType.Kind() == reflect.Struct && fieldType.PkgPath() != "time" {
			addStructFields(child, fieldType)
		}
	}
}

// parseFieldTag parses a `field` struct tag into a structured tagConfig.
// Tag format: "directive1:value1,directive2:value2,..."
// Boolean directives can omit `:true` (e.g., "virtual" == "virtual:true")
func parseFieldTag(tag string) tagConfig {
	cfg := tagConfig{}

	if tag == "" {
		return cfg
	}

	for _, directive := range strings.Split(tag, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		parts := strings.SplitN(directive, ":", 2)
		name := strings.TrimSpace(parts[0])
		var value string
		if len(parts) > 1 {
			value = parts[1]
		}

		switch name {
		case "name":
			cfg.name = value
		case "path":
			cfg.path = value
		case "rule":
			src, target, ok := strings.Cut(value, "=")
			if !ok {
				// Malformed rule directives surface at Build through an
				// empty target.
				target = ""
			}
			if cfg.rules == nil {
				cfg.rules = make(map[string]string)
			}
			cfg.rules[src] = target
		case "virtual":
			cfg.virtual = value == "" || value == "true"
		case "unsynchronized":
			cfg.unsynchronized = value == "" || value == "true"
		}
	}

	return cfg
}

// options converts parsed directives into builder options.
func (cfg tagConfig) options() []Option {
	var opts []Option
	if cfg.path != "" {
		opts = append(opts, WithPropertyPath(cfg.path))
	}
	if cfg.virtual {
		opts = append(opts, Virtual())
	}
	if cfg.unsynchronized {
		opts = append(opts, Unsynchronized())
	}
	if len(cfg.rules) > 0 {
		opts = append(opts, WithRules(cfg.rules))
	}
	return opts
}

// deriveFieldName derives a field name from a struct field name by
// lowercasing its first rune.
func deriveFieldName(fieldName string) string {
	if fieldName == "" {
		return ""
	}

	runes := []rune(fieldName)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
