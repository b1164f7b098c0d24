package formtree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options configures field tree file loading.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string
}

// fieldDef is the on-disk shape of one field. Children are a list so
// declaration order survives every format.
type fieldDef struct {
	Name           string            `yaml:"name" json:"name" toml:"name"`
	PropertyPath   string            `yaml:"property_path" json:"property_path,omitempty" toml:"property_path"`
	Virtual        bool              `yaml:"virtual" json:"virtual,omitempty" toml:"virtual"`
	Unsynchronized bool              `yaml:"unsynchronized" json:"unsynchronized,omitempty" toml:"unsynchronized"`
	Rules          map[string]string `yaml:"rules" json:"rules,omitempty" toml:"rules"`
	Fields         []fieldDef        `yaml:"fields" json:"fields,omitempty" toml:"fields"`
}

// LoadFile reads a declarative field tree definition and builds it.
// The definition is a nested document of field declarations:
//
//	name: user
//	fields:
//	  - name: address
//	    property_path: address
//	    fields:
//	      - name: street
//	  - name: extra
//	    virtual: true
//	    fields:
//	      - name: note
//	    rules:
//	      ".": note
//
// The built tree goes through the same validation as Builder.Build.
func LoadFile(path string, opts Options) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree definition %s: %w", path, err)
	}

	format := opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	var root fieldDef
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}

	return root.toBuilder().Build()
}

// toBuilder converts a definition into builder declarations.
func (d fieldDef) toBuilder() *Builder {
	b := New(d.Name, d.options()...)
	d.addChildren(b)
	return b
}

func (d fieldDef) addChildren(b *Builder) {
	for _, child := range d.Fields {
		cb := b.Add(child.Name, child.options()...)
		child.addChildren(cb)
	}
}

func (d fieldDef) options() []Option {
	var opts []Option
	if d.PropertyPath != "" {
		opts = append(opts, WithPropertyPath(d.PropertyPath))
	}
	if d.Virtual {
		opts = append(opts, Virtual())
	}
	if d.Unsynchronized {
		opts = append(opts, Unsynchronized())
	}
	if len(d.Rules) > 0 {
		opts = append(opts, WithRules(d.Rules))
	}
	return opts
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
