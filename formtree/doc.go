// Package formtree provides the canonical fieldmap.Field implementation:
// a validated field tree assembled through a fluent Builder, loaded from
// YAML/JSON/TOML definitions, or derived from struct tags.
package formtree
