package fieldmap

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for DumpErrors.
type dumpConfig struct {
	withParameters bool   // Include message parameters for each error
	asJSON         bool   // Output as JSON instead of text format
	indent         string // Indentation for JSON output (default: "  ")
}

// WithParameters includes each error's message parameters in the output.
func WithParameters() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withParameters = true
	}
}

// AsJSON outputs errors as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// DumpErrors writes a human-readable listing of all errors attached to
// the field tree under root, one line per error in tree order. Fields
// expose their errors through the optional ErrorReader interface;
// fields that do not implement it are skipped (their children are still
// visited). Returns an error if writing to the writer fails.
func DumpErrors(w io.Writer, root Field, opts ...DumpOption) error {
	if root == nil {
		return fmt.Errorf("root field is nil")
	}

	config := dumpConfig{
		indent: "  ", // Default indent
	}
	for _, opt := range opts {
		opt(&config)
	}

	entries := collectErrors(root, root.Name())

	if config.asJSON {
		return dumpErrorsJSON(w, entries, config)
	}
	return dumpErrorsText(w, entries, config)
}

// errorEntry is one attached error with the field it belongs to.
type errorEntry struct {
	FieldPath  string            `json:"field"`
	Message    string            `json:"message"`
	Parameters map[string]string `json:"parameters,omitempty"`

	src *FormError // for trace lookup; not serialized
}

// collectErrors walks the tree in order and flattens attached errors.
func collectErrors(f Field, fieldPath string) []errorEntry {
	var entries []errorEntry

	if reader, ok := f.(ErrorReader); ok {
		for _, err := range reader.Errors() {
			entries = append(entries, errorEntry{
				FieldPath:  fieldPath,
				Message:    err.Message,
				Parameters: err.Parameters,
				src:        err,
			})
		}
	}

	for _, child := range f.Children() {
		entries = append(entries, collectErrors(child, fieldPath+"."+child.Name())...)
	}

	return entries
}

// dumpErrorsText outputs errors in text format (field: message).
func dumpErrorsText(w io.Writer, entries []errorEntry, config dumpConfig) error {
	for _, e := range entries {
		line := fmt.Sprintf("%s: %s", e.FieldPath, e.Message)
		if config.withParameters && len(e.Parameters) > 0 {
			keys := make([]string, 0, len(e.Parameters))
			for k := range e.Parameters {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				line += fmt.Sprintf(" %s=%q", k, e.Parameters[k])
			}
		}
		line += "\n"

		if _, err := w.Write([]byte(line)); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}

	return nil
}

// dumpErrorsJSON outputs errors as a JSON array.
func dumpErrorsJSON(w io.Writer, entries []errorEntry, config dumpConfig) error {
	if !config.withParameters {
		for i := range entries {
			entries[i].Parameters = nil
		}
	}
	if entries == nil {
		entries = []errorEntry{}
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(entries, "", config.indent)
	} else {
		data, err = json.Marshal(entries)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}
