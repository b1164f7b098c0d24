package fieldmap

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxReportSize is the maximum allowed serialized report size (100MB).
const MaxReportSize = 100 * 1024 * 1024

// ReportVersion is the current report format version.
const ReportVersion = "1.0"

// Report errors.
var (
	// ErrReportTooLarge is returned when a report exceeds MaxReportSize.
	ErrReportTooLarge = errors.New("fieldmap: report exceeds 100MB size limit")

	// ErrNilField is returned when CreateReport receives a nil root field.
	ErrNilField = errors.New("fieldmap: root field is nil")

	// ErrUnsupportedVersion is returned when reading a report with unknown version.
	ErrUnsupportedVersion = errors.New("fieldmap: unsupported report version")
)

// supportedVersions lists report format versions that can be read.
var supportedVersions = map[string]bool{
	"1.0": true,
}

// ErrorReport is a point-in-time capture of all errors attached to a
// field tree, suitable for handoff to external tooling.
type ErrorReport struct {
	// Version is the report format version (currently "1.0")
	Version string `json:"version"`

	// Timestamp is when the report was created
	Timestamp time.Time `json:"timestamp"`

	// Errors lists attached errors in tree order.
	Errors []ReportEntry `json:"errors"`
}

// ReportEntry is one attached error in a report.
type ReportEntry struct {
	// Field is the dot-joined name path of the field, starting at the root.
	Field string `json:"field"`

	// Message and Parameters are the error content.
	Message    string            `json:"message"`
	Parameters map[string]string `json:"parameters,omitempty"`

	// ViolationPath is the raw path of the originating violation, when a
	// mapping trace is available for the error.
	ViolationPath string `json:"violation_path,omitempty"`
}

// ReportOption configures report creation behavior.
type ReportOption func(*reportConfig)

// reportConfig holds internal configuration for report creation.
type reportConfig struct {
	excludeFields []string // Field name paths to exclude
}

// WithExcludeFields excludes errors on the given field name paths from
// the report. Paths use dot notation starting at the root field (e.g.,
// "user.address.street").
func WithExcludeFields(paths ...string) ReportOption {
	return func(cfg *reportConfig) {
		cfg.excludeFields = append(cfg.excludeFields, paths...)
	}
}

// CreateReport captures all errors attached to the tree under root.
func CreateReport(root Field, opts ...ReportOption) (*ErrorReport, error) {
	if root == nil {
		return nil, ErrNilField
	}

	repCfg := &reportConfig{}
	for _, opt := range opts {
		opt(repCfg)
	}

	excluded := make(map[string]bool, len(repCfg.excludeFields))
	for _, p := range repCfg.excludeFields {
		excluded[p] = true
	}

	entries := make([]ReportEntry, 0)
	for _, e := range collectErrors(root, root.Name()) {
		if excluded[e.FieldPath] {
			continue
		}
		entry := ReportEntry{
			Field:      e.FieldPath,
			Message:    e.Message,
			Parameters: cloneParameters(e.Parameters),
		}
		if tr, ok := GetTrace(e.src); ok {
			entry.ViolationPath = tr.ViolationPath
		}
		entries = append(entries, entry)
	}

	return &ErrorReport{
		Version:   ReportVersion,
		Timestamp: time.Now().UTC(),
		Errors:    entries,
	}, nil
}

// ExpandPath expands template variables in a report path using the
// current time. See ExpandPathWithTime.
func ExpandPath(template string) string {
	return ExpandPathWithTime(template, time.Now())
}

// ExpandPathWithTime expands template variables using the provided timestamp.
// Replaces all {{timestamp}} occurrences with the time formatted as 20060102-150405.
// Returns the path unchanged if no template variables are present.
func ExpandPathWithTime(template string, t time.Time) string {
	timestamp := t.UTC().Format("20060102-150405")
	return strings.ReplaceAll(template, "{{timestamp}}", timestamp)
}

// WriteReport persists a report to disk with atomic write semantics.
// Supports the {{timestamp}} template variable in the path, expanded
// from report.Timestamp so the filename matches the internal metadata.
// Returns ErrReportTooLarge if the serialized size exceeds 100MB.
func WriteReport(report *ErrorReport, pathTemplate string) error {
	if report == nil {
		return ErrNilField
	}

	targetPath := ExpandPathWithTime(pathTemplate, report.Timestamp)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	if len(data) > MaxReportSize {
		return ErrReportTooLarge
	}

	dir := filepath.Dir(targetPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0700); mkdirErr != nil {
			return mkdirErr
		}
	}

	// Write to a temp file in the same directory and rename for atomicity.
	tempPath, err := generateTempFileName(targetPath)
	if err != nil {
		return err
	}

	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return err
	}
	tempFileCreated = true

	if err := os.Rename(tempPath, targetPath); err != nil {
		return err
	}
	tempFileCreated = false

	return nil
}

// ReadReport loads a report previously written with WriteReport.
// Returns ErrUnsupportedVersion for unknown format versions.
func ReadReport(path string) (*ErrorReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	var report ErrorReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}

	if !supportedVersions[report.Version] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, report.Version)
	}

	return &report, nil
}

// generateTempFileName produces a random sibling path for atomic writes.
func generateTempFileName(targetPath string) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return targetPath + ".tmp-" + hex.EncodeToString(suffix), nil
}
