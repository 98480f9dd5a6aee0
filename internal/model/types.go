package model

import (
	"fmt"
	"strings"
)

// GeometryKeys lists the four geometry parameters extracted from
// geometry.txt, in their canonical reporting order. The parameter set is
// fixed: extraction never yields more or fewer keys than these.
var GeometryKeys = []string{"lK", "lZ0", "lKG", "lSK"}

// GeometrySet maps a geometry parameter key to its value in millimeters.
// A GeometrySet produced by the extractor always contains exactly the
// keys in GeometryKeys; values are never defaulted.
type GeometrySet map[string]float64

// Ordered returns the parameter values in GeometryKeys order.
// Map iteration order is random, so reporting goes through this.
func (g GeometrySet) Ordered() []GeometryValue {
	out := make([]GeometryValue, 0, len(GeometryKeys))
	for _, key := range GeometryKeys {
		if v, ok := g[key]; ok {
			out = append(out, GeometryValue{Key: key, Value: v})
		}
	}
	return out
}

// GeometryValue pairs a geometry parameter key with its extracted value.
type GeometryValue struct {
	Key   string  `json:"key" yaml:"key"`
	Value float64 `json:"value" yaml:"value"`
}

// LayoutEntry describes one required (or optional) item of the project
// layout and whether it was found on disk.
type LayoutEntry struct {
	// Name is the conventional short name of the entry (e.g. "INP",
	// "geometry.txt", "INP/piston_pr.inp").
	Name string `json:"name" yaml:"name"`

	// Path is the absolute path that was checked.
	Path string `json:"path" yaml:"path"`

	// Dir indicates whether the entry must be a directory.
	Dir bool `json:"dir" yaml:"dir"`

	// Required marks entries whose absence blocks the pipeline.
	// Optional entries (Zscalar/scalar.txt may be created later) are
	// reported but never fail validation.
	Required bool `json:"required" yaml:"required"`

	// Present records whether the entry exists with the expected kind.
	Present bool `json:"present" yaml:"present"`
}

// LayoutReport is the result of verifying a project's folder structure.
// It is either fully valid or carries the itemized list of missing
// entries; there is no partial silent success.
type LayoutReport struct {
	// BasePath is the absolute project base directory that was verified.
	BasePath string `json:"basePath" yaml:"basePath"`

	// Entries holds the per-item verification outcome, in the fixed
	// convention order.
	Entries []LayoutEntry `json:"entries" yaml:"entries"`
}

// Missing returns the required entries that were not found.
func (r *LayoutReport) Missing() []LayoutEntry {
	var missing []LayoutEntry
	for _, e := range r.Entries {
		if e.Required && !e.Present {
			missing = append(missing, e)
		}
	}
	return missing
}

// Valid reports whether every required entry is present.
func (r *LayoutReport) Valid() bool {
	return len(r.Missing()) == 0
}

// MissingNames returns the names of missing required entries, joined for
// use in error messages.
func (r *LayoutReport) MissingNames() string {
	missing := r.Missing()
	names := make([]string, len(missing))
	for i, e := range missing {
		names[i] = e.Name
	}
	return strings.Join(names, ", ")
}

// StepStatus represents the outcome of one step (copy or scale) of a
// work unit's processing.
type StepStatus string

const (
	// StepOK indicates the step completed successfully.
	StepOK StepStatus = "ok"

	// StepFailed indicates the step was attempted and failed.
	StepFailed StepStatus = "failed"

	// StepSkipped indicates the step was not attempted: the invocation
	// mode excluded it, a prerequisite was missing (no scalar file), or
	// the run was cancelled before the unit was launched.
	StepSkipped StepStatus = "skipped"
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// IsValid checks whether the StepStatus value is one of the predefined
// valid statuses.
func (s StepStatus) IsValid() bool {
	switch s {
	case StepOK, StepFailed, StepSkipped:
		return true
	default:
		return false
	}
}

// ParseStepStatus converts a string to a StepStatus.
// Returns an error if the string does not match any valid status.
func ParseStepStatus(s string) (StepStatus, error) {
	status := StepStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid step status: %q (valid: ok, failed, skipped)", s)
	}
	return status, nil
}

// UnitResult records the outcome of one work unit, the folder generated
// for a single scale factor. Every attempted unit has exactly one entry
// in the batch result, in scale-table order.
type UnitResult struct {
	// ScaleFactor is the numeric value this unit was generated for.
	ScaleFactor float64 `json:"scaleFactor" yaml:"scaleFactor"`

	// Folder is the unit's directory name under simulation/
	// (e.g. "IM_scaled_piston_1.05").
	Folder string `json:"folder" yaml:"folder"`

	// DuplicateOf is the index (into the batch's unit list) of an earlier
	// unit that maps to the same folder name, or -1 when the folder is
	// unique. Duplicates overwrite each other on disk; the marker keeps
	// the collision visible in the report.
	DuplicateOf int `json:"duplicateOf" yaml:"duplicateOf"`

	// Copy is the status of the template-copy step.
	Copy StepStatus `json:"copy" yaml:"copy"`

	// CopyError holds the copy failure message, if any.
	CopyError string `json:"copyError,omitempty" yaml:"copyError,omitempty"`

	// Scale is the status of the external mesh-scaling step.
	Scale StepStatus `json:"scale" yaml:"scale"`

	// ScaleError holds the scaling failure message, if any.
	ScaleError string `json:"scaleError,omitempty" yaml:"scaleError,omitempty"`
}

// OK reports whether the unit completed without failures.
// Skipped steps do not count as failures.
func (u *UnitResult) OK() bool {
	return u.Copy != StepFailed && u.Scale != StepFailed
}

// BatchResult aggregates the outcome of one batch expansion.
// Units appear in scale-table order and the list is never partial:
// every scale factor in the input produces exactly one entry.
type BatchResult struct {
	// Units holds the per-unit outcomes.
	Units []UnitResult `json:"units" yaml:"units"`
}

// Succeeded returns the number of units that completed without failures.
func (b *BatchResult) Succeeded() int {
	n := 0
	for i := range b.Units {
		if b.Units[i].OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of units with at least one failed step.
func (b *BatchResult) Failed() int {
	return len(b.Units) - b.Succeeded()
}

// OK reports whether every unit in the batch succeeded.
// An empty batch (no scale factors) is a successful no-op.
func (b *BatchResult) OK() bool {
	return b.Failed() == 0
}

// Report is the caller-facing summary of one pipeline run. The GUI or
// CLI front end renders it; the core never assumes a display mechanism.
type Report struct {
	// Layout is the folder-structure verification outcome.
	Layout *LayoutReport `json:"layout,omitempty" yaml:"layout,omitempty"`

	// Geometry holds the extracted parameter values when extraction
	// succeeded. Geometry is informational: its failure does not block
	// batch expansion.
	Geometry GeometrySet `json:"geometry,omitempty" yaml:"geometry,omitempty"`

	// GeometryError holds the extraction failure message, if any.
	GeometryError string `json:"geometryError,omitempty" yaml:"geometryError,omitempty"`

	// ScaleFactors is the ordered list read from the scale table.
	ScaleFactors []float64 `json:"scaleFactors,omitempty" yaml:"scaleFactors,omitempty"`

	// ScaleTableError holds the table parse failure, if any. A table
	// failure is fatal to expansion, so Batch is nil when this is set.
	ScaleTableError string `json:"scaleTableError,omitempty" yaml:"scaleTableError,omitempty"`

	// Batch is the expansion outcome, nil when expansion did not run.
	Batch *BatchResult `json:"batch,omitempty" yaml:"batch,omitempty"`
}

// ExitCode defines standard CLI exit codes. These codes allow scripts
// and CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitLayoutError indicates the project base folder is unusable or
	// required folders/files are missing.
	ExitLayoutError ExitCode = 2

	// ExitExtractionError indicates geometry parameter extraction failed.
	ExitExtractionError ExitCode = 3

	// ExitScaleTableError indicates the scale-factor table could not be
	// parsed (missing header or malformed row).
	ExitScaleTableError ExitCode = 4

	// ExitUnitFailures indicates the batch ran but one or more work
	// units failed to copy or scale.
	ExitUnitFailures ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
