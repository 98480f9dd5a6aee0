package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGeometrySetOrdered verifies that Ordered returns values in the
// canonical key order regardless of map iteration order.
func TestGeometrySetOrdered(t *testing.T) {
	g := GeometrySet{
		"lSK": 54.1,
		"lK":  40.3,
		"lKG": 30.6,
		"lZ0": 19.5,
	}

	ordered := g.Ordered()
	require.Len(t, ordered, 4)

	keys := make([]string, len(ordered))
	for i, v := range ordered {
		keys[i] = v.Key
	}
	assert.Equal(t, GeometryKeys, keys)
	assert.Equal(t, 40.3, ordered[0].Value)
	assert.Equal(t, 54.1, ordered[3].Value)
}

// TestLayoutReportMissing verifies that Missing only lists required
// entries and that Valid reflects the result.
func TestLayoutReportMissing(t *testing.T) {
	r := &LayoutReport{
		BasePath: "/base",
		Entries: []LayoutEntry{
			{Name: "INP", Dir: true, Required: true, Present: true},
			{Name: "simulation", Dir: true, Required: true, Present: false},
			{Name: "Zscalar/scalar.txt", Required: false, Present: false},
		},
	}

	missing := r.Missing()
	require.Len(t, missing, 1, "optional entries must not count as missing")
	assert.Equal(t, "simulation", missing[0].Name)
	assert.False(t, r.Valid())
	assert.Equal(t, "simulation", r.MissingNames())

	r.Entries[1].Present = true
	assert.True(t, r.Valid())
	assert.Empty(t, r.Missing())
}

// TestParseStepStatus verifies parsing of valid and invalid step statuses.
func TestParseStepStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    StepStatus
		wantErr bool
	}{
		{"ok", StepOK, false},
		{"FAILED", StepFailed, false},
		{"Skipped", StepSkipped, false},
		{"pending", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStepStatus(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
		} else {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got)
		}
	}
}

// TestBatchResultCounts verifies the success/failure counting logic,
// including that skipped steps do not count as failures.
func TestBatchResultCounts(t *testing.T) {
	b := &BatchResult{
		Units: []UnitResult{
			{ScaleFactor: 5, Copy: StepOK, Scale: StepOK, DuplicateOf: -1},
			{ScaleFactor: 10, Copy: StepOK, Scale: StepSkipped, DuplicateOf: -1},
			{ScaleFactor: 15, Copy: StepFailed, Scale: StepSkipped, DuplicateOf: -1},
		},
	}

	assert.Equal(t, 2, b.Succeeded())
	assert.Equal(t, 1, b.Failed())
	assert.False(t, b.OK())

	empty := &BatchResult{}
	assert.True(t, empty.OK(), "an empty batch is a successful no-op")
}

// TestCLIErrorWrapping verifies the error interface and unwrap behavior.
func TestCLIErrorWrapping(t *testing.T) {
	inner := errors.New("permission denied")
	err := WrapCLIError(ExitLayoutError, "base folder not accessible", inner)

	assert.Equal(t, ExitLayoutError, err.Code)
	assert.Equal(t, "base folder not accessible: permission denied", err.Error())
	assert.True(t, errors.Is(err, inner))

	plain := NewCLIError(ExitScaleTableError, "missing header")
	assert.Equal(t, "missing header", plain.Error())
	assert.Nil(t, plain.Unwrap())
}
