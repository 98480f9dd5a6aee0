package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doe-tools/pumpbatch/internal/model"
)

// setupProject creates a complete, valid project layout in a temporary
// directory and returns its path.
func setupProject(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	for _, dir := range []string{"INP", "simulation", "influgen", "Zscalar"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, dir), 0o755))
	}
	writeFile(t, filepath.Join(base, "geometry.txt"), "lK 40.3\n")
	writeFile(t, filepath.Join(base, "INP", "piston_pr.inp"), "*NODE\n")
	writeFile(t, filepath.Join(base, "Zscalar", "scalar.txt"), "piston_pr.inp\n")
	return base
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestVerifyComplete verifies that a fully populated layout reports zero
// missing entries.
func TestVerifyComplete(t *testing.T) {
	base := setupProject(t)

	report, err := Verify(base)
	require.NoError(t, err)

	assert.True(t, report.Valid())
	assert.Empty(t, report.Missing())
	assert.Len(t, report.Entries, 7)
	for _, e := range report.Entries {
		assert.True(t, e.Present, "entry %s should be present", e.Name)
	}
}

// TestVerifyEachMissingEntry removes one required entry at a time and
// checks that exactly that entry (and no other) is reported missing.
func TestVerifyEachMissingEntry(t *testing.T) {
	required := []string{
		"INP",
		"simulation",
		"influgen",
		"Zscalar",
		"geometry.txt",
		filepath.Join("INP", "piston_pr.inp"),
	}

	for _, name := range required {
		t.Run(name, func(t *testing.T) {
			base := setupProject(t)
			require.NoError(t, os.RemoveAll(filepath.Join(base, name)))

			report, err := Verify(base)
			require.NoError(t, err, "missing entries must not be a hard error")

			missing := report.Missing()
			// Removing a directory also removes the files it contains,
			// so INP takes INP/piston_pr.inp with it and Zscalar takes
			// the optional scalar.txt (which never counts as missing).
			switch name {
			case "INP":
				require.Len(t, missing, 2)
				assert.Equal(t, "INP", missing[0].Name)
				assert.Equal(t, filepath.Join("INP", "piston_pr.inp"), missing[1].Name)
			default:
				require.Len(t, missing, 1)
				assert.Equal(t, name, missing[0].Name)
			}
			assert.False(t, report.Valid())
		})
	}
}

// TestVerifyOptionalScalar verifies that a missing Zscalar/scalar.txt is
// reported as absent but does not invalidate the layout.
func TestVerifyOptionalScalar(t *testing.T) {
	base := setupProject(t)
	require.NoError(t, os.Remove(filepath.Join(base, "Zscalar", "scalar.txt")))

	report, err := Verify(base)
	require.NoError(t, err)

	assert.True(t, report.Valid())
	for _, e := range report.Entries {
		if e.Name == filepath.Join("Zscalar", "scalar.txt") {
			assert.False(t, e.Present)
			assert.False(t, e.Required)
		}
	}
}

// TestVerifyFileWhereDirExpected verifies that a file occupying a required
// directory's path counts as missing.
func TestVerifyFileWhereDirExpected(t *testing.T) {
	base := setupProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(base, "influgen")))
	writeFile(t, filepath.Join(base, "influgen"), "not a directory")

	report, err := Verify(base)
	require.NoError(t, err)

	missing := report.Missing()
	require.Len(t, missing, 1)
	assert.Equal(t, "influgen", missing[0].Name)
}

// TestVerifyBadBasePath verifies the hard-failure cases: a non-existent
// base path and a base path that is a plain file.
func TestVerifyBadBasePath(t *testing.T) {
	_, err := Verify(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitLayoutError, cliErr.Code)

	filePath := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))
	_, err = Verify(filePath)
	require.Error(t, err)
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitLayoutError, cliErr.Code)
}
