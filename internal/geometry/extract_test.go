package geometry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractPlain verifies extraction from the straightforward
// "key value" layout.
func TestExtractPlain(t *testing.T) {
	content := "lK 40.3\nlZ0 19.5\nlKG 30.6\nlSK 54.1\n"

	values, err := Extract(content)
	require.NoError(t, err)

	assert.Equal(t, 40.3, values["lK"])
	assert.Equal(t, 19.5, values["lZ0"])
	assert.Equal(t, 30.6, values["lKG"])
	assert.Equal(t, 54.1, values["lSK"])
	assert.Len(t, values, 4)
}

// TestExtractOrderIndependent verifies that the parameters may appear in
// any order in the file.
func TestExtractOrderIndependent(t *testing.T) {
	content := "lSK 54.1\nlKG 30.6\nlK 40.3\nlZ0 19.5\n"

	values, err := Extract(content)
	require.NoError(t, err)
	assert.Equal(t, 40.3, values["lK"])
	assert.Equal(t, 54.1, values["lSK"])
}

// TestExtractTolerantFormats verifies tolerance to variable whitespace,
// units, separators, scientific notation and trailing comments.
func TestExtractTolerantFormats(t *testing.T) {
	content := "" +
		"# piston geometry, exported 2025-11-03\n" +
		"\tlK\t  40.3 mm  (piston length)\n" +
		"lZ0 = 1.95e+1 mm\n" +
		"lKG:  30.6   gap length, see drawing rev2\n" +
		"  lSK   -54.1mm\n"

	values, err := Extract(content)
	require.NoError(t, err)

	assert.Equal(t, 40.3, values["lK"])
	assert.Equal(t, 19.5, values["lZ0"])
	assert.Equal(t, 30.6, values["lKG"])
	assert.Equal(t, -54.1, values["lSK"])
}

// TestExtractKeyPrefixes verifies that lK does not match the lKG line and
// that the lK_scale_value table header is not mistaken for lK.
func TestExtractKeyPrefixes(t *testing.T) {
	content := "lKG 30.6\nlK_scale_value\nlK 40.3\nlZ0 19.5\nlSK 54.1\n"

	values, err := Extract(content)
	require.NoError(t, err)
	assert.Equal(t, 40.3, values["lK"])
	assert.Equal(t, 30.6, values["lKG"])
}

// TestExtractMissingKey verifies that a missing key is named specifically
// and the present keys are not spuriously reported.
func TestExtractMissingKey(t *testing.T) {
	content := "lK 40.3\nlZ0 19.5\nlKG 30.6\n"

	_, err := Extract(content)
	require.Error(t, err)

	var missingErr *MissingKeysError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"lSK"}, missingErr.Keys)
}

// TestExtractAllMissing verifies that every absent key is listed.
func TestExtractAllMissing(t *testing.T) {
	_, err := Extract("nothing relevant here\n")
	require.Error(t, err)

	var missingErr *MissingKeysError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"lK", "lZ0", "lKG", "lSK"}, missingErr.Keys)
}

// TestExtractLineWithoutNumber verifies that a key line carrying no
// numeric token counts as a missing key.
func TestExtractLineWithoutNumber(t *testing.T) {
	content := "lK see appendix\nlZ0 19.5\nlKG 30.6\nlSK 54.1\n"

	_, err := Extract(content)
	require.Error(t, err)

	var missingErr *MissingKeysError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []string{"lK"}, missingErr.Keys)
}

// TestExtractUnparseableValue verifies the hard error for a matched value
// that overflows float parsing, naming the offending line.
func TestExtractUnparseableValue(t *testing.T) {
	content := "lK 1e999999\nlZ0 19.5\nlKG 30.6\nlSK 54.1\n"

	_, err := Extract(content)
	require.Error(t, err)

	var valueErr *ValueError
	require.True(t, errors.As(err, &valueErr))
	assert.Equal(t, "lK", valueErr.Key)
	assert.Contains(t, valueErr.Line, "1e999999")
}

// TestExtractFile verifies reading from disk and the missing-file error.
func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometry.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("lK 40.3\nlZ0 19.5\nlKG 30.6\nlSK 54.1\n"), 0o644))

	values, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Len(t, values, 4)

	_, err = ExtractFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
