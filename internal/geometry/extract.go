package geometry

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/doe-tools/pumpbatch/internal/model"
)

// rule binds a parameter key to the pattern that locates its line.
// The line pattern captures everything after the key; the shared number
// pattern then picks the first numeric token out of that remainder.
type rule struct {
	key  string
	line *regexp.Regexp
}

// numberPattern matches the first signed decimal number (optionally in
// scientific notation) in a line remainder. The token must follow the
// start of the remainder or a separator, so digits embedded in words
// ("rev2", "DN12") are not mistaken for values.
var numberPattern = regexp.MustCompile(`(?:^|[\s=:,;(\[])([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)`)

// rules is built once from model.GeometryKeys. Each line pattern anchors
// the key at the start of a line (leading whitespace allowed) with a word
// boundary, so "lK" does not match "lKG".
var rules = buildRules(model.GeometryKeys)

func buildRules(keys []string) []rule {
	out := make([]rule, len(keys))
	for i, key := range keys {
		out[i] = rule{
			key:  key,
			line: regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(key) + `\b(.*)$`),
		}
	}
	return out
}

// MissingKeysError reports the parameter keys that were not found in the
// geometry text. Keys that were found are never listed.
type MissingKeysError struct {
	Keys []string
}

// Error implements the error interface for MissingKeysError.
func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("geometry parameters not found: %s", strings.Join(e.Keys, ", "))
}

// ValueError reports a line where a parameter key matched but its value
// could not be parsed as a number.
type ValueError struct {
	Key  string
	Line string
	Err  error
}

// Error implements the error interface for ValueError.
func (e *ValueError) Error() string {
	return fmt.Sprintf("geometry parameter %s: cannot parse value on line %q: %v", e.Key, e.Line, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *ValueError) Unwrap() error {
	return e.Err
}

// Extract locates the four geometry parameters in the given text content
// and returns their values in millimeters.
//
// Extraction is order-independent and tolerant of extra columns, units
// and comments on the parameter lines. It returns a MissingKeysError
// naming every key that was not found, or a ValueError for the first
// matched-but-unparseable value.
func Extract(content string) (model.GeometrySet, error) {
	values := make(model.GeometrySet, len(rules))
	var missing []string

	for _, r := range rules {
		m := r.line.FindStringSubmatch(content)
		if m == nil {
			missing = append(missing, r.key)
			continue
		}

		rest := m[1]
		num := numberPattern.FindStringSubmatch(rest)
		if num == nil {
			// The key's line exists but carries no numeric token.
			missing = append(missing, r.key)
			continue
		}

		v, err := strconv.ParseFloat(num[1], 64)
		if err != nil {
			return nil, &ValueError{Key: r.key, Line: strings.TrimSpace(r.key + rest), Err: err}
		}
		values[r.key] = v
	}

	if len(missing) > 0 {
		return nil, &MissingKeysError{Keys: missing}
	}
	return values, nil
}

// ExtractFile reads the given geometry file and extracts the parameters
// from its content.
func ExtractFile(path string) (model.GeometrySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geometry file %q: %w", path, err)
	}
	return Extract(string(data))
}
