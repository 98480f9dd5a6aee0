package expand

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatScale renders a scale factor for use in a folder name. The 'g'
// format with the shortest round-tripping precision makes the mapping
// factor → name deterministic and reversible: ParseFloat of the result
// yields the original value exactly.
func FormatScale(scale float64) string {
	return strconv.FormatFloat(scale, 'g', -1, 64)
}

// FolderName derives the canonical work-unit folder name for a scale
// factor (e.g. "IM_scaled_piston_1.05" for prefix "IM_scaled_piston_").
func FolderName(prefix string, scale float64) string {
	return prefix + FormatScale(scale)
}

// ParseScale recovers the scale factor from a work-unit folder name.
// It is the inverse of FolderName for the same prefix.
func ParseScale(prefix, name string) (float64, error) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return 0, fmt.Errorf("folder %q does not carry prefix %q", name, prefix)
	}
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, fmt.Errorf("folder %q: cannot parse scale value %q: %w", name, rest, err)
	}
	return v, nil
}
