package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/doe-tools/pumpbatch/internal/model"
)

// requiredEntry describes one item of the fixed project convention.
type requiredEntry struct {
	name     string
	dir      bool
	required bool
}

// requiredEntries is the fixed convention table, in reporting order.
// Zscalar/scalar.txt is optional: it may be created later in the
// workflow, so its absence is reported but never blocks the pipeline.
var requiredEntries = []requiredEntry{
	{name: "INP", dir: true, required: true},
	{name: "simulation", dir: true, required: true},
	{name: "influgen", dir: true, required: true},
	{name: "Zscalar", dir: true, required: true},
	{name: "geometry.txt", required: true},
	{name: filepath.Join("INP", "piston_pr.inp"), required: true},
	{name: filepath.Join("Zscalar", "scalar.txt"), required: false},
}

// Verify inspects the project layout under basePath and reports the
// presence of every conventional entry.
//
// Missing entries are the expected, reportable outcome and never produce
// an error. Verify fails only when basePath itself is not a usable
// directory, returning a CLIError with ExitLayoutError.
func Verify(basePath string) (*model.LayoutReport, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitLayoutError,
			fmt.Sprintf("cannot resolve base folder %q", basePath), err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitLayoutError,
			fmt.Sprintf("base folder %q is not accessible", abs), err)
	}
	if !info.IsDir() {
		return nil, model.NewCLIError(model.ExitLayoutError,
			fmt.Sprintf("base folder %q is not a directory", abs))
	}

	report := &model.LayoutReport{BasePath: abs}
	for _, e := range requiredEntries {
		path := filepath.Join(abs, e.name)
		report.Entries = append(report.Entries, model.LayoutEntry{
			Name:     e.name,
			Path:     path,
			Dir:      e.dir,
			Required: e.required,
			Present:  entryPresent(path, e.dir),
		})
	}
	return report, nil
}

// entryPresent checks that the path exists and matches the expected kind.
// A file where a directory is required (or vice versa) counts as missing.
func entryPresent(path string, wantDir bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir() == wantDir
}
