package expand

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/doe-tools/pumpbatch/internal/config"
	"github.com/doe-tools/pumpbatch/internal/model"
	"github.com/doe-tools/pumpbatch/internal/scaler"
)

// Mode selects which steps of the expansion run for every unit.
type Mode string

const (
	// ModeFull copies templates and invokes the scaler.
	ModeFull Mode = "full"

	// ModeCopyOnly creates and populates folders but skips scaling.
	ModeCopyOnly Mode = "copy-only"

	// ModeScaleOnly invokes the scaler against already-populated folders
	// without creating or copying anything.
	ModeScaleOnly Mode = "scale-only"
)

// IsValid checks whether the Mode value is one of the predefined modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeFull, ModeCopyOnly, ModeScaleOnly:
		return true
	default:
		return false
	}
}

// Options configures one batch expansion.
type Options struct {
	// BaseDir is the project base folder.
	BaseDir string

	// Settings holds the layout conventions. Nil means config.Default().
	Settings *config.Settings

	// Runner invokes the external scaler. Required unless Mode is
	// ModeCopyOnly.
	Runner scaler.Runner

	// Mode selects the steps to run; empty means ModeFull.
	Mode Mode

	// Observer, when non-nil, receives each unit's result as soon as the
	// unit finishes. Calls are serialized, so the observer needs no
	// locking of its own.
	Observer func(model.UnitResult)
}

// Run processes every scale factor into a work unit and returns the
// aggregated batch result. The returned error covers invalid options
// only; per-unit copy and scaling failures are recorded in the result,
// isolated from their siblings.
//
// Cancelling the context stops launching new units; in-flight units run
// to completion so no unit is left half-copied. Units never launched are
// reported as skipped and the context's error is returned alongside the
// partial batch, so an interrupted run is never mistaken for a complete
// one.
func Run(ctx context.Context, opts Options, scales []float64) (*model.BatchResult, error) {
	if opts.Mode == "" {
		opts.Mode = ModeFull
	}
	if !opts.Mode.IsValid() {
		return nil, fmt.Errorf("invalid expansion mode %q", opts.Mode)
	}
	if opts.Settings == nil {
		opts.Settings = config.Default()
	}
	if opts.Runner == nil && opts.Mode != ModeCopyOnly {
		return nil, errors.New("expansion requires a scaler runner unless mode is copy-only")
	}

	results := make([]model.UnitResult, len(scales))
	firstIndex := make(map[string]int)
	groups := make(map[string][]int)
	var order []string

	for i, s := range scales {
		folder := FolderName(opts.Settings.FolderPrefix, s)
		results[i] = model.UnitResult{
			ScaleFactor: s,
			Folder:      folder,
			DuplicateOf: -1,
			Copy:        model.StepSkipped,
			Scale:       model.StepSkipped,
		}
		if first, seen := firstIndex[folder]; seen {
			results[i].DuplicateOf = first
		} else {
			firstIndex[folder] = i
			order = append(order, folder)
		}
		groups[folder] = append(groups[folder], i)
	}

	workers := opts.Settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		g          errgroup.Group
		observerMu sync.Mutex
	)
	g.SetLimit(workers)

	notify := func(u model.UnitResult) {
		if opts.Observer == nil {
			return
		}
		observerMu.Lock()
		defer observerMu.Unlock()
		opts.Observer(u)
	}

	launched := make(map[string]bool, len(order))
	for _, folder := range order {
		// Stop launching once the context is cancelled; units already
		// running are left to finish.
		if ctx.Err() != nil {
			break
		}
		launched[folder] = true

		indices := groups[folder]
		g.Go(func() error {
			// Duplicates share a folder, so they run in table order
			// within one worker: the later unit overwrites the earlier.
			for _, idx := range indices {
				results[idx] = processUnit(ctx, opts, results[idx])
				notify(results[idx])
			}
			return nil
		})
	}

	// Worker funcs never return errors; Wait is used purely as a barrier.
	_ = g.Wait()

	for i := range results {
		if !launched[results[i].Folder] {
			results[i].CopyError = "cancelled"
			results[i].ScaleError = "cancelled"
		}
	}

	return &model.BatchResult{Units: results}, ctx.Err()
}

// processUnit runs the copy and scale steps for one work unit and
// returns its completed result.
func processUnit(ctx context.Context, opts Options, unit model.UnitResult) model.UnitResult {
	s := opts.Settings
	unitDir := filepath.Join(opts.BaseDir, "simulation", unit.Folder)
	scalarPath := filepath.Join(unitDir, s.ScalarName)

	unit.CopyError = ""
	unit.ScaleError = ""

	if opts.Mode == ModeScaleOnly {
		unit.Copy = model.StepSkipped
		if _, err := os.Stat(unitDir); err != nil {
			unit.Scale = model.StepFailed
			unit.ScaleError = fmt.Sprintf("work unit folder not found: %v", err)
			return unit
		}
	} else {
		if err := populateUnit(opts.BaseDir, s, unitDir, scalarPath); err != nil {
			unit.Copy = model.StepFailed
			unit.CopyError = err.Error()
			unit.Scale = model.StepSkipped
			if opts.Mode != ModeCopyOnly {
				unit.ScaleError = "copy failed"
			}
			return unit
		}
		unit.Copy = model.StepOK
	}

	if opts.Mode == ModeCopyOnly {
		unit.Scale = model.StepSkipped
		return unit
	}

	if _, err := os.Stat(scalarPath); err != nil {
		// Matches the conventional runner behavior: a unit without a
		// scalar file is skipped, not failed.
		unit.Scale = model.StepSkipped
		unit.ScaleError = fmt.Sprintf("no %s", s.ScalarName)
		return unit
	}

	if err := opts.Runner.Scale(ctx, unitDir, scalarPath); err != nil {
		unit.Scale = model.StepFailed
		unit.ScaleError = err.Error()
		return unit
	}
	unit.Scale = model.StepOK
	return unit
}

// populateUnit creates the unit's folder structure, copies the baseline
// template in (overwriting unconditionally) and seeds the scalar file
// from the base template when the unit does not have one yet.
func populateUnit(baseDir string, s *config.Settings, unitDir, scalarPath string) error {
	templateDir := filepath.Join(unitDir, s.TemplateSubdir)
	if err := os.MkdirAll(templateDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", templateDir, err)
	}

	src := filepath.Join(baseDir, s.TemplateFile)
	dst := filepath.Join(templateDir, filepath.Base(s.TemplateFile))
	if err := copyFile(src, dst); err != nil {
		return err
	}

	if _, err := os.Stat(scalarPath); err == nil {
		return nil
	}
	scalarSrc := filepath.Join(baseDir, s.ScalarTemplate)
	if _, err := os.Stat(scalarSrc); err != nil {
		// No base scalar template; the scaling step will report the unit
		// as skipped.
		return nil
	}
	return copyFile(scalarSrc, scalarPath)
}

// copyFile copies src to dst, truncating any existing destination.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}
