// Package pipeline sequences the batch-preparation steps: layout
// verification, geometry extraction, scale-table reading and batch
// expansion.
//
// Validation gates everything: a missing required entry stops the run
// before any mutation. Geometry extraction and table reading are
// independent of each other (either may fail without blocking the
// other's attempt), but expansion requires the scale list, so a table
// failure is fatal to expansion while a geometry failure is merely
// recorded (the values are informational).
package pipeline

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/doe-tools/pumpbatch/internal/config"
	"github.com/doe-tools/pumpbatch/internal/expand"
	"github.com/doe-tools/pumpbatch/internal/geometry"
	"github.com/doe-tools/pumpbatch/internal/layout"
	"github.com/doe-tools/pumpbatch/internal/model"
	"github.com/doe-tools/pumpbatch/internal/scaler"
	"github.com/doe-tools/pumpbatch/internal/scaletable"
)

// GeometryFileName is the geometry description file in the base folder.
const GeometryFileName = "geometry.txt"

// Options configures one pipeline run.
type Options struct {
	// BaseDir is the project base folder.
	BaseDir string

	// Settings holds the layout conventions. Nil means config.Default().
	Settings *config.Settings

	// Runner invokes the external scaler; nil selects an ExecRunner
	// built from the settings, with a relative scaler script resolved
	// against the base folder and then the working directory.
	Runner scaler.Runner

	// Mode selects the expansion steps; empty means a full run.
	Mode expand.Mode

	// Observer receives per-unit results during expansion.
	Observer func(model.UnitResult)
}

// Run executes the pipeline and returns the aggregated report.
//
// The report is always non-nil and carries everything that was produced
// before the first fatal condition. The error, when non-nil, is the
// CLIError describing the run's outcome: missing layout entries, a scale
// table failure, an unresolvable scaler script, an interrupted batch, a
// geometry extraction failure, or per-unit failures.
// Geometry extraction failing is reported with the lowest precedence:
// the batch still runs and its outcome dominates the exit status.
func Run(ctx context.Context, opts Options) (*model.Report, error) {
	if opts.Settings == nil {
		opts.Settings = config.Default()
	}

	report := &model.Report{}

	layoutReport, err := layout.Verify(opts.BaseDir)
	if err != nil {
		return report, err
	}
	report.Layout = layoutReport
	if !layoutReport.Valid() {
		return report, model.NewCLIError(model.ExitLayoutError,
			"missing required folders/files: "+layoutReport.MissingNames())
	}

	// Geometry and the scale table are read independently; neither
	// blocks the other's attempt.
	geom, geomErr := geometry.ExtractFile(filepath.Join(layoutReport.BasePath, GeometryFileName))
	if geomErr != nil {
		report.GeometryError = geomErr.Error()
	} else {
		report.Geometry = geom
	}

	tablePath := opts.Settings.TablePath
	if !filepath.IsAbs(tablePath) {
		tablePath = filepath.Join(layoutReport.BasePath, tablePath)
	}
	scales, tableErr := scaletable.Read(tablePath)
	if tableErr != nil {
		report.ScaleTableError = tableErr.Error()
		// No scale list means no expansion; the table error is the
		// run's fatal cause.
		return report, model.WrapCLIError(model.ExitScaleTableError,
			"cannot read scale-factor table", tableErr)
	}
	report.ScaleFactors = scales

	if opts.Runner == nil && opts.Mode != expand.ModeCopyOnly {
		// The scaler command is typically an interpreter plus a relative
		// script name; resolve the script the way the conventional runner
		// does, project base folder first, before any unit launches.
		command, err := scaler.ResolveCommand(opts.Settings.ScalerCommand, layoutReport.BasePath, ".")
		if err != nil {
			return report, model.WrapCLIError(model.ExitGeneralError, "cannot locate scaler script", err)
		}
		opts.Runner = &scaler.ExecRunner{
			Command: command,
			Timeout: opts.Settings.ScalerTimeout,
		}
	}

	batch, err := expand.Run(ctx, expand.Options{
		BaseDir:  layoutReport.BasePath,
		Settings: opts.Settings,
		Runner:   opts.Runner,
		Mode:     opts.Mode,
		Observer: opts.Observer,
	}, scales)
	if batch != nil {
		report.Batch = batch
	}
	if err != nil {
		msg := "batch expansion failed"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			msg = "run cancelled before all units were processed"
		}
		return report, model.WrapCLIError(model.ExitGeneralError, msg, err)
	}

	if !batch.OK() {
		return report, model.NewCLIError(model.ExitUnitFailures, unitFailureMessage(batch))
	}
	if geomErr != nil {
		return report, model.WrapCLIError(model.ExitExtractionError,
			"geometry extraction failed", geomErr)
	}
	return report, nil
}

// unitFailureMessage summarizes the failed units for the fatal error,
// tagging each failure with its originating scale factor.
func unitFailureMessage(batch *model.BatchResult) string {
	msg := "batch completed with failures:"
	for i := range batch.Units {
		u := &batch.Units[i]
		if u.OK() {
			continue
		}
		reason := u.CopyError
		if u.Scale == model.StepFailed {
			reason = u.ScaleError
		}
		msg += " [" + expand.FormatScale(u.ScaleFactor) + ": " + reason + "]"
	}
	return msg
}

// IsFatal reports whether the pipeline error blocked expansion entirely,
// as opposed to a run that completed with recorded failures.
func IsFatal(err error) bool {
	var cliErr *model.CLIError
	if !errors.As(err, &cliErr) {
		return err != nil
	}
	switch cliErr.Code {
	case model.ExitLayoutError, model.ExitScaleTableError, model.ExitGeneralError:
		return true
	default:
		return false
	}
}
