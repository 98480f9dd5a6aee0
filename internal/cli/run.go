// run.go implements the "pumpbatch run" command, the primary operation.
//
// Orchestration steps:
//  1. Resolve settings (defaults, pumpbatch.jsonc, environment, flags)
//  2. Verify the project folder structure
//  3. Extract geometry parameters and read the scale-factor table
//  4. Expand the batch: one populated work unit per scale factor,
//     invoking the external mesh scaler for each
//  5. Output the aggregated report (text or JSON, optional YAML export)
package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doe-tools/pumpbatch/internal/config"
	"github.com/doe-tools/pumpbatch/internal/expand"
	"github.com/doe-tools/pumpbatch/internal/model"
	"github.com/doe-tools/pumpbatch/internal/pipeline"
)

// runFlags holds the flag values for the run command.
type runFlags struct {
	copyOnly  bool          // --copy-only: populate folders, skip scaling
	scaleOnly bool          // --scale-only: scale already-populated folders
	table     string        // --table: scale-factor table override
	scaler    string        // --scaler: external scaler argv override
	workers   int           // --workers: worker-pool cap override
	timeout   time.Duration // --timeout: per-unit scaler timeout override
	report    string        // --report: YAML report export path
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <base-folder>",
		Short: "Run the full batch-preparation pipeline",
		Long: `Run the full pipeline against a project base folder: verify the layout,
extract the geometry parameters, read the scale-factor table and generate
one work-unit folder per scale factor, copying the baseline template in and
invoking the external mesh scaler.

Re-running converges to the same end state: existing folders are reused and
template copies are overwritten, never duplicated.

Examples:
  pumpbatch run /data/pump-A
  pumpbatch run --copy-only /data/pump-A
  pumpbatch run --scale-only --workers 4 /data/pump-A
  pumpbatch run --table doe/table.xlsx --report report.yaml /data/pump-A`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.copyOnly, "copy-only", false, "Populate work-unit folders but skip the scaling step")
	cmd.Flags().BoolVar(&flags.scaleOnly, "scale-only", false, "Run the scaling step against already-populated folders")
	cmd.Flags().StringVar(&flags.table, "table", "", "Scale-factor table path relative to the base folder, absolute paths used as-is (.txt or .xlsx)")
	cmd.Flags().StringVar(&flags.scaler, "scaler", "", "External scaler command (e.g. \"python3 Z_MeshScaler.py\")")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Maximum concurrent work units (default: CPU count)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Per-unit scaler timeout (default: 5m)")
	cmd.Flags().StringVar(&flags.report, "report", "", "Write the full report to this path as YAML")
	cmd.MarkFlagsMutuallyExclusive("copy-only", "scale-only")

	return cmd
}

// runRun resolves the settings and mode, executes the pipeline and
// renders the report.
func runRun(cmd *cobra.Command, baseDir string, flags *runFlags) error {
	settings, err := config.Load(baseDir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "cannot load settings", err)
	}
	applyRunFlags(settings, flags)

	mode := expand.ModeFull
	switch {
	case flags.copyOnly:
		mode = expand.ModeCopyOnly
	case flags.scaleOnly:
		mode = expand.ModeScaleOnly
	}

	log.Debug("starting pipeline",
		"base", baseDir,
		"mode", string(mode),
		"table", settings.TablePath,
		"workers", settings.Workers,
		"scaler", strings.Join(settings.ScalerCommand, " "))

	total := 0
	observer := func(u model.UnitResult) {
		total++
		if u.OK() {
			log.Info("work unit finished",
				"folder", u.Folder, "copy", u.Copy.String(), "scale", u.Scale.String())
		} else {
			log.Warn("work unit failed",
				"folder", u.Folder, "copy", u.Copy.String(), "copyError", u.CopyError,
				"scale", u.Scale.String(), "scaleError", u.ScaleError)
		}
		if !IsJSONOutput() {
			fmt.Printf("  [%d] %s  copy=%s scale=%s\n", total, u.Folder, u.Copy, u.Scale)
		}
	}

	report, runErr := pipeline.Run(cmd.Context(), pipeline.Options{
		BaseDir:  baseDir,
		Settings: settings,
		Mode:     mode,
		Observer: observer,
	})

	printReport(report)

	if flags.report != "" {
		if err := writeReportYAML(flags.report, report); err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "cannot write report file", err)
		}
		log.Debug("report written", "path", flags.report)
	}

	return runErr
}

// applyRunFlags overlays the command-line overrides onto the resolved
// settings. Flags win over the config file and the environment.
func applyRunFlags(settings *config.Settings, flags *runFlags) {
	if flags.table != "" {
		settings.TablePath = filepath.FromSlash(flags.table)
	}
	if flags.scaler != "" {
		settings.ScalerCommand = strings.Fields(flags.scaler)
	}
	if flags.workers > 0 {
		settings.Workers = flags.workers
	}
	if flags.timeout > 0 {
		settings.ScalerTimeout = flags.timeout
	}
}
