// scales.go implements the "pumpbatch scales" command.
package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/doe-tools/pumpbatch/internal/config"
	"github.com/doe-tools/pumpbatch/internal/expand"
	"github.com/doe-tools/pumpbatch/internal/model"
	"github.com/doe-tools/pumpbatch/internal/scaletable"
)

// NewScalesCommand creates the "scales" cobra command.
func NewScalesCommand() *cobra.Command {
	var tablePath string

	cmd := &cobra.Command{
		Use:   "scales <base-folder>",
		Short: "Read and print the scale-factor table",
		Long: `Read the scale-factor table (header "lK_scale_value" followed by one
numeric value per line, or an .xlsx workbook with the same layout) and print
the ordered list of factors with the work-unit folder each one maps to.`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runScales(args[0], tablePath)
		},
	}

	cmd.Flags().StringVar(&tablePath, "table", "", "Scale-factor table path relative to the base folder; absolute paths are used as-is (default: influgen/input/input.txt)")

	return cmd
}

// resolveTablePath resolves a table path against the base folder, the
// same way the pipeline resolves Settings.TablePath. Absolute paths are
// used as-is.
func resolveTablePath(baseDir, table string) string {
	if filepath.IsAbs(table) {
		return table
	}
	return filepath.Join(baseDir, table)
}

// runScales resolves the table path, reads the list and prints it.
func runScales(baseDir, tablePath string) error {
	settings, err := config.Load(baseDir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "cannot load settings", err)
	}

	if tablePath != "" {
		settings.TablePath = filepath.FromSlash(tablePath)
	}
	path := resolveTablePath(baseDir, settings.TablePath)
	log.Debug("reading scale-factor table", "file", path)

	factors, err := scaletable.Read(path)
	if err != nil {
		return model.WrapCLIError(model.ExitScaleTableError, "cannot read scale-factor table", err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(factors, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(factors) == 0 {
		fmt.Println("Scale table is empty (header only); a run would be a no-op.")
		return nil
	}
	fmt.Printf("%d scale factor(s):\n", len(factors))
	for _, f := range factors {
		fmt.Printf("  %-12s -> %s\n", expand.FormatScale(f),
			expand.FolderName(settings.FolderPrefix, f))
	}
	return nil
}
