// extract.go implements the "pumpbatch extract" command.
package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/doe-tools/pumpbatch/internal/geometry"
	"github.com/doe-tools/pumpbatch/internal/model"
	"github.com/doe-tools/pumpbatch/internal/pipeline"
)

// NewExtractCommand creates the "extract" cobra command.
func NewExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <base-folder>",
		Short: "Extract the geometry parameters from geometry.txt",
		Long: `Extract the four geometry parameters (lK, lZ0, lKG, lSK) from the
project's geometry.txt. Parameters may appear in any order and their lines
may carry units, extra columns or comments. A failure names the keys that
were not found.`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(args[0])
		},
	}
}

// runExtract reads geometry.txt from the base folder and prints the
// extracted values.
func runExtract(baseDir string) error {
	path := filepath.Join(baseDir, pipeline.GeometryFileName)
	log.Debug("extracting geometry parameters", "file", path)

	values, err := geometry.ExtractFile(path)
	if err != nil {
		return model.WrapCLIError(model.ExitExtractionError, "geometry extraction failed", err)
	}

	printGeometry(values)
	return nil
}

// printGeometry outputs the parameter values in text or JSON format.
func printGeometry(values model.GeometrySet) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(values.Ordered(), "", "  ")
		fmt.Println(string(data))
		return
	}

	for _, v := range values.Ordered() {
		fmt.Printf("  %-6s = %12.6f mm\n", v.Key, v.Value)
	}
}
