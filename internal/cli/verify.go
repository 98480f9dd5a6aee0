// verify.go implements the "pumpbatch verify" command.
//
// Verify is a read-only inspection of the project layout: it reports
// every conventional entry as present or missing and exits non-zero when
// a required entry is absent. Nothing is created or modified.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doe-tools/pumpbatch/internal/layout"
	"github.com/doe-tools/pumpbatch/internal/model"
)

// NewVerifyCommand creates the "verify" cobra command.
func NewVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <base-folder>",
		Short: "Verify the project folder structure",
		Long: `Verify that the project base folder contains the required layout:
the INP, simulation, influgen and Zscalar directories, geometry.txt and
INP/piston_pr.inp. All missing entries are reported at once.`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0])
		},
	}
}

// runVerify performs the layout check and prints the itemized report.
func runVerify(baseDir string) error {
	report, err := layout.Verify(baseDir)
	if err != nil {
		return err
	}

	printLayoutReport(report)

	if !report.Valid() {
		return model.NewCLIError(model.ExitLayoutError,
			"missing required folders/files: "+report.MissingNames())
	}
	return nil
}

// printLayoutReport outputs the layout report in text or JSON format.
func printLayoutReport(report *model.LayoutReport) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Project layout: %s\n", report.BasePath)
	for _, e := range report.Entries {
		mark := "ok     "
		switch {
		case !e.Present && e.Required:
			mark = "MISSING"
		case !e.Present:
			mark = "absent "
		}
		kind := "file"
		if e.Dir {
			kind = "dir "
		}
		fmt.Printf("  [%s] %s %s\n", mark, kind, e.Name)
	}

	if report.Valid() {
		fmt.Println("All required folders and files are present.")
	}
}
