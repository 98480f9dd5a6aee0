// report.go renders the pipeline report for the caller: human-readable
// text, machine-readable JSON, and an optional YAML file export.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doe-tools/pumpbatch/internal/expand"
	"github.com/doe-tools/pumpbatch/internal/model"
)

// printReport outputs the full pipeline report in text or JSON format.
func printReport(report *model.Report) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}
	printReportText(report)
}

// printReportText renders the report sections that were produced, in
// pipeline order.
func printReportText(report *model.Report) {
	// A nil layout means verification itself failed hard; the error is
	// printed by the Execute handler and there is nothing to summarize.
	if report.Layout == nil {
		return
	}
	if !report.Layout.Valid() {
		printLayoutReport(report.Layout)
		return
	}

	if report.GeometryError != "" {
		fmt.Printf("Geometry: FAILED: %s\n", report.GeometryError)
	} else if report.Geometry != nil {
		fmt.Println("Geometry:")
		printGeometry(report.Geometry)
	}

	if report.ScaleTableError != "" {
		fmt.Printf("Scale table: FAILED: %s\n", report.ScaleTableError)
		return
	}
	fmt.Printf("Scale factors: %s\n", formatScales(report.ScaleFactors))

	if report.Batch == nil {
		return
	}
	printBatchSummary(report.Batch)
}

// formatScales renders the scale list compactly for the text report.
func formatScales(scales []float64) string {
	if len(scales) == 0 {
		return "(none, batch is a no-op)"
	}
	out := ""
	for i, s := range scales {
		if i > 0 {
			out += ", "
		}
		out += expand.FormatScale(s)
	}
	return out
}

// printBatchSummary renders the per-unit outcomes and the final counts.
func printBatchSummary(batch *model.BatchResult) {
	fmt.Println("Work units:")
	for _, u := range batch.Units {
		line := fmt.Sprintf("  %-28s copy=%-7s scale=%-7s", u.Folder, u.Copy, u.Scale)
		if u.CopyError != "" {
			line += "  copy: " + u.CopyError
		}
		if u.ScaleError != "" {
			line += "  scale: " + u.ScaleError
		}
		if u.DuplicateOf >= 0 {
			line += fmt.Sprintf("  (duplicate of unit %d, same folder)", u.DuplicateOf+1)
		}
		fmt.Println(line)
	}

	fmt.Printf("Summary: %d unit(s), %d succeeded, %d failed\n",
		len(batch.Units), batch.Succeeded(), batch.Failed())
}

// writeReportYAML exports the full report to a YAML file.
func writeReportYAML(path string, report *model.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
