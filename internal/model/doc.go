// Package model defines the domain types for the pumpbatch CLI.
//
// The types here represent the data that flows between the pipeline
// components: the layout verification report, the extracted geometry
// parameter set, per-work-unit outcomes and the aggregated batch result.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
