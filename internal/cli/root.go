// Package cli implements the cobra-based CLI commands for pumpbatch.
//
// Each subcommand (verify, extract, scales, run) is defined in its own
// file within this package. This file defines the root command that
// serves as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/doe-tools/pumpbatch/internal/logging"
	"github.com/doe-tools/pumpbatch/internal/model"
)

// Global flag variables shared across all subcommands. These are bound
// to cobra persistent flags on the root command, which makes them
// available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON
	// for machine consumption instead of human-readable text.
	jsonOutput bool

	// verbose switches logging to the debug level.
	verbose bool

	// logLevel selects the logging level by name (debug, info, warn,
	// error). The --verbose flag overrides it to debug.
	logLevel string
)

// log is the structured logger shared by all subcommands. It is
// initialized by the root command's PersistentPreRun once the logging
// flags are known.
var log = logging.NewLogger(os.Stderr, logging.LevelInfo)

// Version, Commit and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action; it only provides
// help text and global flags. Actual functionality is provided by
// subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pumpbatch",
		Short: "Batch input-set preparation for hydraulic-pump simulations",
		Long: `pumpbatch prepares batches of simulation input sets for a hydraulic-pump
numerical-simulation workflow.

Given a project base folder with the conventional layout (INP, simulation,
influgen, Zscalar, geometry.txt), it verifies the folder structure, extracts
the geometry parameters, reads the scale-factor table and generates one
populated work-unit folder per scale factor, invoking the external mesh
scaler for each.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.ParseLevel(logLevel)
			if verbose {
				level = logging.LevelDebug
			}
			log = logging.NewLogger(os.Stderr, level)
		},
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Register subcommands. Each subcommand is defined in its own file
	// and returns a *cobra.Command.
	rootCmd.AddCommand(NewVerifyCommand())
	rootCmd.AddCommand(NewExtractCommand())
	rootCmd.AddCommand(NewScalesCommand())
	rootCmd.AddCommand(NewRunCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them into
// appropriate OS exit codes. CLIError types carry their own exit codes;
// other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// Logger returns the structured logger configured by the root command.
func Logger() *slog.Logger {
	return log
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
