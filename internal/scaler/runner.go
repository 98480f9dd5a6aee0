package scaler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner invokes the mesh-scaling step for one work unit.
//
// unitDir is the work unit's folder and becomes the tool's working
// directory; scalarFile is the absolute path of the unit's scalar file,
// passed to the tool as its argument. The tool's stdout is opaque to the
// pipeline; only the exit status matters.
type Runner interface {
	Scale(ctx context.Context, unitDir, scalarFile string) error
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, unitDir, scalarFile string) error

// Scale calls the wrapped function.
func (f RunnerFunc) Scale(ctx context.Context, unitDir, scalarFile string) error {
	return f(ctx, unitDir, scalarFile)
}

// ExecRunner runs the external mesh-scaling tool as a subprocess.
type ExecRunner struct {
	// Command is the tool's argv; the scalar file path is appended as the
	// final argument.
	Command []string

	// Timeout bounds a single invocation. Zero means no timeout.
	Timeout time.Duration
}

// Scale runs the configured command with cwd set to unitDir, capturing
// stderr for the error message. Stdout is discarded: the tool's output
// semantics belong to the tool, the pipeline consumes only the exit
// status.
func (r *ExecRunner) Scale(ctx context.Context, unitDir, scalarFile string) error {
	if len(r.Command) == 0 {
		return errors.New("scaler command is not configured")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.Command[1:]...), scalarFile)

	// #nosec G204 -- the command comes from configuration, not user-typed input
	cmd := exec.CommandContext(ctx, r.Command[0], args...)
	cmd.Dir = unitDir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	name := filepath.Base(r.Command[0])
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s timed out after %s", name, r.Timeout)
	}

	stderrStr := strings.TrimSpace(stderr.String())
	if stderrStr != "" {
		return fmt.Errorf("%s failed: %w: %s", name, err, stderrStr)
	}
	return fmt.Errorf("%s failed: %w", name, err)
}

// ResolveCommand returns a copy of the scaler argv with its script
// argument located via ResolveScript. The script is the first element
// after the interpreter that is not a flag, so "python3 -u Z_MeshScaler.py"
// resolves Z_MeshScaler.py. A single-element command is returned
// unchanged; looking it up is the PATH search of os/exec.
//
// Resolution must happen before the tool runs: ExecRunner sets the work
// unit's folder as the working directory, where a relative script path
// would never exist.
func ResolveCommand(command []string, searchDirs ...string) ([]string, error) {
	for i := 1; i < len(command); i++ {
		if strings.HasPrefix(command[i], "-") {
			continue
		}
		resolved, err := ResolveScript(command[i], searchDirs...)
		if err != nil {
			return nil, err
		}
		out := append([]string(nil), command...)
		out[i] = resolved
		return out, nil
	}
	return command, nil
}

// ResolveScript locates a scaler script by probing the given directories
// in order and returning the first existing path. An absolute path is
// returned as-is when it exists. This mirrors the conventional search
// order: the project base folder, then the current working directory.
func ResolveScript(script string, searchDirs ...string) (string, error) {
	if filepath.IsAbs(script) {
		if _, err := os.Stat(script); err != nil {
			return "", fmt.Errorf("scaler script %q not found: %w", script, err)
		}
		return script, nil
	}

	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, script)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("scaler script %q not found in %s", script, strings.Join(searchDirs, ", "))
}
