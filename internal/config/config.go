// Package config holds the project conventions the pipeline operates on:
// folder names, template locations, the scale-table path and the external
// scaler invocation.
//
// Settings are resolved in layers, later layers overriding earlier ones:
//
//  1. Built-in defaults matching the fixed project layout convention.
//  2. An optional pumpbatch.jsonc file in the project base folder.
//     JSONC (JSON with Comments) is supported via github.com/tidwall/jsonc.
//  3. An optional .env file in the base folder plus PUMPBATCH_* process
//     environment variables.
//
// Command-line flags are applied on top by the CLI layer.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
)

// ConfigFileName is the optional per-project configuration file looked up
// in the base folder.
const ConfigFileName = "pumpbatch.jsonc"

// DefaultScalerTimeout bounds one external mesh-scaler invocation.
const DefaultScalerTimeout = 5 * time.Minute

// Settings describes the project conventions for one pipeline run.
// All relative paths are resolved against the project base folder.
type Settings struct {
	// FolderPrefix is the work-unit folder name prefix under simulation/.
	FolderPrefix string `json:"folderPrefix"`

	// TemplateSubdir is the sub-folder inside each work unit that receives
	// the copied template file.
	TemplateSubdir string `json:"templateSubdir"`

	// TemplateFile is the baseline template file, relative to the base folder.
	TemplateFile string `json:"templateFile"`

	// ScalarTemplate is the base scalar file seeded into work units that
	// do not yet have one, relative to the base folder.
	ScalarTemplate string `json:"scalarTemplate"`

	// ScalarName is the per-unit scalar file name consumed by the scaler.
	ScalarName string `json:"scalarName"`

	// TablePath is the scale-factor table, relative to the base folder.
	// A .xlsx extension selects the workbook reader, anything else the
	// text reader.
	TablePath string `json:"tablePath"`

	// ScalerCommand is the argv of the external mesh-scaling tool. The
	// unit's scalar file path is appended as the final argument.
	ScalerCommand []string `json:"scalerCommand"`

	// ScalerTimeout bounds a single scaler invocation.
	ScalerTimeout time.Duration `json:"-"`

	// Workers caps concurrent work-unit processing. Zero means the
	// number of CPUs.
	Workers int `json:"workers"`
}

// envOverrides mirrors the Settings fields that can be set through the
// process environment or a .env file in the base folder.
type envOverrides struct {
	Scaler  string        `env:"PUMPBATCH_SCALER"`
	Timeout time.Duration `env:"PUMPBATCH_SCALER_TIMEOUT"`
	Table   string        `env:"PUMPBATCH_TABLE"`
	Workers int           `env:"PUMPBATCH_WORKERS"`
}

// fileSettings mirrors Settings for JSON decoding, with the timeout as a
// string so the config file can say "2m30s".
type fileSettings struct {
	FolderPrefix   string   `json:"folderPrefix"`
	TemplateSubdir string   `json:"templateSubdir"`
	TemplateFile   string   `json:"templateFile"`
	ScalarTemplate string   `json:"scalarTemplate"`
	ScalarName     string   `json:"scalarName"`
	TablePath      string   `json:"tablePath"`
	ScalerCommand  []string `json:"scalerCommand"`
	ScalerTimeout  string   `json:"scalerTimeout"`
	Workers        int      `json:"workers"`
}

// Default returns the built-in conventions: the fixed sub-path layout of
// a pump project and the conventional Z_MeshScaler invocation.
func Default() *Settings {
	return &Settings{
		FolderPrefix:   "IM_scaled_piston_",
		TemplateSubdir: "IM_piston",
		TemplateFile:   filepath.Join("INP", "piston_pr.inp"),
		ScalarTemplate: filepath.Join("Zscalar", "scalar.txt"),
		ScalarName:     "scalar.txt",
		TablePath:      filepath.Join("influgen", "input", "input.txt"),
		ScalerCommand:  []string{"python3", "Z_MeshScaler.py"},
		ScalerTimeout:  DefaultScalerTimeout,
		Workers:        runtime.NumCPU(),
	}
}

// Load resolves the settings for the given base folder: defaults, then
// pumpbatch.jsonc, then .env / PUMPBATCH_* environment variables.
func Load(baseDir string) (*Settings, error) {
	s := Default()

	if err := applyConfigFile(s, filepath.Join(baseDir, ConfigFileName)); err != nil {
		return nil, err
	}
	if err := applyEnv(s, filepath.Join(baseDir, ".env")); err != nil {
		return nil, err
	}
	return s, nil
}

// applyConfigFile overlays values from a pumpbatch.jsonc file onto s.
// A missing file is not an error; a malformed one is.
func applyConfigFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	var fs fileSettings
	// Strip JSONC comments before handing the bytes to encoding/json.
	if err := json.Unmarshal(jsonc.ToJSON(data), &fs); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}

	if fs.FolderPrefix != "" {
		s.FolderPrefix = fs.FolderPrefix
	}
	if fs.TemplateSubdir != "" {
		s.TemplateSubdir = fs.TemplateSubdir
	}
	if fs.TemplateFile != "" {
		s.TemplateFile = filepath.FromSlash(fs.TemplateFile)
	}
	if fs.ScalarTemplate != "" {
		s.ScalarTemplate = filepath.FromSlash(fs.ScalarTemplate)
	}
	if fs.ScalarName != "" {
		s.ScalarName = fs.ScalarName
	}
	if fs.TablePath != "" {
		s.TablePath = filepath.FromSlash(fs.TablePath)
	}
	if len(fs.ScalerCommand) > 0 {
		s.ScalerCommand = fs.ScalerCommand
	}
	if fs.ScalerTimeout != "" {
		d, err := time.ParseDuration(fs.ScalerTimeout)
		if err != nil {
			return fmt.Errorf("parse config file %q: invalid scalerTimeout %q: %w", path, fs.ScalerTimeout, err)
		}
		s.ScalerTimeout = d
	}
	if fs.Workers > 0 {
		s.Workers = fs.Workers
	}
	return nil
}

// applyEnv overlays PUMPBATCH_* variables onto s. Variables from an
// optional .env file in the base folder are merged first, with the real
// process environment taking precedence over the file.
func applyEnv(s *Settings, dotenvPath string) error {
	merged := make(map[string]string)

	if fileVars, err := godotenv.Read(dotenvPath); err == nil {
		for k, v := range fileVars {
			merged[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			merged[k] = v
		}
	}

	var ov envOverrides
	if err := env.ParseWithOptions(&ov, env.Options{Environment: merged}); err != nil {
		return fmt.Errorf("parse PUMPBATCH_* environment: %w", err)
	}

	if ov.Scaler != "" {
		s.ScalerCommand = strings.Fields(ov.Scaler)
	}
	if ov.Timeout > 0 {
		s.ScalerTimeout = ov.Timeout
	}
	if ov.Table != "" {
		s.TablePath = filepath.FromSlash(ov.Table)
	}
	if ov.Workers > 0 {
		s.Workers = ov.Workers
	}
	return nil
}
