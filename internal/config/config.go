package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"fbx-scene-import/internal/importer"
	"fbx-scene-import/internal/scene"
	"fbx-scene-import/internal/units"
)

// Config holds all configurable paths, import and preview settings.
type Config struct {
	// Paths
	InputDir       string `json:"input_dir"`
	OutputDir      string `json:"output_dir"`
	TextureDir     string `json:"texture_dir"`
	DefaultTexture string `json:"default_texture"`

	// Import settings
	TargetUnit     string `json:"target_unit"`
	MaxUVs         int    `json:"max_uvs"`
	SecondaryFrom  string `json:"secondary_uv_from"`
	SecondaryTo    string `json:"secondary_uv_to"`
	PreserveSource bool   `json:"preserve_source"`
	LogTransforms  bool   `json:"log_transforms"`
	Verbose        bool   `json:"verbose"`

	// Preview settings
	Preview     bool    `json:"preview"`
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	FillRatio   float64 `json:"fill_ratio"`
	Pitch       float64 `json:"pitch"`
	Yaw         float64 `json:"yaw"`
	Workers     int     `json:"workers"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{Preview: true}
}

// Load reads a JSON config file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir   string
	OutputDir  string
	TextureDir string
	TargetUnit string
	Workers    int
	Verbose    bool
	NoPreview  bool
}

// Resolve fills in empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.TargetUnit != "" {
		c.TargetUnit = flags.TargetUnit
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Verbose {
		c.Verbose = true
	}
	if flags.NoPreview {
		c.Preview = false
	}

	if c.InputDir == "" {
		c.InputDir = "."
	}
	// Relative paths resolve against the input dir
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "imported")
	} else if !filepath.IsAbs(c.OutputDir) && flags.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}
	if c.TextureDir == "" {
		c.TextureDir = c.InputDir
	} else if !filepath.IsAbs(c.TextureDir) && flags.TextureDir == "" {
		c.TextureDir = filepath.Join(c.InputDir, c.TextureDir)
	}

	if c.TargetUnit == "" {
		c.TargetUnit = "m"
	}
	if c.MaxUVs <= 0 {
		c.MaxUVs = 4
	}
	if c.SecondaryFrom == "" {
		c.SecondaryFrom = scene.TextureEmissive.String()
	}
	if c.SecondaryTo == "" {
		c.SecondaryTo = scene.TypeCount.String()
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.9
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// ImportOptions translates the import settings. Call after Resolve.
func (c *Config) ImportOptions() (importer.Options, error) {
	opt := importer.DefaultOptions()

	unit, err := scene.ParseSystemUnit(c.TargetUnit)
	if err != nil {
		return opt, fmt.Errorf("config: target_unit: %w", err)
	}
	opt.Target = units.Target{Unit: unit, Axis: units.EngineTarget.Axis}

	from, err := scene.ParseElementType(c.SecondaryFrom)
	if err != nil {
		return opt, fmt.Errorf("config: secondary_uv_from: %w", err)
	}
	to, err := scene.ParseElementType(c.SecondaryTo)
	if err != nil {
		return opt, fmt.Errorf("config: secondary_uv_to: %w", err)
	}
	if from >= to {
		return opt, fmt.Errorf("config: secondary uv range %s..%s is empty", from, to)
	}

	opt.Walk.Mesh.MaxUVs = c.MaxUVs
	opt.Walk.Mesh.SecondaryFrom = from
	opt.Walk.Mesh.SecondaryTo = to
	opt.Walk.Transform.LogResolved = c.LogTransforms
	opt.PreserveSource = c.PreserveSource
	return opt, nil
}
