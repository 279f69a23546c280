// Package config loads the batch planner's JSON configuration and applies
// CLI flag overrides and defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and planning defaults.
type Config struct {
	// Paths
	SourceDir string `json:"source_dir"`
	OutputDir string `json:"output_dir"`
	JobsFile  string `json:"jobs_file"`

	// Planning defaults applied to every job that does not override them.
	MaxWidth    int    `json:"max_width"`
	MaxHeight   int    `json:"max_height"`
	AlignMode   string `json:"align_mode"` // crop, extend or distort; empty disables
	AlignX      int    `json:"align_x"`
	AlignY      int    `json:"align_y"`
	Subsampling string `json:"subsampling"` // 444, 422 or 420

	Workers int `json:"workers"`
}

// Load reads a JSON config file and returns Config. Fields not set in the
// file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	SourceDir string
	OutputDir string
	JobsFile  string
	Workers   int
}

// Resolve fills in any empty fields with defaults. CLI flags take priority
// when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.SourceDir != "" {
		c.SourceDir = flags.SourceDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.JobsFile != "" {
		c.JobsFile = flags.JobsFile
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.SourceDir == "" {
		c.SourceDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.SourceDir, "plans")
	}
	if c.JobsFile == "" {
		c.JobsFile = filepath.Join(c.SourceDir, "jobs.json")
	} else if !filepath.IsAbs(c.JobsFile) {
		if _, err := os.Stat(c.JobsFile); err != nil {
			alt := filepath.Join(c.SourceDir, c.JobsFile)
			if _, err := os.Stat(alt); err == nil {
				c.JobsFile = alt
			}
		}
	}
	if c.Subsampling == "" {
		c.Subsampling = "420"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}
