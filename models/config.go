// Package models defines configuration and mode types shared across commands.
package models

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// slugPattern restricts slugs to filesystem- and URL-safe characters.
var slugPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// RunConfig holds runtime configuration for one externalization run.
// Values come from CLI flags, optionally seeded by a yaml defaults file.
type RunConfig struct {
	Input       string
	OutDir      string
	Slug        string
	Mode        Mode
	ThresholdMB float64
	ChunkMB     float64
}

// Validate rejects bad configuration before any I/O side effect.
func (c *RunConfig) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input file is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if !slugPattern.MatchString(c.Slug) {
		return fmt.Errorf("invalid slug %q: use only letters, numbers, dot, underscore, hyphen", c.Slug)
	}
	if c.ThresholdMB <= 0 {
		return fmt.Errorf("threshold must be greater than zero, got %.2f MB", c.ThresholdMB)
	}
	if c.ChunkMB <= 0 {
		return fmt.Errorf("chunk size must be greater than zero, got %.2f MB", c.ChunkMB)
	}
	return nil
}

// ThresholdBytes returns the single-file threshold in bytes.
func (c *RunConfig) ThresholdBytes() int64 {
	return int64(c.ThresholdMB * 1024 * 1024)
}

// ChunkBytes returns the chunk target in bytes.
func (c *RunConfig) ChunkBytes() int {
	return int(c.ChunkMB * 1024 * 1024)
}

// Defaults mirrors the optional viewerkit.yaml file. Any zero field falls
// back to the built-in default; CLI flags override both.
type Defaults struct {
	OutDir      string  `yaml:"outdir,omitempty"`
	ThresholdMB float64 `yaml:"threshold_mb,omitempty"`
	ChunkMB     float64 `yaml:"chunk_mb,omitempty"`
	ViewerHost  string  `yaml:"viewer_host,omitempty"`
	Prefix      string  `yaml:"prefix,omitempty"`
}

// LoadDefaults reads a yaml defaults file. A missing file is not an error;
// callers get zero defaults and flag values win.
func LoadDefaults(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Defaults{}, nil
		}
		return nil, fmt.Errorf("failed to read defaults file %s: %w", path, err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}
	return &d, nil
}
