// Package models defines the page records, page types and runtime configuration.
package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SummaryConfig holds runtime configuration for the final summary step.
// Values come from an optional YAML file and are overridden by CLI flags.
type SummaryConfig struct {
	// PagesDir is the output directory of the page sorting stage.
	PagesDir string `yaml:"pages_dir"`
	// DepthsDir is the output directory of the page depth stage.
	DepthsDir string `yaml:"depths_dir"`
	// OutputDir receives the CSV projections and the completion marker.
	OutputDir string `yaml:"output_dir"`

	MetricsFile string `yaml:"metrics_file,omitempty"`
	DBPath      string `yaml:"db_path,omitempty"`
}

// LoadConfig reads a SummaryConfig from a YAML file.
func LoadConfig(path string) (*SummaryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg SummaryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that the directories needed for a run are set.
func (c *SummaryConfig) Validate() error {
	if c.PagesDir == "" {
		return fmt.Errorf("pages directory is required")
	}
	if c.DepthsDir == "" {
		return fmt.Errorf("depths directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return c.CheckOutputDir()
}

// CheckOutputDir rejects an output directory that is, contains, or lies
// inside a configured input directory. The output directory is wiped before
// every run.
func (c *SummaryConfig) CheckOutputDir() error {
	for _, in := range []struct{ name, dir string }{
		{"pages", c.PagesDir},
		{"depths", c.DepthsDir},
	} {
		if in.dir == "" || c.OutputDir == "" {
			continue
		}
		overlap, err := nested(c.OutputDir, in.dir)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("output directory %s overlaps the %s directory %s", c.OutputDir, in.name, in.dir)
		}
	}
	return nil
}

// nested reports whether a and b are the same directory or one contains the
// other.
func nested(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", b, err)
	}
	return within(absA, absB) || within(absB, absA), nil
}

// within reports whether child is parent or lies below it.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
