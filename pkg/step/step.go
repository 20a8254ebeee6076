// Package step handles the on-disk bookkeeping of an extraction step: finding
// the single result file of an earlier stage, and marking a step finished so
// re-runs are skipped.
package step

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dtnitsch/wiki-page-summary/pkg/manifest"
)

// ErrInputContract is returned when an earlier stage did not leave exactly
// one result partition.
var ErrInputContract = errors.New("input contract violation")

// MarkerName is the completion marker written by Finish.
const MarkerName = "_finished.yaml"

// PartPrefix marks the result partitions of a stage.
const PartPrefix = "part-"

// MainResultPath returns the only part file in dir. Zero or several part
// files mean the stage ran with the wrong number of reducers.
func MainResultPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: could not locate main result file in %s", ErrInputContract, dir)
		}
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var parts []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), PartPrefix) {
			parts = append(parts, e.Name())
		}
	}

	switch len(parts) {
	case 0:
		return "", fmt.Errorf("%w: could not locate main result file in %s", ErrInputContract, dir)
	case 1:
		return filepath.Join(dir, parts[0]), nil
	default:
		sort.Strings(parts)
		return "", fmt.Errorf("%w: too many result files (so too many reducers) in %s: %s",
			ErrInputContract, dir, strings.Join(parts, ", "))
	}
}

// Dir is the output directory of a step.
type Dir struct {
	Path string
}

// MarkerPath is where the completion marker lives.
func (d Dir) MarkerPath() string {
	return filepath.Join(d.Path, MarkerName)
}

// IsFinished reports whether a previous run completed.
func (d Dir) IsFinished() bool {
	_, err := os.Stat(d.MarkerPath())
	return err == nil
}

// Reset removes any prior output, finished or partial, and leaves an empty
// directory.
func (d Dir) Reset() error {
	if err := os.RemoveAll(d.Path); err != nil {
		return fmt.Errorf("failed to clear %s: %w", d.Path, err)
	}
	if err := os.MkdirAll(d.Path, 0750); err != nil {
		return fmt.Errorf("failed to create %s: %w", d.Path, err)
	}
	return nil
}

// Finish writes the completion marker. Call it only after every output file
// has been closed without error.
func (d Dir) Finish(m *manifest.RunManifest) error {
	return manifest.Save(d.MarkerPath(), m)
}

// Manifest reads the marker of a finished run.
func (d Dir) Manifest() (*manifest.RunManifest, error) {
	return manifest.Load(d.MarkerPath())
}
