package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the manifest to path through a temporary file and a rename, so
// a crash never leaves a half-written marker behind.
func Save(path string, m *RunManifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("error marshalling manifest: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*")
	if err != nil {
		return fmt.Errorf("error creating manifest: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error saving manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error saving manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error saving manifest: %w", err)
	}
	return nil
}

// Load reads a manifest written by Save.
func Load(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}
	var m RunManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
