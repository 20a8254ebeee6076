package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "_finished.yaml")
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m := &RunManifest{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Pages:      map[string]int64{"article": 3, "redirect": 1},
		Files:      []FileSummary{{File: "page.csv", Rows: 4, SizeBytes: 40}},
		Depth:      DepthSummary{Matched: 3, Skipped: 2},
	}
	require.NoError(t, Save(path, m))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.True(t, m.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, m.Files, got.Files)
	assert.Equal(t, int64(4), got.TotalPages())
	assert.Equal(t, 90*time.Second, got.Duration())

	// only the marker remains, no temporary files
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "_finished.yaml", entries[0].Name())
}

func TestSave_MissingDirectory(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "missing", "_finished.yaml"), &RunManifest{})
	assert.Error(t, err)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "_finished.yaml")
	require.NoError(t, os.WriteFile(path, []byte("files: {"), 0600))
	_, err := Load(path)
	assert.Error(t, err)
}
