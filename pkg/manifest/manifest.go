package manifest

import "time"

// RunManifest records what a finished summary run produced. It is written as
// the step's completion marker, so its presence means every output file was
// closed cleanly.
type RunManifest struct {
	RunID      string    `yaml:"run_id"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`

	PagesPart  string `yaml:"pages_part"`
	DepthsPart string `yaml:"depths_part"`

	// Pages counts pages by type name.
	Pages map[string]int64 `yaml:"pages"`
	Files []FileSummary    `yaml:"files"`
	Depth DepthSummary     `yaml:"depth"`

	// Unsupported counts pages whose shape has no projection, by shape name.
	Unsupported map[string]int64 `yaml:"unsupported,omitempty"`
}

// FileSummary describes one output file.
type FileSummary struct {
	File      string `yaml:"file"`
	Rows      int64  `yaml:"rows"`
	SizeBytes int64  `yaml:"size_bytes"`
}

// DepthSummary reports how the depth stream joined.
type DepthSummary struct {
	Matched int64 `yaml:"matched"`
	Skipped int64 `yaml:"skipped"`
}

// TotalPages is the number of page rows written.
func (m *RunManifest) TotalPages() int64 {
	var n int64
	for _, c := range m.Pages {
		n += c
	}
	return n
}

// Duration is the wall time of the run.
func (m *RunManifest) Duration() time.Duration {
	return m.FinishedAt.Sub(m.StartedAt)
}
