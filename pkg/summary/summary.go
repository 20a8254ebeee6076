// Package summary runs the final summary step: it joins sorted page details
// with page depths and writes the page-graph CSV projections.
package summary

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/wiki-page-summary/models"
	"github.com/dtnitsch/wiki-page-summary/pkg/manifest"
	"github.com/dtnitsch/wiki-page-summary/pkg/mergejoin"
	"github.com/dtnitsch/wiki-page-summary/pkg/metrics"
	"github.com/dtnitsch/wiki-page-summary/pkg/projection"
	"github.com/dtnitsch/wiki-page-summary/pkg/recordcsv"
	"github.com/dtnitsch/wiki-page-summary/pkg/records"
	"github.com/dtnitsch/wiki-page-summary/pkg/sink"
	"github.com/dtnitsch/wiki-page-summary/pkg/step"
)

// Step is one final summary run over a pair of stage outputs.
type Step struct {
	cfg     models.SummaryConfig
	out     step.Dir
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a Step. A nil logger discards logs; nil metrics get a private
// registry.
func New(cfg models.SummaryConfig, logger *slog.Logger, m *metrics.Metrics) *Step {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if m == nil {
		m = metrics.New()
	}
	return &Step{
		cfg:     cfg,
		out:     step.Dir{Path: cfg.OutputDir},
		logger:  logger,
		metrics: m,
	}
}

// IsFinished reports whether a previous run completed.
func (s *Step) IsFinished() bool {
	return s.out.IsFinished()
}

// Reset clears any previous output.
func (s *Step) Reset() error {
	if err := s.cfg.CheckOutputDir(); err != nil {
		return err
	}
	return s.out.Reset()
}

// Run performs the step unless it already finished, in which case the
// manifest of the earlier run is returned and nothing is written.
func (s *Step) Run() (*manifest.RunManifest, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if s.IsFinished() {
		s.logger.Info("step already finished, skipping", "output_dir", s.cfg.OutputDir)
		return s.out.Manifest()
	}

	// Both inputs are checked before anything in the output directory is
	// touched.
	pagesPart, err := step.MainResultPath(s.cfg.PagesDir)
	if err != nil {
		return nil, err
	}
	depthsPart, err := step.MainResultPath(s.cfg.DepthsDir)
	if err != nil {
		return nil, err
	}

	if err := s.Reset(); err != nil {
		return nil, err
	}

	m := &manifest.RunManifest{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		PagesPart:   pagesPart,
		DepthsPart:  depthsPart,
		Pages:       map[string]int64{},
		Unsupported: map[string]int64{},
	}
	logger := s.logger.With("run_id", m.RunID)
	logger.Info("starting final summary", "pages_part", pagesPart, "depths_part", depthsPart)

	files, err := s.summarize(logger, m)
	if err != nil {
		logger.Error("final summary failed", "error", err)
		return nil, err
	}

	m.FinishedAt = time.Now().UTC()
	for _, f := range files {
		m.Files = append(m.Files, manifest.FileSummary{File: f.File, Rows: f.Rows, SizeBytes: f.SizeBytes})
	}
	if err := s.out.Finish(m); err != nil {
		return nil, err
	}

	logger.Info("final summary finished",
		"pages", m.TotalPages(),
		"depth_matched", m.Depth.Matched,
		"depth_skipped", m.Depth.Skipped,
		"category_redirects", m.Unsupported["category_redirect"],
		"duration", m.Duration().String(),
	)

	if s.cfg.MetricsFile != "" {
		if err := s.metrics.WriteTextfile(s.cfg.MetricsFile); err != nil {
			logger.Warn("failed to write metrics file", "error", err, "file", s.cfg.MetricsFile)
		}
	}
	return m, nil
}

// summarize runs the merge join with every reader and writer released on
// all exit paths. Output files only count as written once they close cleanly.
func (s *Step) summarize(logger *slog.Logger, m *manifest.RunManifest) ([]sink.FileStats, error) {
	details, err := records.OpenDetails(m.PagesPart)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := details.Close(); cerr != nil {
			logger.Warn("failed to close pages part", "error", cerr)
		}
	}()

	depths, err := records.OpenDepths(m.DepthsPart)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := depths.Close(); cerr != nil {
			logger.Warn("failed to close depths part", "error", cerr)
		}
	}()

	out, err := sink.Open(s.cfg.OutputDir, projection.Channels())
	if err != nil {
		return nil, err
	}
	// no-op once the explicit Close below has run
	defer out.Close()

	w := recordcsv.NewWriter()
	stats, err := mergejoin.Process(details, depths, func(j mergejoin.Joined) error {
		return s.writePage(logger, out, w, m, projection.Classified(j.Detail, j.Depth))
	})
	m.Depth = manifest.DepthSummary{Matched: stats.DepthMatched, Skipped: stats.DepthSkipped}
	s.metrics.DepthRecords.WithLabelValues("matched").Add(float64(stats.DepthMatched))
	s.metrics.DepthRecords.WithLabelValues("skipped").Add(float64(stats.DepthSkipped))
	if err != nil {
		return nil, err
	}

	if err := out.Close(); err != nil {
		return nil, err
	}
	return out.Stats(), nil
}

func (s *Step) writePage(logger *slog.Logger, out *sink.Sink, w *recordcsv.Writer, m *manifest.RunManifest, p projection.Page) error {
	set := projection.Build(p)

	// Encode everything first so a page that fails to encode leaves no rows.
	encoded := make([][]byte, len(set.Rows))
	for i, o := range set.Rows {
		row, err := o.Row.Encode(w)
		if err != nil {
			return fmt.Errorf("page %d, %s: %w", o.Row.PageID(), o.Channel.FileName(), err)
		}
		encoded[i] = row
	}
	for i, o := range set.Rows {
		if err := out.Write(o.Channel, encoded[i]); err != nil {
			return err
		}
		s.metrics.Rows.WithLabelValues(o.Channel.FileName()).Inc()
	}

	typ := p.Type().String()
	m.Pages[typ]++
	s.metrics.Pages.WithLabelValues(typ).Inc()

	if set.Unsupported {
		shape := p.Shape.String()
		m.Unsupported[shape]++
		s.metrics.UnsupportedShapes.WithLabelValues(shape).Inc()
		logger.Debug("unsupported page shape, wrote page row only", "page_id", p.Detail.ID, "shape", shape)
	}
	return nil
}
