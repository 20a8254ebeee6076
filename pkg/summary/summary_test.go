package summary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/wiki-page-summary/models"
	"github.com/dtnitsch/wiki-page-summary/pkg/mergejoin"
	"github.com/dtnitsch/wiki-page-summary/pkg/metrics"
	"github.com/dtnitsch/wiki-page-summary/pkg/recordcsv"
	"github.com/dtnitsch/wiki-page-summary/pkg/records"
	"github.com/dtnitsch/wiki-page-summary/pkg/step"
)

type fixture struct {
	cfg models.SummaryConfig
}

func newFixture(t *testing.T, details []models.DetailRecord, depths []models.DepthRecord) fixture {
	t.Helper()
	root := t.TempDir()
	cfg := models.SummaryConfig{
		PagesDir:  filepath.Join(root, "pageSorting"),
		DepthsDir: filepath.Join(root, "pageDepth"),
		OutputDir: filepath.Join(root, "finalSummary"),
	}
	_, err := records.WriteDetailPart(cfg.PagesDir, details)
	require.NoError(t, err)
	_, err = records.WriteDepthPart(cfg.DepthsDir, depths)
	require.NoError(t, err)
	return fixture{cfg: cfg}
}

func (f fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.cfg.OutputDir, name))
	require.NoError(t, err)
	return string(data)
}

func intp(v int) *int { return &v }

func scenario(t *testing.T) fixture {
	return newFixture(t,
		[]models.DetailRecord{
			{ID: 1, Namespace: models.MainKey, Title: "A", ParentCategories: []models.PageRef{{ID: 10}}},
			{ID: 2, Namespace: models.MainKey, Title: "B", RedirectsTo: &models.PageRef{ID: 1, Title: "A"}},
		},
		[]models.DepthRecord{{ID: 1, Depth: intp(3)}},
	)
}

func TestRun_EndToEnd(t *testing.T) {
	f := scenario(t)
	m, err := New(f.cfg, nil, nil).Run()
	require.NoError(t, err)

	assert.Equal(t, "1,0,'A,3\n2,2,'B,-1\n", f.read(t, "page.csv"))
	assert.Equal(t, "1,v{10}\n", f.read(t, "articleParents.csv"))
	assert.Equal(t, "2,1\n", f.read(t, "redirectTargetsBySource.csv"))
	assert.Equal(t, "1,v{}\n", f.read(t, "pageLabel.csv"))
	assert.Equal(t, "", f.read(t, "categoryParents.csv"))

	// Decoded, the page rows read as id,type,title,depth.
	rows := strings.Split(strings.TrimSpace(f.read(t, "page.csv")), "\n")
	type page struct {
		id    int
		typ   models.PageType
		title string
		depth int
	}
	var got []page
	for _, r := range rows {
		fl := recordcsv.ParseFields(r)
		p := page{id: fl.Int(), typ: models.ParsePageType(fl.Int()), title: fl.String(), depth: fl.Int()}
		require.NoError(t, fl.Err())
		got = append(got, p)
	}
	assert.Equal(t, []page{
		{1, models.PageTypeArticle, "A", 3},
		{2, models.PageTypeRedirect, "B", -1},
	}, got)

	assert.Equal(t, int64(1), m.Pages["article"])
	assert.Equal(t, int64(1), m.Pages["redirect"])
	assert.Equal(t, int64(1), m.Depth.Matched)
	assert.NotEmpty(t, m.RunID)
	assert.Len(t, m.Files, 11)
	assert.True(t, step.Dir{Path: f.cfg.OutputDir}.IsFinished())
}

func TestRun_IsIdempotent(t *testing.T) {
	f := scenario(t)
	first, err := New(f.cfg, nil, nil).Run()
	require.NoError(t, err)

	page := filepath.Join(f.cfg.OutputDir, "page.csv")
	before, err := os.Stat(page)
	require.NoError(t, err)

	// Even with the inputs gone, a finished step does no work.
	require.NoError(t, os.RemoveAll(f.cfg.PagesDir))
	second, err := New(f.cfg, nil, nil).Run()
	require.NoError(t, err)
	assert.Equal(t, first.RunID, second.RunID)

	after, err := os.Stat(page)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, "1,0,'A,3\n2,2,'B,-1\n", f.read(t, "page.csv"))
}

func TestRun_InputContractViolation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, cfg models.SummaryConfig)
	}{
		{
			name: "no pages partition",
			setup: func(t *testing.T, cfg models.SummaryConfig) {
				require.NoError(t, os.Remove(filepath.Join(cfg.PagesDir, records.PartName)))
			},
		},
		{
			name: "two depth partitions",
			setup: func(t *testing.T, cfg models.SummaryConfig) {
				require.NoError(t, os.WriteFile(filepath.Join(cfg.DepthsDir, "part-00001"), nil, 0600))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := scenario(t)
			tt.setup(t, f.cfg)

			_, err := New(f.cfg, nil, nil).Run()
			assert.ErrorIs(t, err, step.ErrInputContract)

			// no output channel was opened
			_, statErr := os.Stat(f.cfg.OutputDir)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestRun_SequenceOrderViolationLeavesStepUnfinished(t *testing.T) {
	f := scenario(t)
	// Hand-write an out-of-order pages part.
	path := filepath.Join(f.cfg.PagesDir, records.PartName)
	w, err := records.CreateDetails(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(&models.DetailRecord{ID: 5, Title: "E"}))
	require.NoError(t, w.Write(&models.DetailRecord{ID: 4, Title: "D"}))
	require.NoError(t, w.Close())

	_, err = New(f.cfg, nil, nil).Run()
	assert.ErrorIs(t, err, mergejoin.ErrSequenceOrder)
	assert.False(t, step.Dir{Path: f.cfg.OutputDir}.IsFinished())

	// A fixed input and a re-run recover cleanly.
	_, err = records.WriteDetailPart(f.cfg.PagesDir, []models.DetailRecord{{ID: 4, Title: "D"}, {ID: 5, Title: "E"}})
	require.NoError(t, err)
	_, err = New(f.cfg, nil, nil).Run()
	require.NoError(t, err)
	assert.Equal(t, "4,0,'D,-1\n5,0,'E,-1\n", f.read(t, "page.csv"))
}

func TestRun_EncodingErrorIsFatal(t *testing.T) {
	f := newFixture(t,
		[]models.DetailRecord{
			{ID: 1, Namespace: models.MainKey, Title: "ok"},
			{ID: 2, Namespace: models.MainKey, Title: "A", Labels: map[string]models.LabelSummary{"bad\xff": {OccCount: 1}}},
		}, nil)

	_, err := New(f.cfg, nil, nil).Run()
	assert.ErrorIs(t, err, recordcsv.ErrEncoding)
	assert.False(t, step.Dir{Path: f.cfg.OutputDir}.IsFinished())
	// page 2 wrote nothing, not even its page row
	assert.Equal(t, "1,0,'ok,-1\n", f.read(t, "page.csv"))
}

func TestRun_CountsUnsupportedShapes(t *testing.T) {
	f := newFixture(t,
		[]models.DetailRecord{
			{ID: 14, Namespace: models.CategoryKey, Title: "Cats", ChildArticles: []models.PageRef{{ID: 1}}},
			{ID: 15, Namespace: models.CategoryKey, Title: "Felines", RedirectsTo: &models.PageRef{ID: 14}},
			{ID: 16, Namespace: models.TemplateKey, Title: "Infobox"},
		},
		[]models.DepthRecord{{ID: 14, Depth: intp(1)}, {ID: 15}, {ID: 99, Depth: intp(4)}},
	)
	met := metrics.New()
	m, err := New(f.cfg, nil, met).Run()
	require.NoError(t, err)

	assert.Equal(t, "14,1,'Cats,1\n15,5,'Felines,-1\n16,4,'Infobox,-1\n", f.read(t, "page.csv"))
	assert.Equal(t, "14,v{1}\n", f.read(t, "childArticles.csv"))
	assert.Equal(t, "", f.read(t, "redirectTargetsBySource.csv"))

	assert.Equal(t, int64(1), m.Unsupported["category_redirect"])
	assert.Equal(t, float64(1), testutil.ToFloat64(met.UnsupportedShapes.WithLabelValues("category_redirect")))
	assert.Equal(t, float64(1), testutil.ToFloat64(met.Pages.WithLabelValues("invalid")))
	assert.Equal(t, float64(3), testutil.ToFloat64(met.Rows.WithLabelValues("page.csv")))
	assert.Equal(t, float64(2), testutil.ToFloat64(met.DepthRecords.WithLabelValues("matched")))
	assert.Equal(t, float64(1), testutil.ToFloat64(met.DepthRecords.WithLabelValues("skipped")))
}

func TestRun_WritesMetricsFile(t *testing.T) {
	f := scenario(t)
	f.cfg.MetricsFile = filepath.Join(t.TempDir(), "wps.prom")
	_, err := New(f.cfg, nil, nil).Run()
	require.NoError(t, err)

	data, err := os.ReadFile(f.cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `wps_pages_total{type="article"} 1`)
}

func TestRun_ValidatesConfig(t *testing.T) {
	_, err := New(models.SummaryConfig{}, nil, nil).Run()
	assert.Error(t, err)
}

func TestRun_RefusesOutputOverlappingInputs(t *testing.T) {
	tests := []struct {
		name   string
		output func(cfg models.SummaryConfig) string
	}{
		{"parent of the pages dir", func(cfg models.SummaryConfig) string { return filepath.Dir(cfg.PagesDir) }},
		{"same as the depths dir", func(cfg models.SummaryConfig) string { return cfg.DepthsDir }},
		{"inside the pages dir", func(cfg models.SummaryConfig) string { return filepath.Join(cfg.PagesDir, "out") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := scenario(t)
			f.cfg.OutputDir = tt.output(f.cfg)

			_, err := New(f.cfg, nil, nil).Run()
			assert.ErrorContains(t, err, "overlaps")

			// both input partitions are still there
			for _, dir := range []string{f.cfg.PagesDir, f.cfg.DepthsDir} {
				_, statErr := os.Stat(filepath.Join(dir, records.PartName))
				assert.NoError(t, statErr, dir)
			}
			assert.False(t, step.Dir{Path: f.cfg.OutputDir}.IsFinished())
		})
	}
}

func TestReset_RefusesOutputOverlappingInputs(t *testing.T) {
	f := scenario(t)
	f.cfg.OutputDir = filepath.Dir(f.cfg.DepthsDir)

	assert.ErrorContains(t, New(f.cfg, nil, nil).Reset(), "overlaps")
	_, err := os.Stat(filepath.Join(f.cfg.DepthsDir, records.PartName))
	assert.NoError(t, err)
}
