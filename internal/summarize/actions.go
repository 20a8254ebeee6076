package summarize

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wiki-page-summary/internal/common"
	"github.com/dtnitsch/wiki-page-summary/pkg/manifest"
	"github.com/dtnitsch/wiki-page-summary/pkg/metrics"
	"github.com/dtnitsch/wiki-page-summary/pkg/step"
	"github.com/dtnitsch/wiki-page-summary/pkg/summary"
)

func SummarizeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	s := summary.New(cfg, logger, metrics.New())
	if c.Bool("force") {
		logger.Info("discarding previous output", "output_dir", cfg.OutputDir)
		if err := s.Reset(); err != nil {
			return err
		}
	}

	m, err := s.Run()
	if err != nil {
		return fmt.Errorf("final summary failed: %w", err)
	}

	if !c.Bool("quiet") {
		printManifest(m)
	}
	return nil
}

func StatusAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if err := common.RequireOutputDir(cfg); err != nil {
		return err
	}

	dir := step.Dir{Path: cfg.OutputDir}
	if !dir.IsFinished() {
		fmt.Printf("%s: not finished\n", cfg.OutputDir)
		return nil
	}

	m, err := dir.Manifest()
	if err != nil {
		return fmt.Errorf("failed to read completion marker: %w", err)
	}
	if strings.ToLower(c.String("format")) == "yaml" {
		return common.PrintYAML(os.Stdout, m)
	}

	fmt.Printf("%s: finished %s\n", cfg.OutputDir, humanize.Time(m.FinishedAt))
	printManifest(m)
	return nil
}

func ResetAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if err := common.RequireOutputDir(cfg); err != nil {
		return err
	}
	if err := cfg.CheckOutputDir(); err != nil {
		return err
	}

	if err := (step.Dir{Path: cfg.OutputDir}).Reset(); err != nil {
		return err
	}
	logger.Info("output reset", "output_dir", cfg.OutputDir)
	return nil
}

func printManifest(m *manifest.RunManifest) {
	fmt.Printf("Run %s (%s)\n", m.RunID, m.Duration().Round(time.Millisecond))
	fmt.Println(strings.Repeat("=", 60))

	types := make([]string, 0, len(m.Pages))
	for t := range m.Pages {
		types = append(types, t)
	}
	sort.Strings(types)
	fmt.Printf("Pages:   %s total\n", humanize.Comma(m.TotalPages()))
	for _, t := range types {
		fmt.Printf("  %-10s %12s\n", t, humanize.Comma(m.Pages[t]))
	}
	fmt.Printf("Depths:  %s matched, %s skipped\n", humanize.Comma(m.Depth.Matched), humanize.Comma(m.Depth.Skipped))
	for shape, n := range m.Unsupported {
		fmt.Printf("Unsupported %s: %s\n", shape, humanize.Comma(n))
	}

	fmt.Printf("\n%-30s %12s %10s\n", "File", "Rows", "Size")
	fmt.Println(strings.Repeat("-", 60))
	for _, f := range m.Files {
		fmt.Printf("%-30s %12s %10s\n", f.File, humanize.Comma(f.Rows), humanize.Bytes(uint64(f.SizeBytes)))
	}
}
