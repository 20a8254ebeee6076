package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/wiki-page-summary/models"
)

// NewLogger builds the JSON stderr logger shared by every command.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	} else if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LogFlags are accepted by every command.
func LogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log per-page debug detail"},
	}
}

// ConfigFlags are the flags LoadConfig reads.
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "YAML config file", EnvVars: []string{"WPS_CONFIG"}},
		&cli.StringFlag{Name: "pages-dir", Usage: "Page sorting stage output", EnvVars: []string{"WPS_PAGES_DIR"}},
		&cli.StringFlag{Name: "depths-dir", Usage: "Page depth stage output", EnvVars: []string{"WPS_DEPTHS_DIR"}},
		&cli.StringFlag{Name: "output-dir", Usage: "Final summary output", EnvVars: []string{"WPS_OUTPUT_DIR"}},
		&cli.StringFlag{Name: "metrics-file", Usage: "Write run counters in Prometheus text format", EnvVars: []string{"WPS_METRICS_FILE"}},
		&cli.StringFlag{Name: "db", Usage: "SQLite page-graph database (default: next to the binary)", EnvVars: []string{"WPS_DB"}},
	}
}

// LoadConfig reads the optional --config file and lets flags (or their
// environment variables) override what it sets.
func LoadConfig(c *cli.Context) (models.SummaryConfig, error) {
	var cfg models.SummaryConfig
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	override(c, "pages-dir", &cfg.PagesDir)
	override(c, "depths-dir", &cfg.DepthsDir)
	override(c, "output-dir", &cfg.OutputDir)
	override(c, "metrics-file", &cfg.MetricsFile)
	override(c, "db", &cfg.DBPath)
	return cfg, nil
}

func override(c *cli.Context, flag string, dst *string) {
	if c.IsSet(flag) || *dst == "" {
		if v := c.String(flag); v != "" {
			*dst = v
		}
	}
}

// RequireOutputDir is the check for commands that only touch the output.
func RequireOutputDir(cfg models.SummaryConfig) error {
	if cfg.OutputDir == "" {
		return fmt.Errorf("output directory is required (--output-dir)")
	}
	return nil
}

// PrintYAML writes v to w as YAML.
func PrintYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
