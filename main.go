package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wiki-page-summary/internal/common"
	"github.com/dtnitsch/wiki-page-summary/internal/db"
	"github.com/dtnitsch/wiki-page-summary/internal/pack"
	"github.com/dtnitsch/wiki-page-summary/internal/summarize"
	"github.com/dtnitsch/wiki-page-summary/pkg/help"
)

func flags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func main() {
	app := &cli.App{
		Name:  "wps",
		Usage: "Final summary step of the Wikipedia page pipeline",
		Commands: []*cli.Command{
			{
				Name:   "summarize",
				Usage:  "Join sorted page details with page depths and write the CSV projections",
				Flags:  flags(common.LogFlags(), common.ConfigFlags(), []cli.Flag{&cli.BoolFlag{Name: "force", Usage: "Discard finished output and run again"}}),
				Action: summarize.SummarizeAction,
			},
			{
				Name:  "status",
				Usage: "Show whether the summary finished and what it wrote",
				Flags: flags(common.LogFlags(), common.ConfigFlags(), []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "text", Usage: "Output format: text or yaml"},
				}),
				Action: summarize.StatusAction,
			},
			{
				Name:   "reset",
				Usage:  "Remove finished or partial summary output",
				Flags:  flags(common.LogFlags(), common.ConfigFlags()),
				Action: summarize.ResetAction,
			},
			{
				Name:   "load",
				Usage:  "Load a finished summary into the SQLite page-graph database",
				Flags:  flags(common.LogFlags(), common.ConfigFlags()),
				Action: db.LoadAction,
			},
			{
				Name:      "show",
				Usage:     "Print a loaded page with its edges and ranked labels",
				ArgsUsage: "<page-id>",
				Flags: flags(common.LogFlags(), common.ConfigFlags(), []cli.Flag{
					&cli.IntFlag{Name: "labels", Value: 20, Usage: "Maximum labels to print (0 for all)"},
				}),
				Action: db.ShowAction,
			},
			{
				Name:  "loads",
				Usage: "List recorded database loads",
				Flags: flags(common.LogFlags(), common.ConfigFlags(), []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum loads to list"},
				}),
				Action: db.LoadsAction,
			},
			{
				Name:  "pack",
				Usage: "Write a sorted part file from a YAML listing of records",
				Flags: flags(common.LogFlags(), []cli.Flag{
					&cli.StringFlag{Name: "kind", Value: pack.KindDetail, Usage: "Record kind: detail or depth"},
					&cli.StringFlag{Name: "in", Usage: "YAML listing"},
					&cli.StringFlag{Name: "out", Usage: "Directory to write part-00000 into"},
				}),
				Action: pack.PackAction,
			},
			{
				Name:  "quickstart",
				Usage: "Print a quick reference of inputs, outputs and commands",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("command failed", "error", err)
		os.Exit(1)
	}
}
