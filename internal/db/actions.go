package db

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wiki-page-summary/internal/common"
	"github.com/dtnitsch/wiki-page-summary/models"
	dbpkg "github.com/dtnitsch/wiki-page-summary/pkg/db"
	"github.com/dtnitsch/wiki-page-summary/pkg/step"
)

func LoadAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if err := common.RequireOutputDir(cfg); err != nil {
		return err
	}

	// Only a finished step has a complete set of files.
	dir := step.Dir{Path: cfg.OutputDir}
	if !dir.IsFinished() {
		return fmt.Errorf("%s is not finished. Run 'wps summarize' first", cfg.OutputDir)
	}
	m, err := dir.Manifest()
	if err != nil {
		return fmt.Errorf("failed to read completion marker: %w", err)
	}

	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	stats, err := database.Load(cfg.OutputDir, m.RunID)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cfg.OutputDir, err)
	}

	logger.Info("page graph loaded",
		"db", database.Path(),
		"run_id", m.RunID,
		"load_id", stats.LoadID,
		"pages", stats.Rows["page.csv"],
	)
	return nil
}

func ShowAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	pageID, err := ParsePageID(c)
	if err != nil {
		return err
	}

	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	page, err := database.GetPage(pageID)
	if err != nil {
		return err
	}

	fmt.Printf("Page %d: %s\n", page.ID, page.Title)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Type:   %s\n", page.Type)
	if page.Depth == models.UnknownDepth {
		fmt.Printf("Depth:  (unknown)\n")
	} else {
		fmt.Printf("Depth:  %d\n", page.Depth)
	}

	switch page.Type {
	case models.PageTypeRedirect:
		target, ok, err := database.RedirectTarget(page.ID)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("Target: %d\n", target)
		}
	case models.PageTypeCategory:
		for _, rel := range []string{dbpkg.RelationCategoryParent, dbpkg.RelationChildArticle, dbpkg.RelationChildCategory} {
			if err := printEdges(database, page.ID, rel); err != nil {
				return err
			}
		}
	case models.PageTypeArticle:
		for _, rel := range []string{dbpkg.RelationArticleParent, dbpkg.RelationRedirectSource} {
			if err := printEdges(database, page.ID, rel); err != nil {
				return err
			}
		}
		for _, dir := range []string{dbpkg.LinkIn, dbpkg.LinkOut} {
			links, err := database.Links(page.ID, dir)
			if err != nil {
				return err
			}
			fmt.Printf("Links %-3s %d\n", dir+":", len(links))
		}

		limit := c.Int("labels")
		labels, err := database.Labels(page.ID, limit)
		if err != nil {
			return err
		}
		fmt.Printf("\nLabels (%d):\n", len(labels))
		fmt.Println(strings.Repeat("-", 60))
		for i, l := range labels {
			var flags []string
			if l.FromTitle {
				flags = append(flags, "title")
			}
			if l.FromRedirect {
				flags = append(flags, "redirect")
			}
			fmt.Printf("%2d. %-30s occ=%s doc=%s %s\n", i+1, l.Text,
				humanize.Comma(l.OccCount), humanize.Comma(l.DocCount), strings.Join(flags, ","))
		}
	}

	return nil
}

func LoadsAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	database, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	loads, err := database.ListLoads(c.Int("limit"))
	if err != nil {
		return err
	}
	if len(loads) == 0 {
		fmt.Println("No loads found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-12s %-38s %s\n", "ID", "Loaded", "Pages", "Run", "Output Dir")
	fmt.Println(strings.Repeat("-", 120))
	for _, l := range loads {
		fmt.Printf("%-6d %-20s %-12s %-38s %s\n",
			l.LoadID,
			l.LoadedAt.Format("2006-01-02 15:04:05"),
			humanize.Comma(l.PageCount),
			l.RunID,
			l.OutputDir,
		)
	}
	fmt.Printf("\nTotal: %d loads\n", len(loads))
	return nil
}

func printEdges(database *dbpkg.DB, pageID int, relation string) error {
	ids, err := database.Edges(pageID, relation)
	if err != nil {
		return err
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = fmt.Sprint(id)
	}
	fmt.Printf("%-16s [%s]\n", relation+":", strings.Join(strs, " "))
	return nil
}
