package pack

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/wiki-page-summary/internal/common"
	"github.com/dtnitsch/wiki-page-summary/models"
	"github.com/dtnitsch/wiki-page-summary/pkg/records"
)

// Kinds of part file pack can write.
const (
	KindDetail = "detail"
	KindDepth  = "depth"
)

func PackAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	in, out := c.String("in"), c.String("out")
	if in == "" || out == "" {
		return fmt.Errorf("both --in and --out are required")
	}

	path, n, err := Pack(c.String("kind"), in, out)
	if err != nil {
		return err
	}
	logger.Info("part file written", "kind", c.String("kind"), "records", n, "file", path)
	return nil
}

// Pack reads a YAML listing of records and writes them to outDir as a sorted
// part file.
func Pack(kind, listing, outDir string) (string, int, error) {
	data, err := os.ReadFile(listing)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read listing: %w", err)
	}

	switch kind {
	case KindDetail:
		var recs []models.DetailRecord
		if err := yaml.Unmarshal(data, &recs); err != nil {
			return "", 0, fmt.Errorf("failed to parse listing %s: %w", listing, err)
		}
		path, err := records.WriteDetailPart(outDir, recs)
		return path, len(recs), err
	case KindDepth:
		var recs []models.DepthRecord
		if err := yaml.Unmarshal(data, &recs); err != nil {
			return "", 0, fmt.Errorf("failed to parse listing %s: %w", listing, err)
		}
		path, err := records.WriteDepthPart(outDir, recs)
		return path, len(recs), err
	default:
		return "", 0, fmt.Errorf("unknown kind %q (want %s or %s)", kind, KindDetail, KindDepth)
	}
}
