package db

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
)

// ParsePageID reads the page id argument.
func ParsePageID(c *cli.Context) (int, error) {
	if c.NArg() == 0 {
		return 0, fmt.Errorf("page id is required. Usage: wps show <page-id>")
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid page id: %s", c.Args().First())
	}
	return id, nil
}
