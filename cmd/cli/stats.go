package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/consvis/watermod/pkg/data"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	statsFormatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format (json or yaml)",
		Value: formatJSON,
	}

	statsCmd = &cli.Command{
		Name:    "stats",
		Aliases: []string{"st"},
		Usage:   "Prints row counts for the imported data",
		Action:  cmdStats,
		Flags: []cli.Flag{
			statsFormatFlag,
		},
	}
)

func cmdStats(c *cli.Context) error {
	db := getDBOrFail()
	defer db.Close()

	s, err := data.GetStats(db)
	if err != nil {
		return errors.Wrap(err, "failed to query stats")
	}

	switch c.String(statsFormatFlag.Name) {
	case formatJSON:
		if err := json.NewEncoder(os.Stdout).Encode(s); err != nil {
			return errors.Wrapf(err, "error encoding stats: %+v", s)
		}
	case formatYAML:
		if err := yaml.NewEncoder(os.Stdout).Encode(s); err != nil {
			return errors.Wrapf(err, "error encoding stats: %+v", s)
		}
	default:
		return errors.Errorf("unknown format: %s", c.String(statsFormatFlag.Name))
	}
	return nil
}
