package main

import (
	"database/sql"
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/consvis/watermod/pkg/data"
)

var (
	importFileFlag = &cli.StringFlag{
		Name:     "file",
		Usage:    "Path to the CSV file to import",
		Required: true,
	}

	importCmd = &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "List data import operations",
		Subcommands: []*cli.Command{
			{
				Name:    "sources",
				Aliases: []string{"s"},
				Usage:   "Imports water source points (id, water_type, pop_est, x, y)",
				Action:  cmdImportSources,
				Flags: []cli.Flag{
					importFileFlag,
				},
			},
			{
				Name:    "reaches",
				Aliases: []string{"r"},
				Usage:   "Imports stream reach attributes (comid, basin, start_flag)",
				Action:  cmdImportReaches,
				Flags: []cli.Flag{
					importFileFlag,
				},
			},
			{
				Name:    "fcodes",
				Aliases: []string{"f"},
				Usage:   "Imports NHD feature codes (fcode, description, selected)",
				Action:  cmdImportFCodes,
				Flags: []cli.Flag{
					importFileFlag,
				},
			},
			{
				Name:    "measurements",
				Aliases: []string{"m"},
				Usage:   "Imports site metric observations (site, metric, value)",
				Action:  cmdImportMeasurements,
				Flags: []cli.Flag{
					importFileFlag,
				},
			},
		},
	}
)

type importSummary struct {
	File     string `json:"file"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Duration string `json:"duration"`
}

func cmdImportSources(c *cli.Context) error {
	return runImport(c, data.ImportSources)
}

func cmdImportReaches(c *cli.Context) error {
	return runImport(c, data.ImportReaches)
}

func cmdImportFCodes(c *cli.Context) error {
	return runImport(c, data.ImportFCodes)
}

func cmdImportMeasurements(c *cli.Context) error {
	return runImport(c, data.ImportMeasurements)
}

func runImport(c *cli.Context, fn func(*sql.DB, string) (*data.ImportResult, error)) error {
	start := time.Now()
	file := c.String(importFileFlag.Name)
	if file == "" {
		return cli.ShowSubcommandHelp(c)
	}

	db := getDBOrFail()
	defer db.Close()

	res, err := fn(db, file)
	if err != nil {
		return errors.Wrapf(err, "failed to import %s", file)
	}

	out := &importSummary{
		File:     file,
		Imported: res.Imported,
		Skipped:  res.Skipped,
		Duration: time.Since(start).String(),
	}
	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		return errors.Wrapf(err, "error encoding result: %+v", out)
	}
	return nil
}
