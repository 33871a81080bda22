package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/consvis/watermod/pkg/data"
	"github.com/consvis/watermod/pkg/model"
)

var (
	basinDirsFlag = &cli.StringSliceFlag{
		Name:     "dir",
		Usage:    "Basin directory holding the catchment zone raster (repeatable)",
		Required: true,
	}

	hwOutDirFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "Directory to write the per-basin score rasters to (default: current dir)",
		Value: ".",
	}

	hwLogFlag = &cli.StringFlag{
		Name:  "log",
		Usage: "Path to the process log file (optional)",
	}

	headwatersCmd = &cli.Command{
		Name:    "headwaters",
		Aliases: []string{"hw"},
		Usage:   "Scores headwater catchments per basin from imported reaches",
		Action:  cmdHeadwaters,
		Flags: []cli.Flag{
			basinDirsFlag,
			hwOutDirFlag,
			hwLogFlag,
		},
	}
)

type headwatersSummary struct {
	Basins   int    `json:"basins"`
	Failed   int    `json:"failed"`
	Duration string `json:"duration"`
}

func cmdHeadwaters(c *cli.Context) error {
	start := time.Now()
	dirs := c.StringSlice(basinDirsFlag.Name)
	outDir := c.String(hwOutDirFlag.Name)

	var plog io.Writer
	if fp := c.String(hwLogFlag.Name); fp != "" {
		fl, err := os.Create(fp)
		if err != nil {
			return errors.Wrapf(err, "failed to create process log: %s", fp)
		}
		defer fl.Close()
		plog = fl
	}

	db := getDBOrFail()
	defer db.Close()

	h := model.Headwaters{
		Overwrite: cfg.Env.Overwrite,
		Lookup: func(basin string) (map[int]bool, error) {
			return data.HeadwaterCatchments(db, basin)
		},
	}

	failed, err := h.Run(c.Context, dirs, outDir, plog)
	if err != nil {
		return errors.Wrap(err, "failed to score headwater catchments")
	}
	if len(failed) > 0 {
		log.Warnf("%d of %d basins failed", len(failed), len(dirs))
	}

	sum := &headwatersSummary{
		Basins:   len(dirs),
		Failed:   len(failed),
		Duration: time.Since(start).String(),
	}
	if err := json.NewEncoder(os.Stdout).Encode(sum); err != nil {
		return errors.Wrapf(err, "error encoding result: %+v", sum)
	}
	return nil
}
