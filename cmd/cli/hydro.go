package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/consvis/watermod/pkg/data"
	"github.com/consvis/watermod/pkg/model"
)

var (
	hydroDirsFlag = &cli.StringSliceFlag{
		Name:     "dir",
		Usage:    "Hydrography dataset directory holding the feature-code rasters (repeatable)",
		Required: true,
	}

	hydroOutDirFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "Directory to write the water masks to (default: current dir)",
		Value: ".",
	}

	hydroCmd = &cli.Command{
		Name:    "hydro",
		Aliases: []string{"h"},
		Usage:   "Builds water masks from hydrography feature codes",
		Action:  cmdHydro,
		Flags: []cli.Flag{
			hydroDirsFlag,
			hydroOutDirFlag,
		},
	}
)

type hydroSummary struct {
	Datasets int    `json:"datasets"`
	Failed   int    `json:"failed"`
	Duration string `json:"duration"`
}

func cmdHydro(c *cli.Context) error {
	start := time.Now()
	dirs := c.StringSlice(hydroDirsFlag.Name)
	outDir := c.String(hydroOutDirFlag.Name)

	db := getDBOrFail()
	defer db.Close()

	selected, err := data.SelectedFCodes(db)
	if err != nil {
		return errors.Wrap(err, "failed to load selected feature codes")
	}
	if len(selected) == 0 {
		return errors.New("no feature codes selected, import fcodes first")
	}

	h := model.Hydro{Overwrite: cfg.Env.Overwrite}
	failed, err := h.Run(c.Context, dirs, selected, outDir)
	if err != nil {
		return errors.Wrap(err, "failed to build water masks")
	}
	if len(failed) > 0 {
		log.Warnf("%d of %d datasets failed", len(failed), len(dirs))
	}

	sum := &hydroSummary{
		Datasets: len(dirs),
		Failed:   len(failed),
		Duration: time.Since(start).String(),
	}
	if err := json.NewEncoder(os.Stdout).Encode(sum); err != nil {
		return errors.Wrapf(err, "error encoding result: %+v", sum)
	}
	return nil
}
