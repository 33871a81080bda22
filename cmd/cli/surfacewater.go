package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/consvis/watermod/pkg/data"
	"github.com/consvis/watermod/pkg/model"
	"github.com/consvis/watermod/pkg/raster"
)

const (
	swScoreFileName       = "swscore.asc"
	swDistanceSubFileName = "swdistance_subscore.asc"
	swDensitySubFileName  = "swdensity_subscore.asc"

	swFailPrefix = "swsource"
)

var (
	swOutDirFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "Directory to write the score rasters to (default: current dir)",
		Value: ".",
	}

	surfaceWaterCmd = &cli.Command{
		Name:    "surfacewater",
		Aliases: []string{"sw"},
		Usage:   "Computes the surface-water protection score from imported sources",
		Action:  cmdSurfaceWater,
		Flags: []cli.Flag{
			swOutDirFlag,
		},
	}
)

type surfaceWaterSummary struct {
	Sources  int    `json:"sources"`
	Failed   int    `json:"failed"`
	FailList string `json:"fail_list,omitempty"`
	Score    string `json:"score"`
	Duration string `json:"duration"`
}

func cmdSurfaceWater(c *cli.Context) error {
	start := time.Now()
	outDir := c.String(swOutDirFlag.Name)

	if cfg.Env.SnapRaster == "" {
		return errors.New("no snap raster configured (env.snap_raster)")
	}
	snap, err := raster.ReadASC(cfg.Env.SnapRaster)
	if err != nil {
		return errors.Wrapf(err, "failed to read snap raster: %s", cfg.Env.SnapRaster)
	}

	db := getDBOrFail()
	defer db.Close()

	srcs, err := data.ListSources(db, data.SurfaceWaterType)
	if err != nil {
		return errors.Wrap(err, "failed to list surface water sources")
	}
	log.Infof("scoring %d surface water sources...", len(srcs))

	recs := make([]model.SourceRecord, 0, len(srcs))
	for _, s := range srcs {
		recs = append(recs, model.SourceRecord{ID: s.ID, Pop: s.PopEst, X: s.X, Y: s.Y})
	}

	sw := model.SurfaceWater{
		Snap:     snap.Def,
		Near:     cfg.SurfaceWater.Distance.Min,
		Far:      cfg.SurfaceWater.Distance.Max,
		DensMin:  cfg.SurfaceWater.Density.Min,
		DensMax:  cfg.SurfaceWater.Density.Max,
		Workers:  cfg.SurfaceWater.Workers,
		Progress: true,
	}

	res, err := sw.Run(c.Context, recs)
	if err != nil {
		return errors.Wrap(err, "failed to compute surface water score")
	}

	if cfg.Env.ScratchDir != "" {
		if err := checkpointSubscores(cfg.Env.ScratchDir, res); err != nil {
			log.Warnf("failed to checkpoint subscores: %v", err)
		}
	}

	for _, out := range []struct {
		r  *raster.Raster
		fn string
	}{
		{res.DistanceSub, swDistanceSubFileName},
		{res.DensitySub, swDensitySubFileName},
		{res.Score, swScoreFileName},
	} {
		fp := filepath.Join(outDir, out.fn)
		if err := raster.WriteASC(out.r, fp, cfg.Env.Overwrite); err != nil {
			return errors.Wrapf(err, "failed to write %s", fp)
		}
	}

	sum := &surfaceWaterSummary{
		Sources:  len(recs),
		Failed:   len(res.Failed),
		Score:    filepath.Join(outDir, swScoreFileName),
		Duration: time.Since(start).String(),
	}

	if len(res.Failed) > 0 {
		fp, err := model.WriteFailList(outDir, swFailPrefix, res.Failed)
		if err != nil {
			return errors.Wrap(err, "failed to write fail list")
		}
		sum.FailList = fp
		log.Warnf("%d of %d sources failed, see %s", len(res.Failed), len(recs), fp)
	}

	if err := json.NewEncoder(os.Stdout).Encode(sum); err != nil {
		return errors.Wrapf(err, "error encoding result: %+v", sum)
	}
	return nil
}

// checkpointSubscores keeps binary copies of the subscores in the scratch
// workspace so a failed final write does not force a rerun of the whole loop.
func checkpointSubscores(dir string, res *model.SurfaceWaterResult) error {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errors.Wrapf(err, "failed to create scratch dir: %s", dir)
	}
	if err := res.DistanceSub.SaveGob(filepath.Join(dir, "swdistance.gob")); err != nil {
		return err
	}
	return res.DensitySub.SaveGob(filepath.Join(dir, "swdensity.gob"))
}
