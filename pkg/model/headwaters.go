package model

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/consvis/watermod/pkg/raster"
	"github.com/consvis/watermod/pkg/score"
)

const (
	// ZoneFileName is the catchment zone raster expected in each basin
	// directory: cell values are catchment IDs.
	ZoneFileName = "catchments.asc"

	logTimeFormat = "2006-01-02 15:04:05"
)

// Headwaters builds per-basin headwater scores: cells inside the catchment
// of a headwater reach score 100, everything else (including cells outside
// any catchment) scores 0. Basins are processed independently; the outputs
// are mosaicked downstream.
type Headwaters struct {
	Overwrite bool

	// Lookup returns the headwater catchment IDs of a basin.
	Lookup func(basin string) (map[int]bool, error)
}

// Run processes each basin directory, writing hdcatch_<basin>.asc into
// outDir. A failed basin is logged to the process log and skipped. The
// returned fail list is empty on a clean run.
func (h Headwaters) Run(ctx context.Context, basinDirs []string, outDir string, plog io.Writer) ([]RecordError, error) {
	if h.Lookup == nil {
		return nil, errors.New("headwater lookup is required")
	}
	if plog == nil {
		plog = io.Discard
	}

	fmt.Fprintf(plog, "processing started %s\n", time.Now().Format(logTimeFormat))
	failed := make([]RecordError, 0)

	for _, dir := range basinDirs {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		basin := strings.TrimPrefix(filepath.Base(dir), "NHDPlus")
		log.Infof("working on basin %s...", basin)
		fmt.Fprintf(plog, "working on basin %s...\n", basin)

		if err := h.processBasin(dir, basin, outDir); err != nil {
			log.Warnf("failed to fully process basin %s: %v", basin, err)
			fmt.Fprintf(plog, "failed to fully process basin %s: %v\n", basin, err)
			failed = append(failed, RecordError{ID: basin, Err: err})
			continue
		}

		log.Infof("successfully processed basin %s", basin)
		fmt.Fprintf(plog, "successfully processed basin %s\n", basin)
	}

	fmt.Fprintf(plog, "processing ended %s\n", time.Now().Format(logTimeFormat))
	return failed, nil
}

func (h Headwaters) processBasin(dir, basin, outDir string) error {
	zone, err := raster.ReadASC(filepath.Join(dir, ZoneFileName))
	if err != nil {
		return errors.Wrap(err, "failed to read catchment zones")
	}

	hw, err := h.Lookup(basin)
	if err != nil {
		return errors.Wrap(err, "failed to look up headwater reaches")
	}

	codes := make(map[int]float64, len(hw))
	for comid := range hw {
		codes[comid] = score.MaxScore
	}
	out := zone.Reclass(codes, 0)

	fp := filepath.Join(outDir, fmt.Sprintf("hdcatch_%s.asc", basin))
	if err := raster.WriteASC(out, fp, h.Overwrite); err != nil {
		return errors.Wrap(err, "failed to write headwater score")
	}
	return nil
}
