package model

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/consvis/watermod/pkg/raster"
)

// HydroLayerFiles are the feature-code rasters expected in each hydrography
// dataset directory: one per source geometry class, each cell holding the
// burned feature's FCode.
var HydroLayerFiles = []string{"waterbody.asc", "area.asc", "flowline.asc"}

// Hydro builds binary water masks from feature-code rasters: cells whose
// code is in the selected set become 1, everything else stays missing, and
// the per-geometry layers are merged with a cellwise maximum.
type Hydro struct {
	Overwrite bool
}

// MaskFromCodes reclasses each layer to 1/missing against the selected code
// set and combines them.
func MaskFromCodes(layers []*raster.Raster, selected map[int]bool) (*raster.Raster, error) {
	if len(layers) == 0 {
		return nil, errors.New("no layers given")
	}
	if len(selected) == 0 {
		return nil, errors.New("no feature codes selected")
	}

	codes := make(map[int]float64, len(selected))
	for c := range selected {
		codes[c] = 1
	}

	masks := make([]*raster.Raster, 0, len(layers))
	for _, l := range layers {
		masks = append(masks, l.Reclass(codes, math.NaN()))
	}
	return raster.CellMax(masks...)
}

// Run processes each dataset directory, writing hydro_<name>.asc into
// outDir. A failed dataset is logged and skipped.
func (h Hydro) Run(ctx context.Context, dirs []string, selected map[int]bool, outDir string) ([]RecordError, error) {
	if len(selected) == 0 {
		return nil, errors.New("no feature codes selected")
	}

	failed := make([]RecordError, 0)
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		name := filepath.Base(dir)
		log.Infof("working on dataset %s...", name)

		if err := h.processDataset(dir, name, selected, outDir); err != nil {
			log.Warnf("failed to process dataset %s: %v", name, err)
			failed = append(failed, RecordError{ID: name, Err: err})
			continue
		}

		log.Infof("completed dataset %s", name)
	}
	return failed, nil
}

func (h Hydro) processDataset(dir, name string, selected map[int]bool, outDir string) error {
	layers := make([]*raster.Raster, 0, len(HydroLayerFiles))
	for _, fn := range HydroLayerFiles {
		l, err := raster.ReadASC(filepath.Join(dir, fn))
		if err != nil {
			return errors.Wrapf(err, "failed to read layer %s", fn)
		}
		layers = append(layers, l)
	}

	mask, err := MaskFromCodes(layers, selected)
	if err != nil {
		return err
	}

	fp := filepath.Join(outDir, fmt.Sprintf("hydro_%s.asc", name))
	if err := raster.WriteASC(mask, fp, h.Overwrite); err != nil {
		return errors.Wrap(err, "failed to write hydro mask")
	}
	return nil
}
