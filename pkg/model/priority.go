package model

import (
	"github.com/consvis/watermod/pkg/raster"
	"github.com/consvis/watermod/pkg/score"
)

// DerivePriorityLinear derives a priority multiplier raster from a watershed
// integrity raster under the linear-truncated relationship. Missing cells
// propagate.
func DerivePriorityLinear(integ *raster.Raster, f score.LinearTrunc) (*raster.Raster, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return integ.Apply(f.Score), nil
}

// DerivePriorityHump derives a priority multiplier raster from a watershed
// integrity raster under the hump-shaped relationship. Missing cells
// propagate.
func DerivePriorityHump(integ *raster.Raster, f score.Hump) (*raster.Raster, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return integ.Apply(f.Score), nil
}
