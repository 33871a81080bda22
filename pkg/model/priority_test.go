package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consvis/watermod/pkg/raster"
	"github.com/consvis/watermod/pkg/score"
)

func integRaster() *raster.Raster {
	r := raster.NewConst(raster.Definition{Ncols: 2, Nrows: 2, Xll: 0, Yll: 0, Cellsize: 30, Nodata: -9999}, 30)
	r.Set(0, 1, 5)
	r.Set(1, 0, 60)
	r.Set(1, 1, math.NaN())
	return r
}

func TestDerivePriorityLinear(t *testing.T) {
	out, err := DerivePriorityLinear(integRaster(), score.LinearTrunc{Y: 20, X1: 10, X2: 50})
	require.NoError(t, err)

	assert.InDelta(t, 60.0, out.At(0, 0), 1e-9)
	assert.Equal(t, 50.0, out.At(0, 1))
	assert.Equal(t, 100.0, out.At(1, 0))
	assert.True(t, out.IsNull(1, 1))
}

func TestDerivePriorityLinear_InvalidThresholds(t *testing.T) {
	_, err := DerivePriorityLinear(integRaster(), score.LinearTrunc{Y: 20, X1: 50, X2: 10})
	require.Error(t, err)
	assert.True(t, score.IsDomainError(err))
}

func TestDerivePriorityHump(t *testing.T) {
	out, err := DerivePriorityHump(integRaster(), score.Hump{Y: 20, X1: 10, X2: 30, X3: 60, X4: 90})
	require.NoError(t, err)

	assert.Equal(t, 100.0, out.At(0, 0)) // on the plateau
	assert.Equal(t, 50.0, out.At(0, 1))  // below X1
	assert.Equal(t, 100.0, out.At(1, 0)) // plateau upper edge
	assert.True(t, out.IsNull(1, 1))
}

func TestDerivePriorityHump_InvalidThresholds(t *testing.T) {
	_, err := DerivePriorityHump(integRaster(), score.Hump{Y: 20, X1: 90, X2: 30, X3: 60, X4: 10})
	require.Error(t, err)
	assert.True(t, score.IsDomainError(err))
}
