package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDef() Definition {
	return Definition{Ncols: 3, Nrows: 2, Xll: 100, Yll: 200, Cellsize: 10, Nodata: -9999}
}

func TestDefinition_CellCenter(t *testing.T) {
	d := testDef()
	// Row 0 is the top row.
	x, y := d.CellCenter(0, 0)
	assert.Equal(t, 105.0, x)
	assert.Equal(t, 215.0, y)

	x, y = d.CellCenter(1, 2)
	assert.Equal(t, 125.0, x)
	assert.Equal(t, 205.0, y)
}

func TestDefinition_CellAt(t *testing.T) {
	d := testDef()
	row, col, ok := d.CellAt(105, 215)
	require.True(t, ok)
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)

	row, col, ok = d.CellAt(129.9, 200.1)
	require.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	_, _, ok = d.CellAt(99, 215)
	assert.False(t, ok)
	_, _, ok = d.CellAt(105, 221)
	assert.False(t, ok)
}

func TestDefinition_Extent(t *testing.T) {
	xmin, ymin, xmax, ymax := testDef().Extent()
	assert.Equal(t, 100.0, xmin)
	assert.Equal(t, 200.0, ymin)
	assert.Equal(t, 130.0, xmax)
	assert.Equal(t, 220.0, ymax)
}

func TestDefinition_CellRoundTrip(t *testing.T) {
	d := testDef()
	for row := 0; row < d.Nrows; row++ {
		for col := 0; col < d.Ncols; col++ {
			x, y := d.CellCenter(row, col)
			r, c, ok := d.CellAt(x, y)
			require.True(t, ok)
			assert.Equal(t, row, r)
			assert.Equal(t, col, c)
		}
	}
}

func TestNewRaster_AllMissing(t *testing.T) {
	r := NewRaster(testDef())
	for row := 0; row < r.Def.Nrows; row++ {
		for col := 0; col < r.Def.Ncols; col++ {
			assert.True(t, r.IsNull(row, col))
		}
	}
}

func TestApply_SkipsMissing(t *testing.T) {
	r := NewConst(testDef(), 2)
	r.Set(0, 1, math.NaN())

	out := r.Apply(func(v float64) float64 { return v * 10 })
	assert.Equal(t, 20.0, out.At(0, 0))
	assert.True(t, out.IsNull(0, 1))
	// Input is untouched.
	assert.Equal(t, 2.0, r.At(0, 0))
}

func TestReclass(t *testing.T) {
	r := NewConst(testDef(), 7)
	r.Set(0, 0, 3)
	r.Set(1, 2, math.NaN())

	out := r.Reclass(map[int]float64{3: 100}, 0)
	assert.Equal(t, 100.0, out.At(0, 0))
	assert.Equal(t, 0.0, out.At(0, 1))
	// Missing zone cells take the default, matching the null-to-zero fill.
	assert.Equal(t, 0.0, out.At(1, 2))
}

func TestCellMax(t *testing.T) {
	a := NewConst(testDef(), 10)
	b := NewConst(testDef(), 5)
	b.Set(0, 0, 50)
	b.Set(1, 1, math.NaN())
	a.Set(1, 2, math.NaN())
	b.Set(1, 2, math.NaN())

	out, err := CellMax(a, b)
	require.NoError(t, err)
	assert.Equal(t, 50.0, out.At(0, 0))
	assert.Equal(t, 10.0, out.At(0, 1))
	// One-sided missing uses the available value.
	assert.Equal(t, 10.0, out.At(1, 1))
	// Missing everywhere stays missing.
	assert.True(t, out.IsNull(1, 2))
}

func TestCellSum(t *testing.T) {
	a := NewConst(testDef(), 1)
	b := NewConst(testDef(), 2)
	a.Set(0, 2, math.NaN())

	out, err := CellSum(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.At(0, 0))
	assert.Equal(t, 2.0, out.At(0, 2))
}

func TestCellMean(t *testing.T) {
	a := NewConst(testDef(), 40)
	b := NewConst(testDef(), 60)
	a.Set(1, 0, math.NaN())

	out, err := CellMean(a, b)
	require.NoError(t, err)
	assert.Equal(t, 50.0, out.At(0, 0))
	// DATA semantics: mean of the available values only.
	assert.Equal(t, 60.0, out.At(1, 0))
}

func TestCombine_MisalignedDefinitions(t *testing.T) {
	a := NewConst(testDef(), 1)
	d := testDef()
	d.Ncols = 4
	b := NewConst(d, 1)

	_, err := CellMax(a, b)
	assert.Error(t, err)
	_, err = CellMean(a, b)
	assert.Error(t, err)
}
