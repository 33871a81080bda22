package model

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consvis/watermod/pkg/raster"
)

func writeZoneRaster(t *testing.T, dir string) {
	t.Helper()
	z := raster.NewRaster(raster.Definition{Ncols: 2, Nrows: 2, Xll: 0, Yll: 0, Cellsize: 30, Nodata: -9999})
	z.Set(0, 0, 10)
	z.Set(0, 1, 11)
	z.Set(1, 0, 10)
	z.Set(1, 1, math.NaN()) // outside any catchment
	require.NoError(t, raster.WriteASC(z, filepath.Join(dir, ZoneFileName), true))
}

func TestHeadwaters_Run(t *testing.T) {
	root := t.TempDir()
	basinDir := filepath.Join(root, "NHDPlus02")
	outDir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(basinDir, 0700))
	require.NoError(t, os.MkdirAll(outDir, 0700))
	writeZoneRaster(t, basinDir)

	var plog bytes.Buffer
	h := Headwaters{
		Overwrite: true,
		Lookup: func(basin string) (map[int]bool, error) {
			assert.Equal(t, "02", basin)
			return map[int]bool{10: true}, nil
		},
	}

	failed, err := h.Run(context.Background(), []string{basinDir}, outDir, &plog)
	require.NoError(t, err)
	assert.Empty(t, failed)

	out, err := raster.ReadASC(filepath.Join(outDir, "hdcatch_02.asc"))
	require.NoError(t, err)
	assert.Equal(t, 100.0, out.At(0, 0))
	assert.Equal(t, 0.0, out.At(0, 1))
	assert.Equal(t, 100.0, out.At(1, 0))
	// Cells outside any catchment score 0, not missing.
	assert.Equal(t, 0.0, out.At(1, 1))

	assert.Contains(t, plog.String(), "working on basin 02")
	assert.Contains(t, plog.String(), "successfully processed basin 02")
}

func TestHeadwaters_SkipsFailedBasin(t *testing.T) {
	root := t.TempDir()
	goodDir := filepath.Join(root, "NHDPlus02")
	badDir := filepath.Join(root, "NHDPlus03") // no zone raster
	outDir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(goodDir, 0700))
	require.NoError(t, os.MkdirAll(badDir, 0700))
	require.NoError(t, os.MkdirAll(outDir, 0700))
	writeZoneRaster(t, goodDir)

	var plog bytes.Buffer
	h := Headwaters{
		Overwrite: true,
		Lookup:    func(string) (map[int]bool, error) { return map[int]bool{10: true}, nil },
	}

	failed, err := h.Run(context.Background(), []string{badDir, goodDir}, outDir, &plog)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "03", failed[0].ID)

	// The good basin still produced its output.
	_, err = os.Stat(filepath.Join(outDir, "hdcatch_02.asc"))
	assert.NoError(t, err)
	assert.Contains(t, plog.String(), "failed to fully process basin 03")
}

func TestHeadwaters_NoLookup(t *testing.T) {
	h := Headwaters{}
	_, err := h.Run(context.Background(), nil, t.TempDir(), nil)
	assert.Error(t, err)
}

func TestWriteFailList(t *testing.T) {
	dir := t.TempDir()
	failed := []RecordError{
		{ID: "3", Err: assert.AnError},
		{ID: "9", Err: assert.AnError},
	}

	fp, err := WriteFailList(dir, "sw", failed)
	require.NoError(t, err)

	b, err := os.ReadFile(fp)
	require.NoError(t, err)
	assert.Contains(t, string(b), "id,error")
	assert.Contains(t, string(b), "3,")
	assert.Contains(t, string(b), "9,")

	_, err = WriteFailList(dir, "sw", nil)
	assert.Error(t, err)
}
