// Package raster provides the snap-aligned grid surface the scoring
// pipelines operate on: a grid definition, a float64 cell array with
// missing-data cells, and the cellwise combine operations (max, sum, mean)
// used to merge score layers.
package raster

import (
	"math"

	"github.com/pkg/errors"
)

// Definition describes a uniform grid: cell counts, the lower-left corner of
// the extent, cell size, and the no-data sentinel used on disk. Rows are
// stored north to south, so row 0 is the top of the grid.
type Definition struct {
	Ncols    int
	Nrows    int
	Xll      float64
	Yll      float64
	Cellsize float64
	Nodata   float64
}

// NumCells returns the total cell count.
func (d Definition) NumCells() int {
	return d.Ncols * d.Nrows
}

// CellCenter returns the map coordinate of the center of cell (row, col).
func (d Definition) CellCenter(row, col int) (x, y float64) {
	x = d.Xll + (float64(col)+0.5)*d.Cellsize
	y = d.Yll + (float64(d.Nrows-row)-0.5)*d.Cellsize
	return x, y
}

// Extent returns the outer bounds of the grid.
func (d Definition) Extent() (xmin, ymin, xmax, ymax float64) {
	return d.Xll, d.Yll,
		d.Xll + float64(d.Ncols)*d.Cellsize,
		d.Yll + float64(d.Nrows)*d.Cellsize
}

// CellAt returns the cell containing map coordinate (x, y), and whether the
// coordinate falls inside the grid extent.
func (d Definition) CellAt(x, y float64) (row, col int, ok bool) {
	col = int(math.Floor((x - d.Xll) / d.Cellsize))
	row = d.Nrows - 1 - int(math.Floor((y-d.Yll)/d.Cellsize))
	if col < 0 || col >= d.Ncols || row < 0 || row >= d.Nrows {
		return 0, 0, false
	}
	return row, col, true
}

// Equals reports whether two definitions describe the same grid alignment.
func (d Definition) Equals(o Definition) bool {
	return d.Ncols == o.Ncols && d.Nrows == o.Nrows &&
		d.Xll == o.Xll && d.Yll == o.Yll && d.Cellsize == o.Cellsize
}

// Raster is a single-band float64 surface. Missing cells are held as NaN in
// memory and translated to the definition's no-data value on write.
type Raster struct {
	Def  Definition
	Data []float64
}

// NewRaster creates a raster with every cell missing.
func NewRaster(def Definition) *Raster {
	r := &Raster{Def: def, Data: make([]float64, def.NumCells())}
	for i := range r.Data {
		r.Data[i] = math.NaN()
	}
	return r
}

// NewConst creates a raster with every cell set to v.
func NewConst(def Definition, v float64) *Raster {
	r := &Raster{Def: def, Data: make([]float64, def.NumCells())}
	for i := range r.Data {
		r.Data[i] = v
	}
	return r
}

func (r *Raster) idx(row, col int) int {
	return row*r.Def.Ncols + col
}

// At returns the value of cell (row, col). Missing cells are NaN.
func (r *Raster) At(row, col int) float64 {
	return r.Data[r.idx(row, col)]
}

// Set assigns cell (row, col).
func (r *Raster) Set(row, col int, v float64) {
	r.Data[r.idx(row, col)] = v
}

// IsNull reports whether cell (row, col) is missing.
func (r *Raster) IsNull(row, col int) bool {
	return math.IsNaN(r.Data[r.idx(row, col)])
}

// Copy returns a deep copy.
func (r *Raster) Copy() *Raster {
	out := &Raster{Def: r.Def, Data: make([]float64, len(r.Data))}
	copy(out.Data, r.Data)
	return out
}

// Apply returns a new raster with fn applied to every non-missing cell.
// Missing cells stay missing.
func (r *Raster) Apply(fn func(float64) float64) *Raster {
	out := &Raster{Def: r.Def, Data: make([]float64, len(r.Data))}
	for i, v := range r.Data {
		if math.IsNaN(v) {
			out.Data[i] = v
			continue
		}
		out.Data[i] = fn(v)
	}
	return out
}

// Reclass maps integer cell values through codes; cells whose rounded value
// is not in codes, including missing cells, receive def. This mirrors the
// zone-raster reclassification the model uses for catchment scoring.
func (r *Raster) Reclass(codes map[int]float64, def float64) *Raster {
	out := &Raster{Def: r.Def, Data: make([]float64, len(r.Data))}
	for i, v := range r.Data {
		if math.IsNaN(v) {
			out.Data[i] = def
			continue
		}
		if nv, ok := codes[int(math.Round(v))]; ok {
			out.Data[i] = nv
		} else {
			out.Data[i] = def
		}
	}
	return out
}

func checkAligned(rs ...*Raster) error {
	if len(rs) == 0 {
		return errors.New("no rasters given")
	}
	for _, r := range rs[1:] {
		if !rs[0].Def.Equals(r.Def) {
			return errors.Errorf("raster definitions are not aligned: %dx%d vs %dx%d",
				rs[0].Def.Nrows, rs[0].Def.Ncols, r.Def.Nrows, r.Def.Ncols)
		}
	}
	return nil
}

// CellMax combines rasters cellwise taking the maximum of the non-missing
// values; a cell missing in every input stays missing.
func CellMax(rs ...*Raster) (*Raster, error) {
	return combine(rs, func(acc, v float64) float64 { return math.Max(acc, v) })
}

// CellSum combines rasters cellwise summing the non-missing values; a cell
// missing in every input stays missing.
func CellSum(rs ...*Raster) (*Raster, error) {
	return combine(rs, func(acc, v float64) float64 { return acc + v })
}

// CellMean combines rasters cellwise averaging the non-missing values; a
// cell missing in every input stays missing.
func CellMean(rs ...*Raster) (*Raster, error) {
	if err := checkAligned(rs...); err != nil {
		return nil, err
	}
	out := NewRaster(rs[0].Def)
	for i := range out.Data {
		sum, n := 0.0, 0
		for _, r := range rs {
			if v := r.Data[i]; !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		if n > 0 {
			out.Data[i] = sum / float64(n)
		}
	}
	return out, nil
}

func combine(rs []*Raster, fold func(acc, v float64) float64) (*Raster, error) {
	if err := checkAligned(rs...); err != nil {
		return nil, err
	}
	out := NewRaster(rs[0].Def)
	for i := range out.Data {
		first := true
		for _, r := range rs {
			v := r.Data[i]
			if math.IsNaN(v) {
				continue
			}
			if first {
				out.Data[i] = v
				first = false
				continue
			}
			out.Data[i] = fold(out.Data[i], v)
		}
	}
	return out, nil
}
