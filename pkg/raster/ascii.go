package raster

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadASC reads an ESRI ASCII grid. Cells equal to the header's no-data
// value come back as missing.
func ReadASC(fp string) (*Raster, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open grid: %s", fp)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", errors.Errorf("unexpected end of grid file: %s", fp)
		}
		return sc.Text(), nil
	}

	var def Definition
	hasNodata := false
	centerX, centerY := false, false
	def.Nodata = -9999

	// Header: keyword/value pairs until the first numeric token.
	var pending string
	for {
		tok, err := next()
		if err != nil {
			return nil, err
		}
		if _, perr := strconv.ParseFloat(tok, 64); perr == nil {
			pending = tok
			break
		}
		val, err := next()
		if err != nil {
			return nil, err
		}
		fv, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad header value for %s in %s", tok, fp)
		}
		switch strings.ToLower(tok) {
		case "ncols":
			def.Ncols = int(fv)
		case "nrows":
			def.Nrows = int(fv)
		case "xllcorner":
			def.Xll = fv
		case "yllcorner":
			def.Yll = fv
		case "xllcenter":
			def.Xll = fv
			centerX = true
		case "yllcenter":
			def.Yll = fv
			centerY = true
		case "cellsize":
			def.Cellsize = fv
		case "nodata_value":
			def.Nodata = fv
			hasNodata = true
		default:
			return nil, errors.Errorf("unrecognized header keyword %q in %s", tok, fp)
		}
	}

	if def.Ncols <= 0 || def.Nrows <= 0 || def.Cellsize <= 0 {
		return nil, errors.Errorf("incomplete grid header in %s", fp)
	}
	if centerX {
		def.Xll -= def.Cellsize / 2
	}
	if centerY {
		def.Yll -= def.Cellsize / 2
	}

	r := &Raster{Def: def, Data: make([]float64, def.NumCells())}
	for i := 0; i < def.NumCells(); i++ {
		tok := pending
		if i > 0 || tok == "" {
			var err error
			tok, err = next()
			if err != nil {
				return nil, err
			}
		}
		pending = ""
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad cell value at index %d in %s", i, fp)
		}
		if hasNodata && v == def.Nodata {
			v = math.NaN()
		}
		r.Data[i] = v
	}
	return r, nil
}

// WriteASC writes an ESRI ASCII grid. An existing file is an error unless
// overwrite is set, matching the environment's overwrite policy.
func WriteASC(r *Raster, fp string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(fp); err == nil {
			return errors.Errorf("output exists and overwrite is disabled: %s", fp)
		}
	}
	f, err := os.Create(fp)
	if err != nil {
		return errors.Wrapf(err, "failed to create grid: %s", fp)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	d := r.Def
	fmt.Fprintf(w, "ncols %d\n", d.Ncols)
	fmt.Fprintf(w, "nrows %d\n", d.Nrows)
	fmt.Fprintf(w, "xllcorner %g\n", d.Xll)
	fmt.Fprintf(w, "yllcorner %g\n", d.Yll)
	fmt.Fprintf(w, "cellsize %g\n", d.Cellsize)
	fmt.Fprintf(w, "NODATA_value %g\n", d.Nodata)

	for row := 0; row < d.Nrows; row++ {
		for col := 0; col < d.Ncols; col++ {
			if col > 0 {
				w.WriteByte(' ')
			}
			v := r.At(row, col)
			if math.IsNaN(v) {
				v = d.Nodata
			}
			w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "failed to write grid: %s", fp)
	}
	return nil
}
