package raster

import (
	"encoding/gob"
	"math"
	"os"

	"github.com/pkg/errors"
)

// gobRaster is the on-disk form: NaN does not round-trip reliably through
// every consumer, so missing cells are stored as the no-data value.
type gobRaster struct {
	Def  Definition
	Data []float64
}

// SaveGob persists the raster as a binary intermediate.
func (r *Raster) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return errors.Wrapf(err, "failed to create gob: %s", fp)
	}
	defer f.Close()

	g := gobRaster{Def: r.Def, Data: make([]float64, len(r.Data))}
	for i, v := range r.Data {
		if math.IsNaN(v) {
			v = r.Def.Nodata
		}
		g.Data[i] = v
	}
	if err := gob.NewEncoder(f).Encode(g); err != nil {
		return errors.Wrapf(err, "failed to encode gob: %s", fp)
	}
	return nil
}

// LoadGob reads a raster saved with SaveGob.
func LoadGob(fp string) (*Raster, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open gob: %s", fp)
	}
	defer f.Close()

	var g gobRaster
	if err := gob.NewDecoder(f).Decode(&g); err != nil {
		return nil, errors.Wrapf(err, "failed to decode gob: %s", fp)
	}
	r := &Raster{Def: g.Def, Data: g.Data}
	for i, v := range r.Data {
		if v == g.Def.Nodata {
			r.Data[i] = math.NaN()
		}
	}
	return r, nil
}
