package model

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/gosuri/uiprogress"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/consvis/watermod/pkg/raster"
	"github.com/consvis/watermod/pkg/score"
)

// SourceRecord is one water source point in the aggregation loop.
type SourceRecord struct {
	ID  int64
	Pop *float64
	X   float64
	Y   float64
}

// SurfaceWater computes the surface-water protection score: for each source
// point, a distance-decay subscore over the cells within the far distance,
// merged across sources as a cellwise maximum (nearest source wins) and a
// population-weighted cellwise sum (cumulative exposure).
type SurfaceWater struct {
	Snap raster.Definition

	// Distance decay window: at or inside Near a cell scores 100, at or
	// beyond Far it scores 0.
	Near float64
	Far  float64

	// Density window the population-weighted sum is rescaled through.
	DensMin float64
	DensMax float64

	// Workers bounds the parallel record fan-out; values below 1 run
	// sequentially.
	Workers int

	// Progress renders a progress bar over the record loop.
	Progress bool
}

// SurfaceWaterResult carries the final score, its two subscores, and the
// records that were skipped.
type SurfaceWaterResult struct {
	Score       *raster.Raster
	DistanceSub *raster.Raster
	DensitySub  *raster.Raster
	Failed      []RecordError
}

// Run executes the aggregation loop. Per-record failures are collected in
// the result's fail list and never abort the batch; calibration problems and
// cancellation do.
func (sw SurfaceWater) Run(ctx context.Context, recs []SourceRecord) (*SurfaceWaterResult, error) {
	distRng, err := score.NewRange(sw.Near, sw.Far, score.Negative)
	if err != nil {
		return nil, err
	}
	densRng, err := score.NewRange(sw.DensMin, sw.DensMax, score.Positive)
	if err != nil {
		return nil, err
	}
	if sw.Snap.NumCells() <= 0 {
		return nil, errors.New("snap grid definition is empty")
	}

	// Zero baselines so cells no source reaches still carry a score of 0.
	runningMax := raster.NewConst(sw.Snap, 0)
	runningSum := raster.NewConst(sw.Snap, 0)

	var bar *uiprogress.Bar
	if sw.Progress && len(recs) > 0 {
		uiprogress.Start()
		bar = uiprogress.AddBar(len(recs)).AppendCompleted().PrependElapsed()
		defer uiprogress.Stop()
	}

	workers := sw.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	failed := make([]RecordError, 0)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, rec := range recs {
		rec := rec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			cells, scores, err := sw.recordScores(rec, distRng)

			mu.Lock()
			defer mu.Unlock()
			if bar != nil {
				bar.Incr()
			}
			if err != nil {
				failed = append(failed, RecordError{ID: strconv.FormatInt(rec.ID, 10), Err: err})
				return nil
			}
			pop := *rec.Pop
			for i, idx := range cells {
				s := scores[i]
				if s > runningMax.Data[idx] {
					runningMax.Data[idx] = s
				}
				runningSum.Data[idx] += s / score.MaxScore * pop
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(failed, func(i, j int) bool { return failed[i].ID < failed[j].ID })

	densitySub := runningSum.Apply(densRng.ScoreValue)
	final, err := raster.CellMean(runningMax, densitySub)
	if err != nil {
		return nil, errors.Wrap(err, "failed to combine subscores")
	}

	return &SurfaceWaterResult{
		Score:       final,
		DistanceSub: runningMax,
		DensitySub:  densitySub,
		Failed:      failed,
	}, nil
}

// recordScores computes the distance-decay scores of one source over the
// cells its far window reaches, returning parallel slices of cell indexes
// and scores.
func (sw SurfaceWater) recordScores(rec SourceRecord, distRng score.Range) (cells []int, scores []float64, err error) {
	if rec.Pop == nil {
		return nil, nil, errors.New("missing population estimate")
	}
	if *rec.Pop < 0 {
		return nil, nil, errors.Errorf("negative population estimate: %v", *rec.Pop)
	}

	d := sw.Snap
	row0, col0, ok := d.CellAt(rec.X, rec.Y)
	if !ok {
		return nil, nil, errors.Errorf("point (%v, %v) falls outside the grid extent", rec.X, rec.Y)
	}

	reach := int(math.Ceil(sw.Far / d.Cellsize))
	rmin, rmax := clamp(row0-reach, 0, d.Nrows-1), clamp(row0+reach, 0, d.Nrows-1)
	cmin, cmax := clamp(col0-reach, 0, d.Ncols-1), clamp(col0+reach, 0, d.Ncols-1)

	for row := rmin; row <= rmax; row++ {
		for col := cmin; col <= cmax; col++ {
			cx, cy := d.CellCenter(row, col)
			dist := math.Hypot(cx-rec.X, cy-rec.Y)
			if dist >= sw.Far {
				continue
			}
			cells = append(cells, row*d.Ncols+col)
			scores = append(scores, distRng.ScoreValue(dist))
		}
	}
	return cells, scores, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
