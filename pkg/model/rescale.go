package model

import (
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/consvis/watermod/pkg/data"
	"github.com/consvis/watermod/pkg/score"
)

// RescaleFixed rescales a metric's stored measurements onto 0-100 through a
// fixed calibration window and writes the scores back. Missing values stay
// missing. Returns the number of sites scored.
func RescaleFixed(db *sql.DB, metric string, min, max float64, pol score.Polarity) (int, error) {
	rng, err := score.NewRange(min, max, pol)
	if err != nil {
		return 0, err
	}
	return rescale(db, metric, rng)
}

// RescaleObserved rescales a metric through a window derived from the
// observed minimum and maximum of its non-missing values, with negative
// polarity: larger coefficients mean more pollution and score lower. This is
// the data-driven variant used for pollutant export coefficients.
func RescaleObserved(db *sql.DB, metric string) (int, error) {
	list, err := data.ListMeasurements(db, metric)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to list %s measurements", metric)
	}

	vals := make([]*float64, 0, len(list))
	for _, m := range list {
		vals = append(vals, m.Value)
	}
	min, max, err := score.WindowFromValues(vals)
	if err != nil {
		return 0, err
	}
	log.Debugf("observed %s window: [%v, %v]", metric, min, max)

	rng, err := score.NewRange(min, max, score.Negative)
	if err != nil {
		return 0, err
	}
	return rescaleList(db, metric, list, rng)
}

func rescale(db *sql.DB, metric string, rng score.Range) (int, error) {
	list, err := data.ListMeasurements(db, metric)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to list %s measurements", metric)
	}
	return rescaleList(db, metric, list, rng)
}

func rescaleList(db *sql.DB, metric string, list []*data.Measurement, rng score.Range) (int, error) {
	scores := make(map[string]*float64, len(list))
	n := 0
	for _, m := range list {
		s := rng.Score(m.Value)
		scores[m.Site] = s
		if s != nil {
			n++
		}
	}

	if err := data.UpdateMeasurementScores(db, metric, scores); err != nil {
		return 0, errors.Wrapf(err, "failed to write %s scores", metric)
	}
	return n, nil
}
